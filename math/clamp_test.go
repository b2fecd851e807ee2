// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	"testing"
)

func TestClampMin(t *testing.T) {
	v := Clamp(1, 0, 10)
	if v != 1 {
		t.Errorf("Clamp(1,0,10) = %v", v)
	}
}

func TestClampMan(t *testing.T) {
	v := Clamp(1, 100, 10)
	if v != 10 {
		t.Errorf("Clamp(1,100,10) = %v", v)
	}
}

func TestClampVal(t *testing.T) {
	v := Clamp(1, 5, 10)
	if v != 5 {
		t.Errorf("Clamp(1,5,10) = %v", v)
	}
}

func TestClampFloat(t *testing.T) {
	v := Clamp(float32(0), 1.5, 1)
	if v != 1 {
		t.Errorf("Clamp(0,1.5,1) = %v", v)
	}
}

func TestMinMax(t *testing.T) {
	if v := Min(3, 4); v != 3 {
		t.Errorf("Min(3,4) = %v", v)
	}
	if v := Max(float32(-1), 2); v != 2 {
		t.Errorf("Max(-1,2) = %v", v)
	}
}

func TestLerp(t *testing.T) {
	if v := Lerp(2, 4, 0.5); v != 3 {
		t.Errorf("Lerp(2,4,0.5) = %v", v)
	}
}
