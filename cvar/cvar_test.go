// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestRegister(t *testing.T) {
	cv := MustRegister("test_register", "2.5", NONE)
	if cv.Value() != 2.5 {
		t.Errorf("Value() = %v, want 2.5", cv.Value())
	}
	if _, err := Register("test_register", "1", NONE); !errors.Is(err, ErrDuplicate) {
		t.Errorf("double registration = %v, want ErrDuplicate", err)
	}
	got, ok := Get("test_register")
	if !ok || got != cv {
		t.Errorf("Get(test_register) = %v,%v", got, ok)
	}
}

func TestSetValue(t *testing.T) {
	cv := MustRegister("test_setvalue", "0", NONE)
	cv.SetValue(3)
	if cv.String() != "3" {
		t.Errorf("SetValue(3) gives %q", cv.String())
	}
	cv.SetValue(0.25)
	if cv.String() != "0.25" {
		t.Errorf("SetValue(0.25) gives %q", cv.String())
	}
	cv.Reset()
	if cv.Value() != 0 || cv.Bool() {
		t.Errorf("Reset gives %q", cv.String())
	}
}

func TestROM(t *testing.T) {
	cv := MustRegister("test_rom", "1", ROM)
	cv.SetByString("7")
	if cv.Value() != 1 {
		t.Errorf("ROM cvar changed to %v", cv.Value())
	}
}

func TestCallback(t *testing.T) {
	cv := MustRegister("test_callback", "0", NONE)
	called := 0
	cv.SetCallback(func(*Cvar) { called++ })
	cv.Toggle()
	if !cv.Bool() || called != 1 {
		t.Errorf("Toggle: Bool() = %v, called = %v", cv.Bool(), called)
	}
}

func TestExecute(t *testing.T) {
	cv := MustRegister("test_execute", "1", NONE)
	if !Execute([]string{"test_execute", "9"}) {
		t.Fatalf("Execute did not find test_execute")
	}
	if cv.Value() != 9 {
		t.Errorf("Execute set %v, want 9", cv.Value())
	}
	if Execute([]string{"no_such_cvar", "1"}) {
		t.Errorf("Execute found an unknown cvar")
	}
	if Execute(nil) {
		t.Errorf("Execute(nil) = true")
	}
}

func TestBounds(t *testing.T) {
	cv := MustRegister("test_bounds", "5", NONE).SetBounds(0, 1)
	if cv.Value() != 1 || cv.String() != "1" {
		t.Errorf("SetBounds(0, 1) on 5 gives %v %q", cv.Value(), cv.String())
	}
	tests := []struct {
		in   string
		want float32
	}{
		{"0.5", 0.5},
		{"-3", 0},
		{"12", 1},
		{"nan", 0},
		{"garbage", 0},
	}
	for _, tc := range tests {
		cv.SetByString(tc.in)
		if cv.Value() != tc.want {
			t.Errorf("SetByString(%q) = %v, want %v", tc.in, cv.Value(), tc.want)
		}
	}
}

func TestExecuteConfig(t *testing.T) {
	a := MustRegister("test_config_a", "0", NONE)
	b := MustRegister("test_config_b", "0", NONE)
	cfg := `// physics setup
test_config_a 2.5

test_config_b "-1"
no_such_cvar 3
`
	if err := ExecuteConfig(strings.NewReader(cfg)); err != nil {
		t.Fatalf("ExecuteConfig() = %v", err)
	}
	if a.Value() != 2.5 || b.Value() != -1 {
		t.Errorf("got %v %v, want 2.5 -1", a.Value(), b.Value())
	}
}

func TestResetAll(t *testing.T) {
	a := MustRegister("test_resetall_a", "1", NONE)
	b := MustRegister("test_resetall_b", "x", NONE)
	a.SetValue(4)
	b.SetByString("y")
	ResetAll()
	if a.String() != "1" || b.String() != "x" {
		t.Errorf("after ResetAll got %q %q, want 1 x", a.String(), b.String())
	}
}
