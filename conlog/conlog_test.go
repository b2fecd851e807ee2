// SPDX-License-Identifier: GPL-2.0-or-later

package conlog

import (
	"fmt"
	"testing"
)

func TestDPrintf(t *testing.T) {
	var got string
	SetPrintf(func(f string, v ...interface{}) {
		got += fmt.Sprintf(f, v...)
	})
	defer SetPrintf(nil)

	DPrintf("hidden %d", 1)
	if got != "" {
		t.Errorf("DPrintf printed %q without developer mode", got)
	}
	SetDeveloper(true)
	defer SetDeveloper(false)
	DPrintf("shown %d", 2)
	if got != "shown 2" {
		t.Errorf("DPrintf printed %q, want %q", got, "shown 2")
	}
}

func TestPrintfUnset(t *testing.T) {
	SetPrintf(nil)
	Printf("must not panic")
}
