// SPDX-License-Identifier: GPL-2.0-or-later

package conlog

import (
	"sync/atomic"
)

var (
	p         func(string, ...interface{})
	developer atomic.Bool
)

func SetPrintf(f func(string, ...interface{})) {
	p = f
}

// SetDeveloper toggles the output of DPrintf.
func SetDeveloper(b bool) {
	developer.Store(b)
}

func Printf(format string, v ...interface{}) {
	if p == nil {
		return
	}
	p(format, v...)
}

// DPrintf prints only in developer mode.
func DPrintf(format string, v ...interface{}) {
	if !developer.Load() {
		return
	}
	Printf(format, v...)
}
