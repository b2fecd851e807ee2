// SPDX-License-Identifier: GPL-2.0-or-later

// Package cvar is the registry of named tunables. The string form of a
// value is authoritative, the float is derived from it.
package cvar

import (
	"bufio"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"ozphys/conlog"
)

var (
	registry = make(map[string]*Cvar)
	order    []*Cvar
)

type flag uint64

const (
	NONE   flag = 0
	NOTIFY flag = 1 << iota
	ROM
)

var ErrDuplicate = errors.New("cvar already registered")

type CallbackFunc func(cv *Cvar)

type Cvar struct {
	name         string
	defaultValue string
	flags        flag
	callback     CallbackFunc

	str   string
	value float32

	// bounds, only enforced if bounded is set
	bounded  bool
	min, max float32
}

func (cv *Cvar) Name() string   { return cv.name }
func (cv *Cvar) String() string { return cv.str }
func (cv *Cvar) Value() float32 { return cv.value }
func (cv *Cvar) Bool() bool     { return cv.str != "0" }
func (cv *Cvar) Notify() bool   { return cv.flags&NOTIFY != 0 }

func (cv *Cvar) SetCallback(cb CallbackFunc) {
	cv.callback = cb
}

// SetBounds limits the value to [min, max]. The current value is clamped
// right away.
func (cv *Cvar) SetBounds(min, max float32) *Cvar {
	cv.bounded = true
	cv.min, cv.max = min, max
	cv.set(cv.str)
	return cv
}

func (cv *Cvar) set(s string) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	f := float32(v)
	if err != nil || math32.IsNaN(f) {
		f = 0
	}
	if cv.bounded && (f < cv.min || f > cv.max) {
		f = math32.Max(cv.min, math32.Min(f, cv.max))
		s = format(f)
		conlog.DPrintf("%s clamped to %s\n", cv.name, s)
	}
	cv.str = s
	cv.value = f
	if cv.callback != nil {
		cv.callback(cv)
	}
}

// SetByString sets a new value. Read only cvars ignore it.
func (cv *Cvar) SetByString(s string) {
	if cv.flags&ROM != 0 {
		return
	}
	cv.set(s)
}

func format(v float32) string {
	if float32(int(v)) == v {
		return strconv.Itoa(int(v))
	}
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

func (cv *Cvar) SetValue(v float32) {
	cv.SetByString(format(v))
}

func (cv *Cvar) Toggle() {
	if cv.Bool() {
		cv.SetByString("0")
	} else {
		cv.SetByString("1")
	}
}

func (cv *Cvar) Reset() {
	cv.SetByString(cv.defaultValue)
}

func Get(name string) (*Cvar, bool) {
	cv, ok := registry[name]
	return cv, ok
}

func Register(name, value string, flags flag) (*Cvar, error) {
	if _, ok := registry[name]; ok {
		return nil, errors.Wrap(ErrDuplicate, name)
	}
	cv := &Cvar{name: name, defaultValue: value, flags: flags}
	cv.set(value)
	registry[name] = cv
	order = append(order, cv)
	return cv, nil
}

func MustRegister(name, value string, flags flag) *Cvar {
	cv, err := Register(name, value, flags)
	if err != nil {
		log.Panic(err)
	}
	return cv
}

// Execute handles a "name [value]" command. It returns false if args does
// not name a cvar.
func Execute(args []string) bool {
	if len(args) == 0 {
		return false
	}
	cv, ok := Get(args[0])
	if !ok {
		return false
	}
	if len(args) == 1 {
		conlog.Printf("\"%s\" is \"%s\"\n", cv.name, cv.str)
		return true
	}
	cv.SetByString(args[1])
	if cv.Notify() {
		conlog.Printf("\"%s\" changed to \"%s\"\n", cv.name, cv.str)
	}
	return true
}

// ExecuteConfig runs every line of a config file through Execute. Empty
// lines and lines starting with // are skipped. Values may be quoted.
// Unknown names are reported but do not stop the rest of the file.
func ExecuteConfig(r io.Reader) error {
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		l := strings.TrimSpace(s.Text())
		if l == "" || strings.HasPrefix(l, "//") {
			continue
		}
		args := strings.Fields(l)
		for i := range args {
			args[i] = strings.Trim(args[i], "\"")
		}
		if !Execute(args) {
			conlog.Printf("line %d: unknown cvar \"%s\"\n", line, args[0])
		}
	}
	return errors.Wrap(s.Err(), "reading config")
}

func ResetAll() {
	for _, cv := range order {
		cv.Reset()
	}
}

// List returns the names of all cvars in sorted order.
func List() []string {
	n := make([]string, 0, len(order))
	for _, cv := range order {
		n = append(n, cv.name)
	}
	sort.Strings(n)
	return n
}
