// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package regmemtest implements fake register windows for unit tests.
package regmemtest

import (
	"fmt"
	"sync"

	"periph.io/x/wiring/regmem"
)

// Access is one recorded register write.
type Access struct {
	Window string
	Offset int
	Value  uint32
}

func (a Access) String() string {
	return fmt.Sprintf("%s[%d]=0x%08x", a.Window, a.Offset, a.Value)
}

// Recorder records the writes of one or more windows in order.
type Recorder struct {
	mu  sync.Mutex
	Ops []Access
}

// Reset clears the recorded writes.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Ops = nil
}

func (r *Recorder) record(a Access) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Ops = append(r.Ops, a)
}

// Window is a fake regmem.Window backed by a slice.
//
// Hooks model hardware side effects such as set/clear registers or a busy bit
// that clears after a few reads.
type Window struct {
	Name  string
	Words []uint32
	// Rec, if set, records every write.
	Rec *Recorder
	// OnRead, if set, is called instead of reading Words.
	OnRead func(w *Window, off int) uint32
	// OnWrite, if set, is called after the write has been recorded instead of
	// storing the value in Words.
	OnWrite func(w *Window, off int, v uint32)

	mu sync.Mutex
}

// New returns a window of n words.
func New(name string, n int, rec *Recorder) *Window {
	return &Window{Name: name, Words: make([]uint32, n), Rec: rec}
}

// ReadWord implements regmem.Window.
func (w *Window) ReadWord(off int) uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.OnRead != nil {
		return w.OnRead(w, off)
	}
	return w.Words[off]
}

// WriteWord implements regmem.Window.
func (w *Window) WriteWord(off int, v uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Rec != nil {
		w.Rec.record(Access{Window: w.Name, Offset: off, Value: v})
	}
	if w.OnWrite != nil {
		w.OnWrite(w, off, v)
		return
	}
	w.Words[off] = v
}

// Len implements regmem.Window.
func (w *Window) Len() int {
	return len(w.Words)
}

var _ regmem.Window = &Window{}
