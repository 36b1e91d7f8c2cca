// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package regmem maps physical peripheral register windows into the process.
//
// Windows are mapped once through the privileged memory device and accessed
// as 32 bits words. There is no bounds checking beyond the size of the
// window: the register models using a Window are responsible for using valid
// offsets.
package regmem

import (
	"os"
	"unsafe"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sys/unix"
)

// Device is the privileged physical memory device.
const Device = "/dev/mem"

// Window names used by the register models.
const (
	GPIO   = "gpio"
	GPIOLM = "gpio-lm"
	PWM    = "pwm"
	Clock  = "clock"
	Pads   = "pads"
	Timer  = "timer"
)

// Window is a word addressable register window.
type Window interface {
	// ReadWord returns the word at offset off, in words.
	ReadWord(off int) uint32
	// WriteWord writes the word at offset off, in words.
	WriteWord(off int, v uint32)
	// Len returns the size of the window in words.
	Len() int
}

// Spec describes one window to map.
type Spec struct {
	Name string
	// Base is the physical address. It must be page aligned.
	Base int64
	// Size is in bytes.
	Size int
}

// Mapped is a window mapped from the memory device.
type Mapped struct {
	name  string
	base  int64
	bytes []byte
	words []uint32
}

// ReadWord implements Window.
func (m *Mapped) ReadWord(off int) uint32 {
	return m.words[off]
}

// WriteWord implements Window.
func (m *Mapped) WriteWord(off int, v uint32) {
	m.words[off] = v
}

// Len implements Window.
func (m *Mapped) Len() int {
	return len(m.words)
}

func (m *Mapped) String() string {
	return m.name
}

// Close unmaps the window.
func (m *Mapped) Close() error {
	if m.bytes == nil {
		return nil
	}
	err := unix.Munmap(m.bytes)
	m.bytes = nil
	m.words = nil
	return err
}

// Set is the group of windows of a board, indexed by name.
type Set struct {
	windows map[string]Window
	mapped  []*Mapped
}

// NewSet returns a Set over already existing windows.
//
// It is used to inject fake windows in tests.
func NewSet(windows map[string]Window) *Set {
	s := &Set{windows: map[string]Window{}}
	for k, v := range windows {
		s.windows[k] = v
	}
	return s
}

// Window returns the window named name, or nil.
func (s *Set) Window(name string) Window {
	if s == nil {
		return nil
	}
	return s.windows[name]
}

// Close unmaps all the windows that were mapped by Open.
//
// Normal operation never calls it: windows live as long as the process.
func (s *Set) Close() error {
	var err error
	for _, m := range s.mapped {
		err = multierr.Append(err, m.Close())
	}
	s.mapped = nil
	return err
}

// Open maps every window in specs from device.
//
// On failure, windows already mapped are unmapped again.
func Open(device string, specs []Spec) (*Set, error) {
	f, err := os.OpenFile(device, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		if os.IsPermission(err) {
			return nil, errors.Wrapf(err, "regmem: unable to open %s, need to run as root", device)
		}
		return nil, errors.Wrapf(err, "regmem: unable to open %s", device)
	}
	// The mappings stay valid once the file is closed.
	defer f.Close()
	s := &Set{windows: map[string]Window{}}
	for _, spec := range specs {
		m, err := mapWindow(int(f.Fd()), spec)
		if err != nil {
			return nil, multierr.Append(err, s.Close())
		}
		s.windows[spec.Name] = m
		s.mapped = append(s.mapped, m)
	}
	return s, nil
}

func mapWindow(fd int, spec Spec) (*Mapped, error) {
	if spec.Size <= 0 || spec.Size%4 != 0 {
		return nil, errors.Errorf("regmem: %s: invalid size %d", spec.Name, spec.Size)
	}
	if spec.Base%int64(os.Getpagesize()) != 0 {
		return nil, errors.Errorf("regmem: %s: base 0x%x is not page aligned", spec.Name, spec.Base)
	}
	b, err := unix.Mmap(fd, spec.Base, spec.Size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrapf(err, "regmem: mmap %s at 0x%x failed", spec.Name, spec.Base)
	}
	return &Mapped{
		name:  spec.Name,
		base:  spec.Base,
		bytes: b,
		words: unsafe.Slice((*uint32)(unsafe.Pointer(&b[0])), len(b)/4),
	}, nil
}

var _ Window = &Mapped{}
