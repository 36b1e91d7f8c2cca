// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pinmap translates pin numbers between the numbering schemes an
// application may use and the native pin numbers of the SoC.
//
// All tables have 64 entries. Lookups mask the index to its low 6 bits so
// that pin numbers belonging to extension nodes wrap around instead of
// failing; callers route those pins elsewhere before they matter.
package pinmap

import (
	"strconv"

	"github.com/pkg/errors"

	"periph.io/x/wiring/board"
)

// Unmapped marks a table entry that has no native pin.
const Unmapped = -1

// Scheme is the numbering scheme pin arguments are interpreted under.
type Scheme int

// Numbering schemes.
const (
	// Logical is the library defined sequential numbering.
	Logical Scheme = iota
	// Physical numbers pins by their position on the connector.
	Physical
	// Native uses Broadcom compatible GPIO numbers.
	Native
	// SysFs uses the kernel exported GPIO numbers. Pins are accessed through
	// /sys/class/gpio instead of the registers.
	SysFs
)

var schemeNames = [...]string{"Logical", "Physical", "Native", "SysFs"}

func (s Scheme) String() string {
	if s < 0 || int(s) >= len(schemeNames) {
		return "Scheme(" + strconv.Itoa(int(s)) + ")"
	}
	return schemeNames[s]
}

// Table maps an index to a native pin number or Unmapped.
type Table [64]int

// Lookup returns the native pin for index, masked to the low 6 bits.
func (t *Table) Lookup(index int) (int, bool) {
	n := t[index&63]
	return n, n != Unmapped
}

// Set is the group of tables for one board.
type Set struct {
	Logical  *Table
	Physical *Table
	Native   *Table
	SysFs    *Table
	// Edge lists the pin indexes that support edge detection, in the board's
	// kernel numbering. Nil means every mapped pin does.
	Edge *Table
}

// For returns the tables of a board family and revision.
func For(f board.Family, revision int) (*Set, error) {
	switch f {
	case board.BCM2708, board.BCM2709:
		if revision == 1 {
			return &Set{Logical: &logicalR1, Physical: &physicalR1, Native: &nativeBCM, SysFs: &identity}, nil
		}
		return &Set{Logical: &logicalR2, Physical: &physicalR2, Native: &nativeBCM, SysFs: &identity}, nil
	case board.Sun6i:
		return &Set{Logical: &logicalBP, Physical: &physicalBP, Native: &nativeBP, SysFs: &sysfsBP, Edge: &edgeBP}, nil
	default:
		return nil, errors.Errorf("pinmap: no tables for family %s", f)
	}
}

// Table returns the table of scheme s.
func (s *Set) Table(sc Scheme) *Table {
	switch sc {
	case Logical:
		return s.Logical
	case Physical:
		return s.Physical
	case Native:
		return s.Native
	case SysFs:
		return s.SysFs
	default:
		return nil
	}
}

// Resolve returns the native pin of index under scheme sc.
//
// It returns false when the entry is unmapped.
func (s *Set) Resolve(sc Scheme, index int) (int, bool) {
	t := s.Table(sc)
	if t == nil {
		return Unmapped, false
	}
	return t.Lookup(index)
}

// LogicalToNative returns the native pin of a logical pin number, or
// Unmapped.
func (s *Set) LogicalToNative(index int) int {
	n, _ := s.Logical.Lookup(index)
	return n
}

// PhysicalToNative returns the native pin at a connector position, or
// Unmapped.
func (s *Set) PhysicalToNative(index int) int {
	n, _ := s.Physical.Lookup(index)
	return n
}

// SupportsEdge returns true if the pin index can be used for edge detection.
func (s *Set) SupportsEdge(index int) bool {
	if s.Edge == nil {
		return true
	}
	_, ok := s.Edge.Lookup(index)
	return ok
}

// Kernel returns the number the kernel GPIO interfaces use for a native pin.
//
// The Raspberry Pi kernels number pins like the Broadcom datasheet. The
// Banana Pi kernel uses the Broadcom compatible numbering as well, which is
// the index of the pin in the Native table.
func (s *Set) Kernel(native int) (int, bool) {
	for i, n := range s.Native {
		if n == native && native != Unmapped {
			return i, true
		}
	}
	return Unmapped, false
}
