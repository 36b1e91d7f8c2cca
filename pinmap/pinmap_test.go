// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pinmap

import (
	"testing"

	"periph.io/x/wiring/board"
)

func TestResolve(t *testing.T) {
	data := []struct {
		f      board.Family
		rev    int
		sc     Scheme
		index  int
		native int
		ok     bool
	}{
		{board.BCM2708, 1, Logical, 0, 17, true},
		{board.BCM2708, 1, Logical, 2, 21, true},
		{board.BCM2708, 2, Logical, 2, 27, true},
		{board.BCM2708, 2, Logical, 30, 0, true},
		{board.BCM2708, 1, Logical, 17, Unmapped, false},
		{board.BCM2708, 2, Physical, 12, 18, true},
		{board.BCM2708, 2, Physical, 1, Unmapped, false},
		{board.BCM2708, 2, Physical, 40, 21, true},
		{board.BCM2708, 2, Physical, 51, 28, true},
		{board.BCM2708, 2, Physical, 63, Unmapped, false},
		{board.BCM2708, 1, Physical, 27, Unmapped, false},
		{board.BCM2709, 2, Native, 18, 18, true},
		{board.BCM2709, 2, Native, 54, Unmapped, false},
		{board.BCM2709, 2, SysFs, 60, 60, true},
		{board.Sun6i, 2, Logical, 1, 234, true},
		{board.Sun6i, 2, Physical, 40, 290, true},
		{board.Sun6i, 2, Native, 18, 234, true},
		{board.Sun6i, 2, SysFs, 1, Unmapped, false},
		{board.Sun6i, 2, SysFs, 27, 27, true},
		// Wraps around.
		{board.BCM2708, 2, Logical, 64, 17, true},
		{board.BCM2708, 2, Logical, 64 + 2, 27, true},
		{board.Sun6i, 2, Logical, 128 + 1, 234, true},
	}
	for i, line := range data {
		s, err := For(line.f, line.rev)
		if err != nil {
			t.Fatal(err)
		}
		n, ok := s.Resolve(line.sc, line.index)
		if n != line.native || ok != line.ok {
			t.Errorf("#%d: Resolve(%s, %d) = %d, %t; want %d, %t", i, line.sc, line.index, n, ok, line.native, line.ok)
		}
		// Deterministic.
		if n2, ok2 := s.Resolve(line.sc, line.index); n2 != n || ok2 != ok {
			t.Errorf("#%d: not deterministic", i)
		}
	}
}

func TestResolve_invalidScheme(t *testing.T) {
	s, _ := For(board.BCM2708, 2)
	if n, ok := s.Resolve(Scheme(9), 0); ok || n != Unmapped {
		t.Fatal("expected unmapped")
	}
	if str := Scheme(9).String(); str != "Scheme(9)" {
		t.Fatal(str)
	}
}

func TestFor_unknown(t *testing.T) {
	if _, err := For(board.UnknownFamily, 2); err == nil {
		t.Fatal("expected error")
	}
}

// Every entry must be either unmapped or a pin the family has.
func TestTablesValid(t *testing.T) {
	for _, f := range []board.Family{board.BCM2708, board.BCM2709, board.Sun6i} {
		for _, rev := range []int{1, 2} {
			s, _ := For(f, rev)
			for _, sc := range []Scheme{Logical, Physical, Native, SysFs} {
				for i, n := range s.Table(sc) {
					if n == Unmapped {
						continue
					}
					if f.IsBroadcom() && (n < 0 || n > 63) {
						t.Errorf("%s/%s[%d] = %d", f, sc, i, n)
					}
					if f == board.Sun6i && sc != SysFs && (n < 32 || n > 300) {
						t.Errorf("%s/%s[%d] = %d", f, sc, i, n)
					}
				}
			}
		}
	}
}

func TestConversions(t *testing.T) {
	s, _ := For(board.BCM2708, 2)
	if n := s.LogicalToNative(1); n != 18 {
		t.Fatal(n)
	}
	if n := s.PhysicalToNative(11); n != 17 {
		t.Fatal(n)
	}
	if n := s.PhysicalToNative(2); n != Unmapped {
		t.Fatal(n)
	}
	if !s.SupportsEdge(3) {
		t.Fatal("broadcom pins all support edges")
	}
	bp, _ := For(board.Sun6i, 2)
	if bp.SupportsEdge(3) || !bp.SupportsEdge(4) {
		t.Fatal("banana pi edge table")
	}
}

func TestKernel(t *testing.T) {
	bcm, _ := For(board.BCM2709, 2)
	if k, ok := bcm.Kernel(17); !ok || k != 17 {
		t.Fatalf("Kernel(17) = %d, %t", k, ok)
	}
	bp, _ := For(board.Sun6i, 2)
	// PH9 is on header pin 7, Broadcom GPIO 4.
	if k, ok := bp.Kernel(233); !ok || k != 4 {
		t.Fatalf("Kernel(233) = %d, %t", k, ok)
	}
	if !bp.SupportsEdge(4) || bp.SupportsEdge(5) {
		t.Fatal("edge table mismatch")
	}
	if _, ok := bp.Kernel(Unmapped); ok {
		t.Fatal("Unmapped has no kernel number")
	}
	if _, ok := bp.Kernel(0); ok {
		t.Fatal("PA0 is not routed")
	}
}
