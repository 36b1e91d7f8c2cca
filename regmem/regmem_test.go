// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package regmem_test

import (
	"os"
	"path/filepath"
	"testing"

	"periph.io/x/wiring/regmem"
	"periph.io/x/wiring/regmem/regmemtest"
)

func TestOpen_missingDevice(t *testing.T) {
	_, err := regmem.Open(filepath.Join(t.TempDir(), "mem"), []regmem.Spec{{Name: "gpio", Base: 0, Size: 4096}})
	if err == nil {
		t.Fatal("expected error")
	}
}

// A regular file can be mapped just like the memory device.
func TestOpen_file(t *testing.T) {
	p := filepath.Join(t.TempDir(), "mem")
	size := 2 * os.Getpagesize()
	if err := os.WriteFile(p, make([]byte, size), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := regmem.Open(p, []regmem.Spec{
		{Name: "a", Base: 0, Size: os.Getpagesize()},
		{Name: "b", Base: int64(os.Getpagesize()), Size: os.Getpagesize()},
	})
	if err != nil {
		t.Fatal(err)
	}
	a, b := s.Window("a"), s.Window("b")
	if a == nil || b == nil || s.Window("c") != nil {
		t.Fatal("missing windows")
	}
	if l := a.Len(); l != os.Getpagesize()/4 {
		t.Fatal(l)
	}
	a.WriteWord(3, 0xdeadbeef)
	b.WriteWord(0, 42)
	if v := a.ReadWord(3); v != 0xdeadbeef {
		t.Fatalf("0x%x", v)
	}
	if s := a.(*regmem.Mapped).String(); s != "a" {
		t.Fatal(s)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	// Little endian words; MAP_SHARED writes reach the file.
	if raw[12] != 0xef || raw[15] != 0xde || raw[os.Getpagesize()] != 42 {
		t.Fatalf("unexpected content % x", raw[12:16])
	}
}

func TestOpen_invalidSpec(t *testing.T) {
	p := filepath.Join(t.TempDir(), "mem")
	if err := os.WriteFile(p, make([]byte, os.Getpagesize()), 0o600); err != nil {
		t.Fatal(err)
	}
	data := []regmem.Spec{
		{Name: "size", Base: 0, Size: 0},
		{Name: "odd", Base: 0, Size: 6},
		{Name: "align", Base: 0x10, Size: 4096},
	}
	for _, spec := range data {
		if _, err := regmem.Open(p, []regmem.Spec{{Name: "ok", Base: 0, Size: 4096}, spec}); err == nil {
			t.Errorf("%s: expected error", spec.Name)
		}
	}
}

func TestNewSet(t *testing.T) {
	w := regmemtest.New("gpio", 4, nil)
	s := regmem.NewSet(map[string]regmem.Window{"gpio": w})
	if s.Window("gpio") != w {
		t.Fatal("window")
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	var nilSet *regmem.Set
	if nilSet.Window("gpio") != nil {
		t.Fatal("nil set")
	}
}
