// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"periph.io/x/conn/v3/gpio"
)

// fakeRoot creates the gpioN directories of a fake sysfs tree.
func fakeRoot(t *testing.T, pins ...int) string {
	root := t.TempDir()
	for _, n := range pins {
		dir := filepath.Join(root, "gpio"+strconv.Itoa(n))
		if err := os.MkdirAll(dir, 0700); err != nil {
			t.Fatal(err)
		}
		for name, content := range map[string]string{"value": "0\n", "edge": "none\n", "direction": "in\n"} {
			if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := os.WriteFile(filepath.Join(root, "export"), nil, 0600); err != nil {
		t.Fatal(err)
	}
	return root
}

func readFile(t *testing.T, path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestOpen_missing(t *testing.T) {
	if _, err := Open(t.TempDir(), 4); err == nil {
		t.Fatal("expected error")
	}
}

func TestPin_ReadOut(t *testing.T) {
	root := fakeRoot(t, 17)
	p, err := Open(root, 17)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if p.String() != "GPIO17" || p.Number() != 17 {
		t.Fatal(p.String())
	}
	if p.Read() != gpio.Low {
		t.Fatal("expected Low")
	}
	if err := p.Out(gpio.High); err != nil {
		t.Fatal(err)
	}
	if p.Read() != gpio.High {
		t.Fatal("expected High")
	}
}

func TestPin_SetEdge(t *testing.T) {
	root := fakeRoot(t, 4)
	p, err := Open(root, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if err := p.SetEdge(gpio.FallingEdge); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, filepath.Join(root, "gpio4", "edge")); got[:7] != "falling" {
		t.Fatalf("edge = %q", got)
	}
	if err := p.SetDirection(true); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, filepath.Join(root, "gpio4", "direction")); got[:3] != "out" {
		t.Fatalf("direction = %q", got)
	}
}

func TestExport(t *testing.T) {
	root := fakeRoot(t)
	if err := Export(root, 22); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, filepath.Join(root, "export")); got != "22" {
		t.Fatalf("export = %q", got)
	}
	if err := Export(t.TempDir()+"/missing", 22); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenAll(t *testing.T) {
	root := fakeRoot(t, 2, 3)
	pins, err := OpenAll(root, []int{1, 2, 3})
	if err == nil {
		t.Fatal("expected an error for pin 1")
	}
	if len(pins) != 2 || pins[2] == nil || pins[3] == nil {
		t.Fatalf("pins = %v", pins)
	}
	for _, p := range pins {
		if err := p.Close(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestPin_DrainWait(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("poll is only used on linux")
	}
	root := fakeRoot(t, 7)
	p, err := Open(root, 7)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if err := p.Drain(); err != nil {
		t.Fatal(err)
	}
	// A regular file never reports an exceptional condition.
	if ok, err := p.Wait(0); ok || err != nil {
		t.Fatalf("Wait() = %t, %v", ok, err)
	}
	if p.Read() != gpio.Low {
		t.Fatal("Drain must rewind the value file")
	}
}

func TestEdgeName(t *testing.T) {
	data := map[gpio.Edge]string{
		gpio.NoEdge:      "none",
		gpio.RisingEdge:  "rising",
		gpio.FallingEdge: "falling",
		gpio.BothEdges:   "both",
	}
	for e, want := range data {
		if got := EdgeName(e); got != want {
			t.Errorf("EdgeName(%s) = %q", e, got)
		}
	}
}
