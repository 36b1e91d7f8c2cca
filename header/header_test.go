// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package header

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/pin"
	"periph.io/x/conn/v3/pin/pinreg"

	"periph.io/x/wiring"
	"periph.io/x/wiring/board"
	"periph.io/x/wiring/pinmap"
	"periph.io/x/wiring/regmem"
	"periph.io/x/wiring/regmem/regmemtest"
)

func newContext(t *testing.T, m *board.Model) *wiring.Context {
	windows := map[string]regmem.Window{}
	for _, name := range []string{regmem.GPIO, regmem.GPIOLM, regmem.PWM, regmem.Clock, regmem.Pads} {
		windows[name] = regmemtest.New(name, 2048, nil)
	}
	log, _ := test.NewNullLogger()
	c, err := wiring.New(m, regmem.NewSet(windows), pinmap.Logical, &wiring.Options{Logger: log, DriverDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

var (
	modelB1    = &board.Model{Family: board.BCM2708, Type: board.ModelB, Revision: 1}
	modelB2    = &board.Model{Family: board.BCM2708, Type: board.ModelB, Revision: 2}
	modelBPlus = &board.Model{Family: board.BCM2708, Type: board.ModelBPlus, Revision: 2}
	modelBPI   = &board.Model{Family: board.Sun6i, Type: board.ModelBM, Revision: 2}
)

func TestLayout(t *testing.T) {
	data := []struct {
		m    *board.Model
		want string
	}{
		{modelB1, "rpi-26"},
		{modelB2, "rpi-26-p5"},
		{modelBPlus, "rpi-40"},
		{&board.Model{Family: board.BCM2709, Type: board.Model2, Revision: 2}, "rpi-40"},
		{&board.Model{Family: board.BCM2708, Type: board.ComputeModule, Revision: 2}, ""},
		{modelBPI, "bpi-m2"},
		{&board.Model{}, ""},
	}
	for i, line := range data {
		if got := Layout(line.m); got != line.want {
			t.Errorf("#%d: Layout() = %q, want %q", i, got, line.want)
		}
	}
}

func TestSerializedHeaders(t *testing.T) {
	h, err := getSerializedHeaders()
	if err != nil {
		t.Fatal(err)
	}
	for name, headers := range h {
		for _, s := range headers {
			for pos, p := range s.Power {
				if _, ok := powerPins[p]; !ok {
					t.Errorf("%s %s: pin %s is %q", name, s.Name, pos, p)
				}
			}
		}
	}
}

func pinName(p pin.Pin) string {
	return p.Name()
}

func TestHeaders(t *testing.T) {
	c := newContext(t, modelB2)
	h, err := Headers(c)
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != 2 || h[0].Name != "P1" || h[1].Name != "P5" {
		t.Fatalf("Headers() = %v", h)
	}
	if len(h[0].Rows) != 13 || len(h[1].Rows) != 4 {
		t.Fatalf("%d %d rows", len(h[0].Rows), len(h[1].Rows))
	}
	if h[0].Rows[0][0] != pin.V3_3 || h[0].Rows[0][1] != pin.V5 {
		t.Fatal("P1 power pins")
	}
	if got := pinName(h[0].Rows[5][0]) + "," + pinName(h[0].Rows[5][1]); got != "GPIO17,GPIO18" {
		t.Fatalf("P1 row 6 = %s", got)
	}
	if got := pinName(h[1].Rows[1][0]) + "," + pinName(h[1].Rows[1][1]); got != "GPIO28,GPIO29" {
		t.Fatalf("P5 row 2 = %s", got)
	}
	if h[1].Rows[3][1] != pin.GROUND {
		t.Fatal("P5 pin 8")
	}
}

func TestHeaders_bananaPi(t *testing.T) {
	c := newContext(t, modelBPI)
	h, err := Headers(c)
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != 1 || len(h[0].Rows) != 20 {
		t.Fatalf("Headers() = %v", h)
	}
	if got := pinName(h[0].Rows[5][1]); got != "PH10" {
		t.Fatalf("pin 12 = %s", got)
	}
	if h[0].Rows[4][0] != pin.GROUND {
		t.Fatalf("pin 9 = %s", h[0].Rows[4][0])
	}
}

func TestRegister(t *testing.T) {
	c := newContext(t, modelBPlus)
	if err := Register(c); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := Unregister(c); err != nil {
			t.Error(err)
		}
	}()
	p := gpioreg.ByName("GPIO17")
	if p == nil {
		t.Fatal("GPIO17 not registered")
	}
	if name, pos := pinreg.Position(p); name != "J8" || pos != 11 {
		t.Fatalf("Position() = %s, %d", name, pos)
	}
	a := gpioreg.ByName("WPI0")
	if a == nil || a.Number() != 17 {
		t.Fatalf("WPI0 = %v", a)
	}
	if err := Register(c); err == nil {
		t.Fatal("registering twice must fail")
	}
}

func TestDriver(t *testing.T) {
	old := open
	defer func() { open = old }()
	var got *wiring.Options
	open = func(o *wiring.Options) (*wiring.Context, error) {
		got = o
		return nil, errors.New("no board")
	}
	d := &driver{}
	if d.String() != "wiring-header" || d.Prerequisites() != nil || d.After() != nil {
		t.Fatal("driver metadata")
	}
	if ok, err := d.Init(); ok || err == nil {
		t.Fatalf("Init() = %t, %v", ok, err)
	}
	if !got.ReturnCodes {
		t.Fatal("the driver must not exit the process")
	}

	c := newContext(t, modelBPI)
	open = func(o *wiring.Options) (*wiring.Context, error) {
		return c, nil
	}
	if ok, err := d.Init(); !ok || err != nil {
		t.Fatalf("Init() = %t, %v", ok, err)
	}
	defer Unregister(c)
	if d.c != c {
		t.Fatal("context not kept")
	}
	if gpioreg.ByName("PH10") == nil {
		t.Fatal("PH10 not registered")
	}
}

func TestRows(t *testing.T) {
	c := newContext(t, modelBPlus)
	rows, err := Rows(c)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 20 {
		t.Fatalf("%d rows", len(rows))
	}
	want := []string{"J8", "IN_LOW", "GPIO17", "11", "12", "GPIO18", "IN_LOW"}
	if diff := cmp.Diff(want, rows[5]); diff != "" {
		t.Fatalf("row 6 (-want +got):\n%s", diff)
	}
	if rows[0][2] != pin.V3_3.Name() || rows[0][1] != "" {
		t.Fatalf("row 1 = %v", rows[0])
	}
}
