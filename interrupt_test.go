// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wiring

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"

	"periph.io/x/wiring/board"
	"periph.io/x/wiring/isr"
	"periph.io/x/wiring/pinmap"
	"periph.io/x/wiring/regmem"
	"periph.io/x/wiring/regmem/regmemtest"
)

var errClosed = errors.New("closed")

type fakeNotifier struct {
	events chan bool
	done   chan struct{}
	once   sync.Once
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{events: make(chan bool), done: make(chan struct{})}
}

func (f *fakeNotifier) Drain() error {
	return nil
}

func (f *fakeNotifier) Wait(timeout time.Duration) (bool, error) {
	var after <-chan time.Time
	if timeout >= 0 {
		after = time.After(timeout)
	}
	select {
	case ok := <-f.events:
		return ok, nil
	case <-after:
		return false, nil
	case <-f.done:
		return false, errClosed
	}
}

func (f *fakeNotifier) Close() error {
	f.once.Do(func() { close(f.done) })
	return nil
}

type fakeSource struct {
	mu sync.Mutex
	n  map[int]*fakeNotifier
}

func (s *fakeSource) Open(n int) (isr.Notifier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.n[n]
	if !ok {
		return nil, errors.New("not exported")
	}
	return f, nil
}

func (s *fakeSource) add(n int) *fakeNotifier {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := newFakeNotifier()
	s.n[n] = f
	return f
}

type edgeCall struct {
	N    int
	Edge gpio.Edge
}

type fakeEdges struct {
	mu    sync.Mutex
	calls []edgeCall
}

func (e *fakeEdges) SetEdge(n int, edge gpio.Edge) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, edgeCall{n, edge})
	return nil
}

func fakes(c *Context) (*fakeEdges, *fakeSource) {
	return c.opts.Edges.(*fakeEdges), c.opts.Notifiers.(*fakeSource)
}

func TestISR(t *testing.T) {
	c, _, e := newBCM(t, pinmap.Logical, false)
	edges, src := fakes(c)
	// Logical pin 0 is kernel GPIO 17.
	n := src.add(17)
	calls := make(chan struct{}, 10)
	if err := c.ISR(0, gpio.FallingEdge, func() { calls <- struct{}{} }); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		n.events <- true
		select {
		case <-calls:
		case <-time.After(5 * time.Second):
			t.Fatal("callback not called")
		}
	}
	select {
	case <-calls:
		t.Fatal("callback called too many times")
	case <-time.After(10 * time.Millisecond):
	}
	if diff := cmp.Diff([]edgeCall{{17, gpio.FallingEdge}}, edges.calls); diff != "" {
		t.Fatalf("edges (-want +got):\n%s", diff)
	}
	if e.count() != 0 {
		t.Fatalf("exits = %d", e.count())
	}
}

func TestISR_invalid(t *testing.T) {
	c, _, e := newBCM(t, pinmap.Logical, false)
	if err := c.ISR(70, gpio.RisingEdge, func() {}); err == nil {
		t.Fatal("expected error")
	}
	if e.count() != 1 {
		t.Fatalf("exits = %d", e.count())
	}
	// Not exported.
	if err := c.ISR(1, gpio.RisingEdge, func() {}); err == nil {
		t.Fatal("expected error")
	}
	if e.count() != 2 {
		t.Fatalf("exits = %d", e.count())
	}
}

func TestWaitForInterrupt(t *testing.T) {
	c, _, _ := newBCM(t, pinmap.Native, false)
	if _, err := c.WaitForInterrupt(22, 0); !errors.Is(err, isr.ErrNotArmed) {
		t.Fatalf("WaitForInterrupt() = %v", err)
	}
	_, src := fakes(c)
	n := src.add(22)
	p := c.Pin(22)
	if err := p.In(gpio.PullUp, gpio.BothEdges); err != nil {
		t.Fatal(err)
	}
	go func() { n.events <- true }()
	if ok, err := c.WaitForInterrupt(22, 5*time.Second); !ok || err != nil {
		t.Fatalf("WaitForInterrupt() = %t, %v", ok, err)
	}
	if ok, err := c.WaitForInterrupt(22, time.Millisecond); ok || err != nil {
		t.Fatalf("WaitForInterrupt() = %t, %v", ok, err)
	}
	go func() { n.events <- true }()
	if !p.WaitForEdge(5 * time.Second) {
		t.Fatal("WaitForEdge() = false")
	}
}

func TestISR_bananaPi(t *testing.T) {
	windows := map[string]regmem.Window{}
	for _, name := range []string{regmem.GPIO, regmem.GPIOLM, regmem.PWM} {
		windows[name] = regmemtest.New(name, 2048, nil)
	}
	o, _, e := testOptions()
	o.DriverDir = t.TempDir()
	o.ReturnCodes = true
	model := &board.Model{Family: board.Sun6i, Type: board.ModelBM, Revision: 2, Maker: board.BPI}
	c, err := New(model, regmem.NewSet(windows), pinmap.Logical, o)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	edges, src := fakes(c)
	// Logical pin 7 is PH9, at the position of GPIO4.
	src.add(4)
	if err := c.ISR(7, gpio.RisingEdge, func() {}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]edgeCall{{4, gpio.RisingEdge}}, edges.calls); diff != "" {
		t.Fatalf("edges (-want +got):\n%s", diff)
	}
	// Logical pin 8 is at the position of GPIO2 which has no edge detection.
	if err := c.ISR(8, gpio.RisingEdge, func() {}); err == nil {
		t.Fatal("expected error")
	}
	if e.count() != 0 {
		t.Fatalf("exits = %d", e.count())
	}
}
