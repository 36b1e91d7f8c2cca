// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package isr

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"periph.io/x/conn/v3/gpio"
)

var errClosed = errors.New("closed")

type fakeNotifier struct {
	events chan bool
	done   chan struct{}
	once   sync.Once

	mu     sync.Mutex
	drains int
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{events: make(chan bool), done: make(chan struct{})}
}

func (f *fakeNotifier) Drain() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drains++
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
	mu    sync.Mutex
	opens []int
	n     map[int]*fakeNotifier
}

func (s *fakeSource) Open(n int) (Notifier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opens = append(s.opens, n)
	f, ok := s.n[n]
	if !ok {
		return nil, errors.New("no such pin")
	}
	return f, nil
}

type fakeEdges struct {
	set []gpio.Edge
}

func (e *fakeEdges) SetEdge(n int, edge gpio.Edge) error {
	e.set = append(e.set, edge)
	return nil
}

func newDispatcher(t *testing.T, pins ...int) (*Dispatcher, *fakeSource, *fakeEdges) {
	src := &fakeSource{n: map[int]*fakeNotifier{}}
	for _, n := range pins {
		src.n[n] = newFakeNotifier()
	}
	edges := &fakeEdges{}
	log, _ := test.NewNullLogger()
	d := NewDispatcher(edges, src, log)
	t.Cleanup(func() { d.Close() })
	return d, src, edges
}

func expectCalls(t *testing.T, calls <-chan int, want int) {
	for i := 0; i < want; i++ {
		select {
		case <-calls:
		case <-time.After(5 * time.Second):
			t.Fatalf("callback %d never ran", i)
		}
	}
	select {
	case <-calls:
		t.Fatal("unexpected extra callback")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestArm_oncePerEdge(t *testing.T) {
	d, src, edges := newDispatcher(t, 17)
	calls := make(chan int, 10)
	if err := d.Arm(17, gpio.FallingEdge, func() { calls <- 1 }); err != nil {
		t.Fatal(err)
	}
	f := src.n[17]
	if f.drains != 1 {
		t.Fatalf("drains = %d", f.drains)
	}
	for i := 0; i < 3; i++ {
		f.events <- true
	}
	// Spurious wakeups do not call back.
	f.events <- false
	expectCalls(t, calls, 3)
	if diff := cmp.Diff([]gpio.Edge{gpio.FallingEdge}, edges.set); diff != "" {
		t.Fatalf("edges (-want +got):\n%s", diff)
	}
}

func TestArm_replace(t *testing.T) {
	d, src, edges := newDispatcher(t, 4)
	first := make(chan int, 10)
	second := make(chan int, 10)
	if err := d.Arm(4, gpio.RisingEdge, func() { first <- 1 }); err != nil {
		t.Fatal(err)
	}
	if err := d.Arm(4, gpio.NoEdge, func() { second <- 2 }); err != nil {
		t.Fatal(err)
	}
	src.n[4].events <- true
	expectCalls(t, second, 1)
	expectCalls(t, first, 0)
	if diff := cmp.Diff([]int{4}, src.opens); diff != "" {
		t.Fatalf("opens (-want +got):\n%s", diff)
	}
	if len(edges.set) != 1 {
		t.Fatalf("NoEdge must not set the edge: %v", edges.set)
	}
}

func TestArm_errors(t *testing.T) {
	d, _, _ := newDispatcher(t)
	if err := d.Arm(5, gpio.BothEdges, func() {}); err == nil {
		t.Fatal("expected open error")
	}
	if err := d.Arm(5, gpio.BothEdges, nil); err == nil {
		t.Fatal("expected nil callback error")
	}
	var bare Dispatcher
	if err := bare.Arm(5, gpio.BothEdges, func() {}); err == nil {
		t.Fatal("expected missing edge setter error")
	}
}

func TestWait(t *testing.T) {
	d, _, _ := newDispatcher(t)
	if _, err := d.Wait(9, 0); !errors.Is(err, ErrNotArmed) {
		t.Fatalf("Wait() = %v", err)
	}
	f := newFakeNotifier()
	d.Attach(9, f)
	go func() { f.events <- true }()
	if ok, err := d.Wait(9, -1); !ok || err != nil {
		t.Fatalf("Wait() = %t, %v", ok, err)
	}
	if ok, err := d.Wait(9, time.Millisecond); ok || err != nil {
		t.Fatalf("Wait() = %t, %v", ok, err)
	}
}

func TestClose_stopsWorker(t *testing.T) {
	src := &fakeSource{n: map[int]*fakeNotifier{3: newFakeNotifier()}}
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	d := NewDispatcher(&fakeEdges{}, src, log)
	if err := d.Arm(3, gpio.RisingEdge, func() {}); err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Wait(3, 0); !errors.Is(err, ErrNotArmed) {
		t.Fatalf("Wait() = %v", err)
	}
	// A closed notifier is not reported as a failure.
	time.Sleep(10 * time.Millisecond)
	for _, e := range hook.AllEntries() {
		if e.Level <= logrus.WarnLevel {
			t.Fatalf("unexpected log: %s", e.Message)
		}
	}
}

func TestHelperProgram(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a shell")
	}
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	script := filepath.Join(dir, "gpio")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho \"$@\" > "+out+"\n"), 0700); err != nil {
		t.Fatal(err)
	}
	h, err := ParseCommand("'" + script + "' -g")
	if err != nil {
		t.Fatal(err)
	}
	if err := h.SetEdge(17, gpio.FallingEdge); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(b)); got != "-g edge 17 falling" {
		t.Fatalf("args = %q", got)
	}
}

func TestHelperProgram_missing(t *testing.T) {
	old := HelperPaths
	defer func() { HelperPaths = old }()
	HelperPaths = []string{filepath.Join(t.TempDir(), "gpio")}
	h := &HelperProgram{}
	if err := h.SetEdge(1, gpio.RisingEdge); !errors.Is(err, ErrNoHelper) {
		t.Fatalf("SetEdge() = %v", err)
	}
	if _, err := ParseCommand("'unterminated"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSysfsEdge(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "gpio6")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"value", "edge", "direction"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("       \n"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "export"), nil, 0600); err != nil {
		t.Fatal(err)
	}
	if err := (SysfsEdge{Root: root}).SetEdge(6, gpio.BothEdges); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(filepath.Join(dir, "edge"))
	if !strings.HasPrefix(string(b), "both") {
		t.Fatalf("edge = %q", b)
	}
	if _, err := (SysfsSource{Root: root}).Open(6); err != nil {
		t.Fatal(err)
	}
}

func TestListen(t *testing.T) {
	d, src, edges := newDispatcher(t, 12)
	if err := d.Listen(12, gpio.RisingEdge); err != nil {
		t.Fatal(err)
	}
	f := src.n[12]
	go func() { f.events <- true }()
	if ok, err := d.Wait(12, 5*time.Second); !ok || err != nil {
		t.Fatalf("Wait() = %t, %v", ok, err)
	}
	if len(edges.set) != 1 || f.drains != 1 {
		t.Fatalf("edges %v drains %d", edges.set, f.drains)
	}
}
