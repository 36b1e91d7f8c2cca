// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package isr dispatches GPIO edge interrupts to callbacks.
//
// Each armed pin gets one goroutine that blocks on the pin notifier and calls
// the pin callback once per edge. The callback runs on that goroutine, so a
// slow callback delays the next edge but never loses it: the kernel latches
// one pending notification.
package isr

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"

	"periph.io/x/wiring/sysfs"
)

// ErrNotArmed is returned when waiting on a pin that has no open notifier.
var ErrNotArmed = errors.New("isr: pin is not set up for interrupts")

// EdgeSetter configures the edge a pin reports.
type EdgeSetter interface {
	SetEdge(n int, e gpio.Edge) error
}

// Notifier reports the edges of one pin.
type Notifier interface {
	// Drain discards a pending notification.
	Drain() error
	// Wait blocks until an edge or until timeout expires. A negative timeout
	// waits forever.
	Wait(timeout time.Duration) (bool, error)
	Close() error
}

// Source opens the Notifier of a pin.
type Source interface {
	Open(n int) (Notifier, error)
}

// SysfsSource opens value files under a GPIO sysfs root.
type SysfsSource struct {
	Root string
}

// Open implements Source.
func (s SysfsSource) Open(n int) (Notifier, error) {
	root := s.Root
	if root == "" {
		root = sysfs.Root
	}
	p, err := sysfs.Open(root, n)
	if err != nil {
		return nil, err
	}
	return p, nil
}

type line struct {
	n       Notifier
	fn      atomic.Pointer[func()]
	running bool // protected by Dispatcher.mu
	closed  atomic.Bool
}

// Dispatcher owns the notifiers and workers of the armed pins.
type Dispatcher struct {
	Edges  EdgeSetter
	Source Source
	Log    logrus.FieldLogger

	mu    sync.Mutex
	lines map[int]*line

	// handoff serializes worker creation; slot carries the pin number to the
	// new worker.
	handoff sync.Mutex
	slot    int
}

// NewDispatcher returns a Dispatcher that sets edges with edges and opens
// notifiers from src.
func NewDispatcher(edges EdgeSetter, src Source, log logrus.FieldLogger) *Dispatcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatcher{Edges: edges, Source: src, Log: log, lines: map[int]*line{}}
}

// Attach registers an already open notifier for pin n, so Wait works without
// Arm.
func (d *Dispatcher) Attach(n int, notifier Notifier) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lines == nil {
		d.lines = map[int]*line{}
	}
	if _, ok := d.lines[n]; !ok {
		d.lines[n] = &line{n: notifier}
	}
}

// Arm calls fn on every edge e of native pin n.
//
// gpio.NoEdge keeps the edge already configured outside this process. Arming
// an armed pin replaces its callback.
func (d *Dispatcher) Arm(n int, e gpio.Edge, fn func()) error {
	if fn == nil {
		return errors.New("isr: nil callback")
	}
	l, err := d.listen(n, e)
	if err != nil {
		return err
	}
	l.fn.Store(&fn)

	d.mu.Lock()
	start := !l.running
	l.running = true
	d.mu.Unlock()
	if !start {
		d.Log.Debugf("isr: GPIO%d callback replaced", n)
		return nil
	}

	d.handoff.Lock()
	defer d.handoff.Unlock()
	d.slot = n
	taken := make(chan struct{})
	go d.worker(taken)
	<-taken
	return nil
}

// Listen configures edge e on native pin n and opens its notifier without a
// callback, for use with Wait.
func (d *Dispatcher) Listen(n int, e gpio.Edge) error {
	_, err := d.listen(n, e)
	return err
}

func (d *Dispatcher) listen(n int, e gpio.Edge) (*line, error) {
	if e != gpio.NoEdge {
		if d.Edges == nil {
			return nil, errors.New("isr: no edge setter")
		}
		if err := d.Edges.SetEdge(n, e); err != nil {
			return nil, errors.Wrapf(err, "isr: GPIO%d", n)
		}
	}
	l, err := d.open(n)
	if err != nil {
		return nil, err
	}
	if err := l.n.Drain(); err != nil {
		return nil, errors.Wrapf(err, "isr: GPIO%d", n)
	}
	return l, nil
}

// Wait waits for an edge on native pin n.
func (d *Dispatcher) Wait(n int, timeout time.Duration) (bool, error) {
	d.mu.Lock()
	l := d.lines[n]
	d.mu.Unlock()
	if l == nil {
		return false, errors.Wrapf(ErrNotArmed, "GPIO%d", n)
	}
	return l.n.Wait(timeout)
}

// Close stops the workers and closes the notifiers.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	lines := d.lines
	d.lines = map[int]*line{}
	d.mu.Unlock()
	var err error
	for n, l := range lines {
		l.closed.Store(true)
		if e := l.n.Close(); e != nil && err == nil {
			err = errors.Wrapf(e, "isr: GPIO%d", n)
		}
	}
	return err
}

func (d *Dispatcher) open(n int) (*line, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lines == nil {
		d.lines = map[int]*line{}
	}
	if l, ok := d.lines[n]; ok {
		return l, nil
	}
	if d.Source == nil {
		return nil, errors.New("isr: no notifier source")
	}
	notifier, err := d.Source.Open(n)
	if err != nil {
		return nil, errors.Wrapf(err, "isr: GPIO%d", n)
	}
	l := &line{n: notifier}
	d.lines[n] = l
	return l, nil
}

// worker runs the callback of one pin until its notifier is closed or fails.
func (d *Dispatcher) worker(taken chan<- struct{}) {
	n := d.slot
	close(taken)
	d.mu.Lock()
	l := d.lines[n]
	d.mu.Unlock()
	if l == nil {
		return
	}
	defer func() {
		d.mu.Lock()
		l.running = false
		d.mu.Unlock()
	}()
	for {
		ok, err := l.n.Wait(-1)
		if l.closed.Load() {
			return
		}
		if err != nil {
			d.Log.WithField("pin", n).WithError(err).Warn("isr: wait failed, worker stopped")
			return
		}
		if ok {
			(*l.fn.Load())()
		}
	}
}
