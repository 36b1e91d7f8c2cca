// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package node implements the registry of extension pin ranges.
//
// Pins 0 to 63 are on-board. Numbers from 64 up are assigned to extension
// devices (I/O expanders, ADCs, kernel GPIO chips) by registering a node that
// owns a contiguous range.
package node

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"

	"periph.io/x/wiring/mode"
)

// FirstPin is the lowest pin number a node may own.
const FirstPin = 64

var (
	// ErrReservedBase is returned when a node would own on-board pins.
	ErrReservedBase = errors.New("node: base is reserved for on-board pins")
	// ErrOverlap is returned when a node range intersects a registered node.
	ErrOverlap = errors.New("node: pin range overlaps a registered node")
	// ErrEmpty is returned for a node without pins.
	ErrEmpty = errors.New("node: pin count must be positive")
)

// Device implements the pins of a node. pin is relative to the node base.
type Device interface {
	SetMode(pin int, m mode.Mode) error
	SetPull(pin int, p gpio.Pull) error
	DigitalRead(pin int) gpio.Level
	DigitalWrite(pin int, l gpio.Level) error
	PWMWrite(pin, v int) error
	AnalogRead(pin int) int
	AnalogWrite(pin, v int) error
}

// Nop is a Device that does nothing. Embed it to implement a subset of
// Device.
type Nop struct{}

// SetMode implements Device.
func (Nop) SetMode(pin int, m mode.Mode) error { return nil }

// SetPull implements Device.
func (Nop) SetPull(pin int, p gpio.Pull) error { return nil }

// DigitalRead implements Device.
func (Nop) DigitalRead(pin int) gpio.Level { return gpio.Low }

// DigitalWrite implements Device.
func (Nop) DigitalWrite(pin int, l gpio.Level) error { return nil }

// PWMWrite implements Device.
func (Nop) PWMWrite(pin, v int) error { return nil }

// AnalogRead implements Device.
func (Nop) AnalogRead(pin int) int { return 0 }

// AnalogWrite implements Device.
func (Nop) AnalogWrite(pin, v int) error { return nil }

// Node is a registered pin range.
type Node struct {
	base  int
	count int
	dev   Device

	mu    sync.Mutex
	modes map[int]mode.Mode
}

func (n *Node) String() string {
	return fmt.Sprintf("node[%d:%d]", n.base, n.base+n.count)
}

// Base returns the first pin of the node.
func (n *Node) Base() int { return n.base }

// Count returns the number of pins of the node.
func (n *Node) Count() int { return n.count }

// Device returns the device implementing the node.
func (n *Node) Device() Device { return n.dev }

// Contains reports whether pin belongs to the node.
func (n *Node) Contains(pin int) bool {
	return pin >= n.base && pin < n.base+n.count
}

// Mode returns the last mode set on pin.
func (n *Node) Mode(pin int) mode.Mode {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.modes[pin]
}

// SetMode forwards to the device and records the mode.
func (n *Node) SetMode(pin int, m mode.Mode) error {
	if err := n.dev.SetMode(pin-n.base, m); err != nil {
		return errors.Wrapf(err, "node %s: pin %d", n, pin)
	}
	n.mu.Lock()
	n.modes[pin] = m
	n.mu.Unlock()
	return nil
}

// SetPull forwards to the device.
func (n *Node) SetPull(pin int, p gpio.Pull) error {
	return n.dev.SetPull(pin-n.base, p)
}

// DigitalRead forwards to the device.
func (n *Node) DigitalRead(pin int) gpio.Level {
	return n.dev.DigitalRead(pin - n.base)
}

// DigitalWrite forwards to the device.
func (n *Node) DigitalWrite(pin int, l gpio.Level) error {
	return n.dev.DigitalWrite(pin-n.base, l)
}

// PWMWrite forwards to the device.
func (n *Node) PWMWrite(pin, v int) error {
	return n.dev.PWMWrite(pin-n.base, v)
}

// AnalogRead forwards to the device.
func (n *Node) AnalogRead(pin int) int {
	return n.dev.AnalogRead(pin - n.base)
}

// AnalogWrite forwards to the device.
func (n *Node) AnalogWrite(pin, v int) error {
	return n.dev.AnalogWrite(pin-n.base, v)
}

// Registry holds the registered nodes.
//
// The zero value is ready to use.
type Registry struct {
	mu    sync.Mutex
	nodes []*Node
}

// Register creates a node owning pins [base, base+count).
//
// A nil dev registers a node whose pins do nothing.
func (r *Registry) Register(base, count int, dev Device) (*Node, error) {
	if base < FirstPin {
		return nil, errors.Wrapf(ErrReservedBase, "base %d", base)
	}
	if count <= 0 {
		return nil, errors.Wrapf(ErrEmpty, "count %d", count)
	}
	if dev == nil {
		dev = Nop{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	end := base + count
	for _, n := range r.nodes {
		if base < n.base+n.count && n.base < end {
			return nil, errors.Wrapf(ErrOverlap, "[%d:%d] and %s", base, end, n)
		}
	}
	n := &Node{base: base, count: count, dev: dev, modes: map[int]mode.Mode{}}
	r.nodes = append(r.nodes, n)
	return n, nil
}

// Find returns the node owning pin or nil.
func (r *Registry) Find(pin int) *Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.nodes {
		if n.Contains(pin) {
			return n
		}
	}
	return nil
}

// Nodes returns the registered nodes in registration order.
func (r *Registry) Nodes() []*Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Node(nil), r.nodes...)
}

var _ Device = Nop{}
