// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wiring

import (
	"github.com/sirupsen/logrus"

	"periph.io/x/wiring/chardev"
	"periph.io/x/wiring/node"
)

// AnalogRead reads an analog value from an extension pin. On-board pins
// return 0.
func (c *Context) AnalogRead(pin int) int {
	if n := c.findNode(pin); n != nil {
		return n.AnalogRead(pin)
	}
	return 0
}

// AnalogWrite writes an analog value to an extension pin. On-board pins are
// ignored.
func (c *Context) AnalogWrite(pin, v int) error {
	if n := c.findNode(pin); n != nil {
		return c.hwFail(n.AnalogWrite(pin, v))
	}
	return nil
}

// RegisterNode reserves pins [base, base+count) for dev. A nil dev
// registers pins that do nothing.
//
// An invalid or overlapping range exits the process regardless of
// ReturnCodes.
func (c *Context) RegisterNode(base, count int, dev node.Device) (*node.Node, error) {
	n, err := c.nodes.Register(base, count, dev)
	if err != nil {
		return nil, c.hwFail(err)
	}
	c.log.WithFields(logrus.Fields{"base": base, "count": count}).Debug("wiring: node registered")
	return n, nil
}

// Nodes returns the registered extension nodes.
func (c *Context) Nodes() []*node.Node {
	return c.nodes.Nodes()
}

// RegisterChip opens a GPIO character device, e.g. "/dev/gpiochip0", and
// registers its lines as pins [base, base+lines). The chip is closed with
// the Context.
func (c *Context) RegisterChip(base int, path string) (*node.Node, error) {
	d, err := chardev.Open(path, c.log)
	if err != nil {
		return nil, c.fail(fatal, err)
	}
	n, err := c.RegisterNode(base, d.Lines(), d)
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	c.mu.Lock()
	c.closers = append(c.closers, d)
	c.mu.Unlock()
	return n, nil
}
