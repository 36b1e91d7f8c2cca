// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wiring

import (
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"

	"periph.io/x/wiring/bcm283x"
	"periph.io/x/wiring/board"
	"periph.io/x/wiring/isr"
	"periph.io/x/wiring/mode"
	"periph.io/x/wiring/node"
	"periph.io/x/wiring/pinmap"
	"periph.io/x/wiring/regmem"
	"periph.io/x/wiring/sunxi"
	"periph.io/x/wiring/sysfs"
)

// soc is the register model of a SoC family.
type soc interface {
	SetMode(n int, m mode.Mode) error
	SetPull(n int, p gpio.Pull) error
	Read(n int) gpio.Level
	Write(n int, l gpio.Level)
	SetAlt(n, f int) error
	Alt(n int) (int, error)
	SetPWMMode(m mode.PWM)
	SetPWMRange(r uint32)
	PWMRange() uint32
	SetPWMClock(v int) error
	SetPWMFrequency(hz int64, r uint32) error
	PWMWrite(n, v int) error
	SetClockFrequency(n, hz int) error
	SetPadDrive(group, value int) error
}

// stopper is a software PWM or tone driver.
type stopper interface {
	Stop()
}

// Context is the state of one setup: the board, its numbering scheme, the
// mapped registers and the extension nodes.
type Context struct {
	model  board.Model
	pins   *pinmap.Set
	scheme pinmap.Scheme
	soc    soc                // nil with the SysFs scheme
	regs   *regmem.Set        // nil with the SysFs scheme
	sys    map[int]*sysfs.Pin // value files of the SysFs scheme
	nodes  node.Registry
	isr    *isr.Dispatcher
	log    *logrus.Logger
	opts   Options
	start  time.Time

	mu      sync.Mutex
	soft    map[int]stopper
	closers []io.Closer
}

// New returns a Context over already mapped registers.
//
// regs must hold the windows of the register model of model.Family. It may
// be nil with the SysFs scheme.
func New(model *board.Model, regs *regmem.Set, scheme pinmap.Scheme, opts *Options) (*Context, error) {
	o, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, errors.New("wiring: nil board model")
	}
	pins, err := pinmap.For(model.Family, model.Revision)
	if err != nil {
		return nil, err
	}
	if pins.Table(scheme) == nil {
		return nil, errors.Errorf("wiring: invalid pin numbering scheme %d", scheme)
	}
	c := &Context{
		model:  *model,
		pins:   pins,
		scheme: scheme,
		regs:   regs,
		log:    o.Logger,
		opts:   *o,
		start:  time.Now(),
		soft:   map[int]stopper{},
	}
	c.isr = isr.NewDispatcher(o.Edges, o.Notifiers, c.log)
	if scheme == pinmap.SysFs {
		return c, nil
	}
	if regs == nil {
		return nil, errors.New("wiring: registers are not mapped")
	}
	switch model.Family {
	case board.BCM2708, board.BCM2709:
		c.soc, err = bcm283x.New(regs, c.log)
	case board.Sun6i:
		gpioBase, lmBase := sunxi.BaseAddresses(o.DriverDir)
		c.soc, err = sunxi.New(regs, gpioBase, lmBase, c.log)
	default:
		err = errors.Errorf("wiring: unsupported family %s", model.Family)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Board returns the detected board.
func (c *Context) Board() board.Model {
	return c.model
}

// Scheme returns the pin numbering scheme.
func (c *Context) Scheme() pinmap.Scheme {
	return c.scheme
}

// Tables returns the pin tables of the board.
func (c *Context) Tables() *pinmap.Set {
	return c.pins
}

// Logger returns the logger of the Context.
func (c *Context) Logger() logrus.FieldLogger {
	return c.log
}

// Close stops the software drivers and the interrupt workers, then releases
// the GPIO chips, the files and the register mappings.
//
// The Context must not be used afterward.
func (c *Context) Close() error {
	c.mu.Lock()
	soft := c.soft
	closers := c.closers
	c.soft = map[int]stopper{}
	c.closers = nil
	c.mu.Unlock()
	for _, s := range soft {
		s.Stop()
	}
	err := c.isr.Close()
	for _, cl := range closers {
		err = multierr.Append(err, cl.Close())
	}
	for _, p := range c.sys {
		err = multierr.Append(err, p.Close())
	}
	if c.regs != nil {
		err = multierr.Append(err, c.regs.Close())
	}
	return err
}

// resolve returns the native pin of pin under the scheme of the Context.
//
// Unmapped pins are logged and reported as false; callers ignore them.
func (c *Context) resolve(pin int) (int, bool) {
	n, ok := c.pins.Resolve(c.scheme, pin)
	if !ok {
		c.log.WithField("pin", pin).Debugf("wiring: pin is not mapped under %s numbering", c.scheme)
	}
	return n, ok
}

// onBoard reports whether pin is handled by the SoC rather than a node.
func onBoard(pin int) bool {
	return pin&^63 == 0
}

// findNode returns the node of an extension pin or nil.
func (c *Context) findNode(pin int) *node.Node {
	n := c.nodes.Find(pin)
	if n == nil {
		c.log.WithField("pin", pin).Debug("wiring: no node owns the pin")
	}
	return n
}

// kernel returns the kernel GPIO number of a native pin.
func (c *Context) kernel(native int) (int, bool) {
	if c.scheme == pinmap.SysFs {
		return native, true
	}
	return c.pins.Kernel(native)
}
