// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wiring

import (
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"

	"periph.io/x/wiring/bcm283x"
	"periph.io/x/wiring/board"
	"periph.io/x/wiring/mode"
	"periph.io/x/wiring/pinmap"
	"periph.io/x/wiring/sunxi"
)

// pwmSteps is the PWM range used by Pin.PWM.
const pwmSteps = 1024

// Pin is an on-board GPIO of a Context, usable wherever periph expects a
// gpio.PinIO.
//
// Configuration calls must not race with the Context ones.
type Pin struct {
	c      *Context
	native int

	mu   sync.Mutex
	m    mode.Mode
	pull gpio.Pull
	edge gpio.Edge
}

// Pin returns the pin at native number n, or nil if n is not an on-board
// pin of the board.
func (c *Context) Pin(n int) *Pin {
	if !c.hasNative(n) {
		return nil
	}
	return &Pin{c: c, native: n, pull: gpio.PullNoChange}
}

// hasNative reports whether n appears in the pin tables.
func (c *Context) hasNative(n int) bool {
	if n == pinmap.Unmapped {
		return false
	}
	tables := []*pinmap.Table{c.pins.Logical, c.pins.Physical, c.pins.Native}
	if c.scheme == pinmap.SysFs {
		tables = []*pinmap.Table{c.pins.SysFs}
	}
	for _, t := range tables {
		for _, v := range t {
			if v == n {
				return true
			}
		}
	}
	return false
}

// String implements conn.Resource.
func (p *Pin) String() string {
	return p.Name()
}

// Halt implements conn.Resource.
//
// It stops a software driver and the edge detection.
func (p *Pin) Halt() error {
	p.c.stopSoft(p.native)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.edge = gpio.NoEdge
	return nil
}

// Name implements pin.Pin.
func (p *Pin) Name() string {
	if p.c.model.Family == board.Sun6i && p.c.soc != nil {
		return sunxi.Name(p.native)
	}
	return "GPIO" + strconv.Itoa(p.native)
}

// Number implements pin.Pin.
func (p *Pin) Number() int {
	return p.native
}

// Function implements pin.Pin.
func (p *Pin) Function() string {
	return string(p.Func())
}

// Func implements pin.PinFunc.
func (p *Pin) Func() pin.Func {
	if p.c.soc == nil {
		return pin.FuncNone
	}
	f, err := p.c.soc.Alt(p.native)
	if err != nil {
		return pin.FuncNone
	}
	switch f {
	case 0:
		if p.Read() {
			return gpio.IN_HIGH
		}
		return gpio.IN_LOW
	case 1:
		if p.Read() {
			return gpio.OUT_HIGH
		}
		return gpio.OUT_LOW
	}
	if p.c.model.Family.IsBroadcom() {
		return pin.Func(bcm283x.Func(f).String())
	}
	return pin.Func("F" + strconv.Itoa(f))
}

// SupportedFuncs implements pin.PinFunc.
func (p *Pin) SupportedFuncs() []pin.Func {
	f := []pin.Func{gpio.IN, gpio.OUT}
	if p.hasPWM() {
		f = append(f, gpio.PWM)
	}
	return f
}

// SetFunc implements pin.PinFunc.
func (p *Pin) SetFunc(f pin.Func) error {
	switch f {
	case gpio.IN:
		return p.In(gpio.PullNoChange, gpio.NoEdge)
	case gpio.OUT_HIGH:
		return p.Out(gpio.High)
	case gpio.OUT, gpio.OUT_LOW:
		return p.Out(gpio.Low)
	case gpio.PWM:
		return p.setMode(mode.PWMOutput)
	default:
		return p.wrap(errors.Errorf("unsupported function %s", f))
	}
}

// In implements gpio.PinIn.
func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	if err := p.setMode(mode.Input); err != nil {
		return err
	}
	if pull != gpio.PullNoChange {
		if err := p.c.pull(p.native, pull); err != nil {
			return p.wrap(err)
		}
		p.mu.Lock()
		p.pull = pull
		p.mu.Unlock()
	}
	if edge == gpio.NoEdge {
		return nil
	}
	k, ok := p.c.kernel(p.native)
	if !ok || !p.c.pins.SupportsEdge(k) {
		return p.wrap(errors.New("edge detection is not supported"))
	}
	if err := p.c.isr.Listen(k, edge); err != nil {
		return p.wrap(err)
	}
	p.mu.Lock()
	p.edge = edge
	p.mu.Unlock()
	return nil
}

// Read implements gpio.PinIn.
func (p *Pin) Read() gpio.Level {
	return p.c.read(p.native)
}

// WaitForEdge implements gpio.PinIn.
func (p *Pin) WaitForEdge(timeout time.Duration) bool {
	p.mu.Lock()
	edge := p.edge
	p.mu.Unlock()
	if edge == gpio.NoEdge {
		return false
	}
	k, ok := p.c.kernel(p.native)
	if !ok {
		return false
	}
	if timeout < 0 {
		timeout = -1
	}
	ok, err := p.c.isr.Wait(k, timeout)
	return ok && err == nil
}

// Pull implements gpio.PinIn.
//
// The pull registers are write only so it returns the last pull set through
// this Pin.
func (p *Pin) Pull() gpio.Pull {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pull
}

// DefaultPull implements gpio.PinIn.
func (p *Pin) DefaultPull() gpio.Pull {
	return gpio.PullNoChange
}

// Out implements gpio.PinOut.
func (p *Pin) Out(l gpio.Level) error {
	if err := p.setMode(mode.Output); err != nil {
		return err
	}
	if err := p.c.write(p.native, l); err != nil {
		return p.wrap(err)
	}
	return nil
}

// PWM implements gpio.PinOut.
//
// It uses the hardware PWM, which is shared by all the pins of a channel;
// the frequency applies to every PWM pin.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	if !p.hasPWM() {
		return p.wrap(errors.New("hardware PWM is not supported"))
	}
	if err := p.setMode(mode.PWMOutput); err != nil {
		return err
	}
	if f != 0 {
		hz := int64(f / physic.Hertz)
		if err := p.c.soc.SetPWMFrequency(hz, pwmSteps); err != nil {
			return p.wrap(err)
		}
	}
	r := int64(p.c.soc.PWMRange())
	if err := p.c.soc.PWMWrite(p.native, int(int64(duty)*r/int64(gpio.DutyMax))); err != nil {
		return p.wrap(err)
	}
	return nil
}

func (p *Pin) hasPWM() bool {
	if p.c.soc == nil {
		return false
	}
	if p.c.model.Family.IsBroadcom() {
		return bcm283x.HasPWM(p.native)
	}
	return sunxi.HasPWM(p.native)
}

// setMode switches the pin to m unless it already is.
func (p *Pin) setMode(m mode.Mode) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == m {
		return nil
	}
	if err := p.c.pinMode(p.native, m); err != nil {
		return p.wrap(err)
	}
	p.m = m
	return nil
}

func (p *Pin) wrap(err error) error {
	return errors.Wrapf(err, "wiring (%s)", p)
}

var _ conn.Resource = &Pin{}
var _ gpio.PinIO = &Pin{}
var _ pin.PinFunc = &Pin{}
