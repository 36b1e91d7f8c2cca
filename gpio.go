// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wiring

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"

	"periph.io/x/wiring/mode"
	"periph.io/x/wiring/pinmap"
	"periph.io/x/wiring/softpwm"
)

// PinMode sets the mode of pin.
//
// A software PWM or tone running on the pin is stopped first. Unmapped pins
// are ignored.
func (c *Context) PinMode(pin int, m mode.Mode) error {
	if !onBoard(pin) {
		if n := c.findNode(pin); n != nil {
			return c.hwFail(n.SetMode(pin, m))
		}
		return nil
	}
	native, ok := c.resolve(pin)
	if !ok {
		return nil
	}
	return c.pinMode(native, m)
}

func (c *Context) pinMode(native int, m mode.Mode) error {
	c.stopSoft(native)
	if c.soc == nil {
		c.log.WithField("pin", native).Debugf("wiring: mode %s ignored with sysfs numbering", m)
		return nil
	}
	if err := c.soc.SetMode(native, m); err != nil {
		return c.hwFail(err)
	}
	switch m {
	case mode.SoftPWMOutput:
		p, err := softpwm.NewPWM(c.softWriter(native), 0, 100, 0)
		if err != nil {
			return c.fail(fatal, err)
		}
		c.bindSoft(native, p)
	case mode.SoftToneOutput:
		c.bindSoft(native, softpwm.NewTone(c.softWriter(native)))
	}
	return nil
}

// PinModeAlt writes the raw function select code of an on-board pin.
func (c *Context) PinModeAlt(pin, alt int) error {
	if !onBoard(pin) {
		return nil
	}
	native, ok := c.resolve(pin)
	if !ok || c.soc == nil {
		return nil
	}
	c.stopSoft(native)
	return c.hwFail(c.soc.SetAlt(native, alt))
}

// GetAlt returns the raw function select code of an on-board pin. Extension
// and unmapped pins return 0.
func (c *Context) GetAlt(pin int) int {
	if !onBoard(pin) {
		return 0
	}
	native, ok := c.resolve(pin)
	if !ok || c.soc == nil {
		return 0
	}
	f, err := c.soc.Alt(native)
	if err != nil {
		c.log.WithField("pin", pin).Debug(err)
		return 0
	}
	return f
}

// PullUpDnControl sets the pull resistor of pin.
func (c *Context) PullUpDnControl(pin int, p gpio.Pull) error {
	if !onBoard(pin) {
		if n := c.findNode(pin); n != nil {
			return c.hwFail(n.SetPull(pin, p))
		}
		return nil
	}
	native, ok := c.resolve(pin)
	if !ok {
		return nil
	}
	return c.pull(native, p)
}

func (c *Context) pull(native int, p gpio.Pull) error {
	if c.soc == nil {
		c.log.WithField("pin", native).Debug("wiring: pull ignored with sysfs numbering")
		return nil
	}
	return c.hwFail(c.soc.SetPull(native, p))
}

// DigitalRead returns the level of pin. Unmapped pins read Low.
func (c *Context) DigitalRead(pin int) gpio.Level {
	if !onBoard(pin) {
		if n := c.findNode(pin); n != nil {
			return n.DigitalRead(pin)
		}
		return gpio.Low
	}
	native, ok := c.resolve(pin)
	if !ok {
		return gpio.Low
	}
	return c.read(native)
}

func (c *Context) read(native int) gpio.Level {
	if c.soc == nil {
		if p := c.sys[native]; p != nil {
			return p.Read()
		}
		return gpio.Low
	}
	return c.soc.Read(native)
}

// DigitalWrite sets the level of pin. Unmapped pins are ignored.
func (c *Context) DigitalWrite(pin int, l gpio.Level) error {
	if !onBoard(pin) {
		if n := c.findNode(pin); n != nil {
			return c.hwFail(n.DigitalWrite(pin, l))
		}
		return nil
	}
	native, ok := c.resolve(pin)
	if !ok {
		return nil
	}
	return c.write(native, l)
}

func (c *Context) write(native int, l gpio.Level) error {
	if c.soc == nil {
		if p := c.sys[native]; p != nil {
			return c.hwFail(p.Out(l))
		}
		c.log.WithField("pin", native).Debug("wiring: GPIO is not exported")
		return nil
	}
	c.soc.Write(native, l)
	return nil
}

// bank0Writer is implemented by register models that can update several
// pins at once.
type bank0Writer interface {
	WriteBank0(set, clr uint32)
}

// DigitalWriteByte writes the 8 bits of v to logical pins 0 to 7, bit 0 to
// pin 0.
func (c *Context) DigitalWriteByte(v uint8) error {
	if c.soc == nil {
		var err error
		for i := 0; i < 8; i++ {
			if k, ok := c.pins.Kernel(c.pins.LogicalToNative(i)); ok {
				err = multierr.Append(err, c.write(k, gpio.Level(v&(1<<uint(i)) != 0)))
			}
		}
		return err
	}
	if b, ok := c.soc.(bank0Writer); ok {
		var set, clr uint32
		for i := 0; i < 8; i++ {
			n := c.pins.LogicalToNative(i)
			if n == pinmap.Unmapped {
				continue
			}
			if v&(1<<uint(i)) != 0 {
				set |= 1 << uint(n)
			} else {
				clr |= 1 << uint(n)
			}
		}
		b.WriteBank0(set, clr)
		return nil
	}
	for i := 0; i < 8; i++ {
		n := c.pins.LogicalToNative(i)
		if n == pinmap.Unmapped {
			continue
		}
		if err := c.soc.SetMode(n, mode.Output); err != nil {
			return c.hwFail(errors.Wrapf(err, "wiring: logical pin %d", i))
		}
		c.soc.Write(n, gpio.Level(v&(1<<uint(i)) != 0))
	}
	return nil
}

// SetPadDrive sets the drive strength of a group of pads: 0 for GPIO 0-27,
// 1 for GPIO 28-45 and 2 for GPIO 46-53. value selects 2mA to 16mA in 2mA
// steps.
func (c *Context) SetPadDrive(group, value int) error {
	if c.soc == nil {
		return nil
	}
	return c.hwFail(c.soc.SetPadDrive(group, value))
}

// WpiPinToGpio returns the native pin of a logical pin, or -1.
func (c *Context) WpiPinToGpio(pin int) int {
	return c.pins.LogicalToNative(pin)
}

// PhysPinToGpio returns the native pin at a connector position, or -1.
func (c *Context) PhysPinToGpio(pin int) int {
	return c.pins.PhysicalToNative(pin)
}
