// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wiring

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"

	"periph.io/x/wiring/mode"
	"periph.io/x/wiring/softpwm"
)

// toneClock is the PWM clock rate after PinMode(PWMToneOutput), in Hz.
const toneClock = 600000

// PwmWrite sets the duty of pin: v high steps out of the PWM range.
func (c *Context) PwmWrite(pin, v int) error {
	if !onBoard(pin) {
		if n := c.findNode(pin); n != nil {
			return c.hwFail(n.PWMWrite(pin, v))
		}
		return nil
	}
	native, ok := c.resolve(pin)
	if !ok || c.soc == nil {
		return nil
	}
	return c.hwFail(c.soc.PWMWrite(native, v))
}

// PwmToneWrite outputs a square wave of hz on a pin in PWMToneOutput mode.
// 0 stops it.
func (c *Context) PwmToneWrite(pin, hz int) error {
	if hz <= 0 {
		return c.PwmWrite(pin, 0)
	}
	r := toneClock / hz
	if r <= 0 {
		return c.fail(fatal, errors.Errorf("wiring: tone frequency %dHz too high", hz))
	}
	c.PwmSetRange(uint32(r))
	return c.PwmWrite(pin, r/2)
}

// PwmSetMode selects the algorithm of the hardware PWM.
func (c *Context) PwmSetMode(m mode.PWM) {
	if c.soc != nil {
		c.soc.SetPWMMode(m)
	}
}

// PwmSetRange sets the number of steps of a PWM period.
func (c *Context) PwmSetRange(r uint32) {
	if c.soc != nil {
		c.soc.SetPWMRange(r)
	}
}

// PwmSetClock sets the PWM clock: the divisor of the 19.2MHz oscillator on
// Broadcom SoCs, the prescaler code on Allwinner SoCs.
func (c *Context) PwmSetClock(v int) error {
	if c.soc == nil {
		return nil
	}
	return c.hwFail(c.soc.SetPWMClock(v))
}

// GpioClockSet sets the frequency of the general purpose clock of pin.
func (c *Context) GpioClockSet(pin, hz int) error {
	if !onBoard(pin) {
		return nil
	}
	native, ok := c.resolve(pin)
	if !ok || c.soc == nil {
		return nil
	}
	return c.hwFail(c.soc.SetClockFrequency(native, hz))
}

// SoftPwmWrite sets the value, 0 to 100, of a pin in SoftPWMOutput mode.
func (c *Context) SoftPwmWrite(pin, v int) {
	if p, ok := c.softDriver(pin).(*softpwm.PWM); ok {
		p.Write(v)
	}
}

// SoftToneWrite sets the frequency of a pin in SoftToneOutput mode. 0 is
// silence.
func (c *Context) SoftToneWrite(pin, hz int) {
	if t, ok := c.softDriver(pin).(*softpwm.Tone); ok {
		t.Write(hz)
	}
}

func (c *Context) softDriver(pin int) stopper {
	if !onBoard(pin) {
		return nil
	}
	native, ok := c.resolve(pin)
	if !ok {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.soft[native]
}

// softWriter returns the function the software drivers toggle native with.
func (c *Context) softWriter(native int) softpwm.Writer {
	return func(l gpio.Level) {
		c.soc.Write(native, l)
	}
}

func (c *Context) bindSoft(native int, s stopper) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.soft[native] = s
}

// stopSoft stops the software driver of native, if any.
func (c *Context) stopSoft(native int) {
	c.mu.Lock()
	s := c.soft[native]
	delete(c.soft, native)
	c.mu.Unlock()
	if s != nil {
		s.Stop()
		c.log.WithField("pin", native).Debug("wiring: software driver stopped")
	}
}
