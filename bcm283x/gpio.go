// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"

	"periph.io/x/wiring/mode"
)

// Func is the 3 bits function select code of a pin.
type Func uint32

// Function select codes. The alternate functions are not numbered in order.
const (
	In   Func = 0
	Out  Func = 1
	Alt0 Func = 4
	Alt1 Func = 5
	Alt2 Func = 6
	Alt3 Func = 7
	Alt4 Func = 3
	Alt5 Func = 2
)

var funcNames = [8]string{"IN", "OUT", "ALT5", "ALT4", "ALT0", "ALT1", "ALT2", "ALT3"}

func (f Func) String() string {
	return funcNames[f&7]
}

// Word offsets in the GPIO window.
const (
	gpioSet    = 7  // GPSET0, GPSET1
	gpioClr    = 10 // GPCLR0, GPCLR1
	gpioLev    = 13 // GPLEV0, GPLEV1
	gpioPud    = 37 // GPPUD
	gpioPudClk = 38 // GPPUDCLK0, GPPUDCLK1
)

// Delay after changing a pin function before the new function is reliable.
const settleFunc = 110 * time.Microsecond

// Pins with an ALT0 I2C and SPI function.
var (
	i2cPins = map[int]bool{0: true, 1: true, 2: true, 3: true}
	spiPins = map[int]bool{7: true, 8: true, 9: true, 10: true, 11: true}
)

// SetFunc writes the function select field of native pin n.
func (c *Controller) SetFunc(n int, f Func) {
	off, shift := n/10, uint(n%10)*3
	v := c.gpio.ReadWord(off)
	c.gpio.WriteWord(off, (v&^(7<<shift))|(uint32(f&7)<<shift))
}

// Func returns the function select field of native pin n.
func (c *Controller) Func(n int) Func {
	off, shift := n/10, uint(n%10)*3
	return Func((c.gpio.ReadWord(off) >> shift) & 7)
}

// SetMode switches native pin n to mode m.
//
// Hardware PWM and clock modes also bring the shared PWM or the pin clock
// into a usable default state: range 1024 at 600kHz for PWM and 100kHz for a
// clock output.
func (c *Controller) SetMode(n int, m mode.Mode) error {
	log := c.log.WithField("pin", n)
	switch m {
	case mode.Input:
		c.SetFunc(n, In)
	case mode.Output, mode.SoftPWMOutput, mode.SoftToneOutput:
		c.SetFunc(n, Out)
	case mode.PWMOutput, mode.PWMToneOutput:
		alt := pwmAlt[n&63]
		if alt < 0 {
			return errors.Wrapf(ErrNoPWM, "GPIO%d", n)
		}
		c.SetFunc(n, Func(alt))
		c.Sleep(settleFunc)
		log.Debugf("bcm283x: PWM on %s", Func(alt))
		c.SetPWMMode(mode.Balanced)
		c.SetPWMRange(1024)
		if err := c.SetPWMClock(32); err != nil {
			return err
		}
		if m == mode.PWMToneOutput {
			c.SetPWMMode(mode.MarkSpace)
		}
	case mode.GPIOClock:
		alt := clkAlt[n&63]
		if alt < 0 {
			return errors.Wrapf(ErrNoClock, "GPIO%d", n)
		}
		c.SetFunc(n, Func(alt))
		c.Sleep(settleFunc)
		log.Debugf("bcm283x: clock on %s", Func(alt))
		return c.SetClockFrequency(n, 100000)
	case mode.I2C:
		if !i2cPins[n] {
			return errors.Errorf("bcm283x: GPIO%d has no I2C function", n)
		}
		c.SetFunc(n, Alt0)
	case mode.SPI:
		if !spiPins[n] {
			return errors.Errorf("bcm283x: GPIO%d has no SPI function", n)
		}
		c.SetFunc(n, Alt0)
	default:
		return errors.Errorf("bcm283x: unsupported mode %s", m)
	}
	return nil
}

// SetPull sets the pull resistor of native pin n.
//
// The handshake order is mandated by the datasheet: set the control
// register, clock the pin, then remove both.
func (c *Controller) SetPull(n int, p gpio.Pull) error {
	var code uint32
	switch p {
	case gpio.PullNoChange:
		return nil
	case gpio.Float:
		code = 0
	case gpio.PullDown:
		code = 1
	case gpio.PullUp:
		code = 2
	default:
		return errors.Errorf("bcm283x: invalid pull %s", p)
	}
	clk := gpioPudClk + n/32
	c.gpio.WriteWord(gpioPud, code&3)
	c.Sleep(5 * time.Microsecond)
	c.gpio.WriteWord(clk, 1<<uint(n&31))
	c.Sleep(5 * time.Microsecond)
	c.gpio.WriteWord(gpioPud, 0)
	c.Sleep(5 * time.Microsecond)
	c.gpio.WriteWord(clk, 0)
	c.Sleep(5 * time.Microsecond)
	return nil
}

// Read returns the level of native pin n.
func (c *Controller) Read(n int) gpio.Level {
	return gpio.Level((c.gpio.ReadWord(gpioLev+n/32)>>uint(n&31))&1 != 0)
}

// Write sets the level of native pin n.
func (c *Controller) Write(n int, l gpio.Level) {
	if l {
		c.gpio.WriteWord(gpioSet+n/32, 1<<uint(n&31))
	} else {
		c.gpio.WriteWord(gpioClr+n/32, 1<<uint(n&31))
	}
}

// WriteBank0 clears then sets pins of GPIO 0 to 31 in two writes.
func (c *Controller) WriteBank0(set, clr uint32) {
	c.gpio.WriteWord(gpioClr, clr)
	c.gpio.WriteWord(gpioSet, set)
}

// SetPadDrive sets the drive strength of a pad group.
//
// group 0 is GPIO 0-27, 1 is GPIO 28-45 and 2 is GPIO 46-53. value selects
// 2mA to 16mA in 2mA steps; hysteresis and slew rate limiting stay enabled.
func (c *Controller) SetPadDrive(group, value int) error {
	if group < 0 || group > 2 {
		return errors.Errorf("bcm283x: invalid pad group %d", group)
	}
	c.pads.WriteWord(11+group, password|0x18|uint32(value&7))
	c.log.Debugf("bcm283x: pad group %d drive %d", group, value&7)
	return nil
}

// SetAlt writes the raw 3 bits function select code of native pin n.
func (c *Controller) SetAlt(n, f int) error {
	if n < 0 || n > 53 {
		return errors.Errorf("bcm283x: invalid pin %d", n)
	}
	c.SetFunc(n, Func(f&7))
	return nil
}

// Alt returns the raw function select code of native pin n.
func (c *Controller) Alt(n int) (int, error) {
	if n < 0 || n > 53 {
		return 0, errors.Errorf("bcm283x: invalid pin %d", n)
	}
	return int(c.Func(n)), nil
}
