// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sunxi

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"

	"periph.io/x/wiring/mode"
)

// Function codes of the port configuration registers.
const (
	FuncIn     = 0
	FuncOut    = 1
	FuncSerial = 2 // I2C and SPI on the header pins
	FuncPWM    = 4
)

// settleFunc is the delay after a function change.
const settleFunc = 200 * time.Microsecond

const banks = "ABCDEFGHLM"

// valid is the bitmask of the pins routed on the Banana Pi M2, per bank.
var valid = [len(banks)]uint32{
	1: 0x000000FF, // PB0-7
	4: 0x000000F0, // PE4-7
	6: 0x0001FFC0, // PG6-16
	7: 0x000C1E00, // PH9-12, PH18-19
	9: 0x00000004, // PM2
}

// Valid reports whether native pin n is routed on the board.
func Valid(n int) bool {
	if n < 0 || n>>5 >= len(banks) {
		return false
	}
	return valid[n>>5]&(1<<uint(n&31)) != 0
}

// Name returns the datasheet name of native pin n, e.g. "PH10".
func Name(n int) string {
	if n < 0 || n>>5 >= len(banks) {
		return "P?" + strconv.Itoa(n)
	}
	return "P" + banks[n>>5:n>>5+1] + strconv.Itoa(n&31)
}

// SetAlt writes the 3 bits function code of native pin n.
func (c *Controller) SetAlt(n, f int) error {
	if !Valid(n) {
		return errors.Wrapf(ErrInvalidPin, "%d", n)
	}
	w, off := c.port(n)
	off += (n & 31) >> 3
	shift := uint(n&7) * 4
	v := w.ReadWord(off)
	w.WriteWord(off, (v&^(7<<shift))|(uint32(f&7)<<shift))
	return nil
}

// Alt returns the function code of native pin n.
func (c *Controller) Alt(n int) (int, error) {
	if !Valid(n) {
		return 0, errors.Wrapf(ErrInvalidPin, "%d", n)
	}
	w, off := c.port(n)
	off += (n & 31) >> 3
	return int(w.ReadWord(off)>>(uint(n&7)*4)) & 7, nil
}

// SetMode switches native pin n to mode m.
//
// Entering PWM resets the channel of the pin to period 1024, active 512 at
// 200kHz.
func (c *Controller) SetMode(n int, m mode.Mode) error {
	if !Valid(n) {
		return errors.Wrapf(ErrInvalidPin, "%d", n)
	}
	switch m {
	case mode.Input:
		return c.SetAlt(n, FuncIn)
	case mode.Output, mode.SoftPWMOutput, mode.SoftToneOutput:
		return c.SetAlt(n, FuncOut)
	case mode.PWMOutput, mode.PWMToneOutput:
		ch, ok := pwmChannel[n]
		if !ok {
			return errors.Wrapf(ErrNoPWM, "%s", Name(n))
		}
		if err := c.SetAlt(n, FuncPWM); err != nil {
			return err
		}
		c.Sleep(settleFunc)
		c.resetChannel(ch)
		c.log.Debugf("sunxi: PWM channel %d on %s", ch, Name(n))
	case mode.GPIOClock:
		return errors.Wrapf(ErrNoClock, "%s", Name(n))
	case mode.I2C, mode.SPI:
		if err := c.SetAlt(n, FuncSerial); err != nil {
			return err
		}
		c.Sleep(settleFunc)
	default:
		return errors.Errorf("sunxi: unsupported mode %s", m)
	}
	return nil
}

// SetPull sets the pull resistor of native pin n.
func (c *Controller) SetPull(n int, p gpio.Pull) error {
	if !Valid(n) {
		return errors.Wrapf(ErrInvalidPin, "%d", n)
	}
	var code uint32
	switch p {
	case gpio.PullNoChange:
		return nil
	case gpio.Float:
		code = 0
	case gpio.PullUp:
		code = 1
	case gpio.PullDown:
		code = 2
	default:
		return errors.Errorf("sunxi: invalid pull %s", p)
	}
	w, off := c.port(n)
	off += regPull + (n&31)>>4
	shift := uint(n&15) * 2
	v := w.ReadWord(off)
	w.WriteWord(off, (v&^(3<<shift))|code<<shift)
	return nil
}

// Read returns the level of native pin n. Invalid pins read low.
func (c *Controller) Read(n int) gpio.Level {
	if !Valid(n) {
		return gpio.Low
	}
	w, off := c.port(n)
	return gpio.Level(w.ReadWord(off+regData)&(1<<uint(n&31)) != 0)
}

// Write sets the level of native pin n. Invalid pins are ignored.
func (c *Controller) Write(n int, l gpio.Level) {
	if !Valid(n) {
		c.log.Debugf("sunxi: write to invalid pin %d ignored", n)
		return
	}
	w, off := c.port(n)
	v := w.ReadWord(off + regData)
	if l {
		v |= 1 << uint(n&31)
	} else {
		v &^= 1 << uint(n&31)
	}
	w.WriteWord(off+regData, v)
}

// SetPadDrive is a no-op, the drive strength registers are not exposed.
func (c *Controller) SetPadDrive(group, value int) error {
	return nil
}
