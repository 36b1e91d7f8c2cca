// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bcm283x implements the register model of the Broadcom BCM2835 and
// BCM2836 used on the Raspberry Pi.
//
// The Controller is not safe for concurrent use: register read-modify-write
// sequences are not protected by any lock, and the hardware has no atomic
// compare-and-swap. A single goroutine must drive all pin, PWM and clock
// configuration.
//
// Datasheet
//
// https://www.raspberrypi.org/wp-content/uploads/2012/02/BCM2835-ARM-Peripherals.pdf
package bcm283x

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"periph.io/x/wiring/regmem"
)

// Peripheral base addresses.
const (
	BaseBCM2708 int64 = 0x20000000
	BaseBCM2709 int64 = 0x3F000000
)

const (
	offsetPads  = 0x100000
	offsetClock = 0x101000
	offsetGPIO  = 0x200000
	offsetPWM   = 0x20C000
	offsetTimer = 0x00B000
	blockSize   = 4096
)

// password must be ORed into every write to the clock manager and pad
// control registers.
const password = 0x5A000000

// DefaultMaxBusyPolls bounds the busy-wait on a clock manager. At 1µs per
// poll it is far longer than any clock takes to stop.
const DefaultMaxBusyPolls = 100000

var (
	// ErrNoPWM is returned for a pin that is not connected to a PWM channel.
	ErrNoPWM = errors.New("bcm283x: pin has no hardware PWM")
	// ErrNoClock is returned for a pin that is not connected to a general
	// purpose clock.
	ErrNoClock = errors.New("bcm283x: pin has no general purpose clock")
	// ErrNoResponse is returned when a clock manager stays busy after it was
	// asked to stop.
	ErrNoResponse = errors.New("bcm283x: hardware did not respond")
)

// Layout returns the register windows to map for a peripheral base address.
func Layout(base int64) []regmem.Spec {
	return []regmem.Spec{
		{Name: regmem.GPIO, Base: base + offsetGPIO, Size: blockSize},
		{Name: regmem.PWM, Base: base + offsetPWM, Size: blockSize},
		{Name: regmem.Clock, Base: base + offsetClock, Size: blockSize},
		{Name: regmem.Pads, Base: base + offsetPads, Size: blockSize},
	}
}

// TimerLayout returns the ARM timer window. It is not mapped by default.
func TimerLayout(base int64) regmem.Spec {
	return regmem.Spec{Name: regmem.Timer, Base: base + offsetTimer, Size: blockSize}
}

// Controller drives the GPIO, PWM, clock and pad registers.
type Controller struct {
	gpio regmem.Window
	pwm  regmem.Window
	clk  regmem.Window
	pads regmem.Window
	log  logrus.FieldLogger

	// Sleep waits for the hardware to settle. Defaults to time.Sleep.
	Sleep func(time.Duration)
	// MaxBusyPolls bounds the clock manager busy-wait.
	MaxBusyPolls int
}

// New returns a Controller over the windows of regs.
func New(regs *regmem.Set, log logrus.FieldLogger) (*Controller, error) {
	c := &Controller{
		gpio:         regs.Window(regmem.GPIO),
		pwm:          regs.Window(regmem.PWM),
		clk:          regs.Window(regmem.Clock),
		pads:         regs.Window(regmem.Pads),
		log:          log,
		Sleep:        time.Sleep,
		MaxBusyPolls: DefaultMaxBusyPolls,
	}
	for name, w := range map[string]regmem.Window{regmem.GPIO: c.gpio, regmem.PWM: c.pwm, regmem.Clock: c.clk, regmem.Pads: c.pads} {
		if w == nil {
			return nil, errors.Errorf("bcm283x: %s window is not mapped", name)
		}
	}
	if c.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		c.log = l
	}
	return c, nil
}

func (c *Controller) String() string {
	return "bcm283x"
}

// waitIdle polls the busy bit of a clock manager control register.
func (c *Controller) waitIdle(ctl int) error {
	for i := 0; i < c.MaxBusyPolls; i++ {
		if c.clk.ReadWord(ctl)&clkBusy == 0 {
			return nil
		}
		c.Sleep(time.Microsecond)
	}
	return errors.Wrapf(ErrNoResponse, "clock manager %d still busy after %d polls", ctl, c.MaxBusyPolls)
}
