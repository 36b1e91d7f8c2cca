// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sunxi implements the register model of the Allwinner A31s used on
// the Banana Pi M2.
//
// Native pin numbers are bank*32+index where banks A to H are 0 to 7 and the
// R_PIO banks L and M are 8 and 9, e.g. PH10 is 234 and PM2 is 290.
//
// As with every register model in this module, the Controller must be driven
// from a single goroutine.
package sunxi

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"periph.io/x/wiring/regmem"
)

// Datasheet default addresses.
const (
	DefaultGPIOBase uint64 = 0x01C20800
	DefaultLMBase   uint64 = 0x01F02C00
	PWMBase         uint64 = 0x01C21400
)

// Every window is mapped from an 8KiB aligned page.
const (
	mapSize = 8192
	mapMask = mapSize - 1
)

// bankStride is the size of one bank of port registers, in words (0x24
// bytes).
const bankStride = 9

// Register offsets in a bank, in words.
const (
	regData = 4 // 0x10
	regPull = 7 // 0x1c
)

var (
	// ErrInvalidPin is returned for a pin that is not routed on the board.
	ErrInvalidPin = errors.New("sunxi: invalid pin")
	// ErrNoPWM is returned for a pin that is not connected to a PWM channel.
	ErrNoPWM = errors.New("sunxi: pin has no hardware PWM")
	// ErrNoClock is returned for clock outputs, which are not supported.
	ErrNoClock = errors.New("sunxi: general purpose clock output is not supported")
)

// Layout returns the windows to map for the given port controller base
// addresses.
func Layout(gpioBase, lmBase uint64) []regmem.Spec {
	return []regmem.Spec{
		{Name: regmem.GPIO, Base: int64(gpioBase &^ mapMask), Size: mapSize},
		{Name: regmem.GPIOLM, Base: int64(lmBase &^ mapMask), Size: mapSize},
		{Name: regmem.PWM, Base: int64(PWMBase &^ mapMask), Size: mapSize},
	}
}

// Controller drives the port controller and PWM registers.
type Controller struct {
	gpio regmem.Window
	lm   regmem.Window
	pwm  regmem.Window
	// Word offsets of the register blocks inside their window.
	gpioOff int
	lmOff   int
	pwmOff  int
	log     logrus.FieldLogger

	// Sleep waits for the hardware to settle. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// New returns a Controller over the windows of regs, mapped with Layout for
// the same base addresses.
func New(regs *regmem.Set, gpioBase, lmBase uint64, log logrus.FieldLogger) (*Controller, error) {
	c := &Controller{
		gpio:    regs.Window(regmem.GPIO),
		lm:      regs.Window(regmem.GPIOLM),
		pwm:     regs.Window(regmem.PWM),
		gpioOff: int(gpioBase&mapMask) >> 2,
		lmOff:   int(lmBase&mapMask) >> 2,
		pwmOff:  int(PWMBase&mapMask) >> 2,
		log:     log,
		Sleep:   time.Sleep,
	}
	if c.gpio == nil || c.lm == nil || c.pwm == nil {
		return nil, errors.New("sunxi: gpio, gpio-lm and pwm windows must be mapped")
	}
	if c.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		c.log = l
	}
	return c, nil
}

func (c *Controller) String() string {
	return "sunxi"
}

// port returns the window and the word offset of the bank of native pin n.
func (c *Controller) port(n int) (regmem.Window, int) {
	b := n >> 5
	if b >= 8 {
		return c.lm, c.lmOff + (b-8)*bankStride
	}
	return c.gpio, c.gpioOff + b*bankStride
}
