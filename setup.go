// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wiring

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"periph.io/x/wiring/bcm283x"
	"periph.io/x/wiring/board"
	"periph.io/x/wiring/pinmap"
	"periph.io/x/wiring/regmem"
	"periph.io/x/wiring/sunxi"
	"periph.io/x/wiring/sysfs"
)

// geteuid is replaced in tests.
var geteuid = unix.Geteuid

// Setup maps the registers and numbers pins with the logical scheme.
//
// On a Compute Module, which has no fixed header, the native scheme is used
// instead. A nil opts uses OptionsFromEnv.
func Setup(opts *Options) (*Context, error) {
	return setup(opts, pinmap.Logical)
}

// SetupGpio maps the registers and numbers pins with the SoC native numbers.
func SetupGpio(opts *Options) (*Context, error) {
	return setup(opts, pinmap.Native)
}

// SetupPhys maps the registers and numbers pins with their connector
// position.
func SetupPhys(opts *Options) (*Context, error) {
	return setup(opts, pinmap.Physical)
}

// SetupSys numbers pins with the kernel GPIO numbers and drives them through
// sysfs. It doesn't need root but the pins must have been exported, for
// example with the gpio program.
//
// Only reads, writes and interrupts are supported in this mode.
func SetupSys(opts *Options) (*Context, error) {
	return setup(opts, pinmap.SysFs)
}

func setup(opts *Options, scheme pinmap.Scheme) (*Context, error) {
	if opts == nil {
		opts = OptionsFromEnv()
	}
	o, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	log := o.Logger
	model, err := board.DetectFile(o.CPUInfo)
	if err != nil {
		return nil, fail(log, o.ReturnCodes, fatal, errors.Wrap(err, "wiring: unable to determine the board"))
	}
	log.WithFields(logrus.Fields{"board": model.String(), "revision": model.Revision}).Debug("wiring: detected board")
	if scheme == pinmap.Logical && model.Type == board.ComputeModule {
		scheme = pinmap.Native
	}
	if scheme == pinmap.SysFs {
		return setupSys(model, o)
	}
	if geteuid() != 0 {
		return nil, fail(log, o.ReturnCodes, fatal, errors.New("wiring: must be root. (Did you forget sudo?)"))
	}
	regs, err := regmem.Open(o.MemDevice, layout(model, o))
	if err != nil {
		return nil, fail(log, o.ReturnCodes, always, err)
	}
	c, err := New(model, regs, scheme, o)
	if err != nil {
		_ = regs.Close()
		return nil, fail(log, o.ReturnCodes, fatal, err)
	}
	return c, nil
}

// layout returns the register windows of a board.
func layout(model *board.Model, o *Options) []regmem.Spec {
	switch model.Family {
	case board.Sun6i:
		return sunxi.Layout(sunxi.BaseAddresses(o.DriverDir))
	case board.BCM2709:
		return bcm283x.Layout(bcm283x.BaseBCM2709)
	default:
		return bcm283x.Layout(bcm283x.BaseBCM2708)
	}
}

func setupSys(model *board.Model, o *Options) (*Context, error) {
	c, err := New(model, nil, pinmap.SysFs, o)
	if err != nil {
		return nil, fail(o.Logger, o.ReturnCodes, fatal, err)
	}
	var numbers []int
	for i := range c.pins.SysFs {
		if n, ok := c.pins.SysFs.Lookup(i); ok {
			numbers = append(numbers, n)
		}
	}
	pins, err := sysfs.OpenAll(o.SysfsRoot, numbers)
	if err != nil {
		c.log.WithError(err).Debug("wiring: some GPIOs are not exported")
	}
	c.sys = pins
	for n, p := range pins {
		c.isr.Attach(n, p)
	}
	return c, nil
}
