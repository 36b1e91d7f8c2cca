// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wiring

import (
	"os"

	"github.com/sirupsen/logrus"

	"periph.io/x/wiring/board"
	"periph.io/x/wiring/isr"
	"periph.io/x/wiring/regmem"
	"periph.io/x/wiring/sunxi"
	"periph.io/x/wiring/sysfs"
)

// Environment variables read by OptionsFromEnv.
const (
	EnvDebug = "WIRINGPI_DEBUG"
	EnvCodes = "WIRINGPI_CODES"
	EnvGPIO  = "WIRINGPI_GPIO"
)

// Options configures a Context.
//
// The zero value uses the system paths and the default failure policy.
type Options struct {
	// Debug enables debug logging.
	Debug bool
	// ReturnCodes returns errors for missing hardware support instead of
	// exiting the process.
	ReturnCodes bool
	// EdgeHelper overrides the command used to configure edges, e.g.
	// "sudo /opt/bin/gpio". It is split like a shell would.
	EdgeHelper string

	// CPUInfo is the board description file. Defaults to /proc/cpuinfo.
	CPUInfo string
	// MemDevice is the physical memory device. Defaults to /dev/mem.
	MemDevice string
	// SysfsRoot is the GPIO sysfs directory. Defaults to /sys/class/gpio.
	SysfsRoot string
	// DriverDir is scanned for the Allwinner port controller addresses.
	DriverDir string

	// Logger receives the diagnostics. Defaults to a new logger on stderr.
	Logger *logrus.Logger
	// Edges overrides EdgeHelper.
	Edges isr.EdgeSetter
	// Notifiers overrides the sysfs value files used for interrupts.
	Notifiers isr.Source
}

// OptionsFromEnv returns Options initialized from the WIRINGPI_DEBUG,
// WIRINGPI_CODES and WIRINGPI_GPIO environment variables.
func OptionsFromEnv() *Options {
	o := &Options{}
	_, o.Debug = os.LookupEnv(EnvDebug)
	_, o.ReturnCodes = os.LookupEnv(EnvCodes)
	o.EdgeHelper = os.Getenv(EnvGPIO)
	return o
}

// withDefaults returns a copy of o with the empty fields set.
func (o *Options) withDefaults() (*Options, error) {
	var c Options
	if o != nil {
		c = *o
	}
	if c.CPUInfo == "" {
		c.CPUInfo = board.CPUInfo
	}
	if c.MemDevice == "" {
		c.MemDevice = regmem.Device
	}
	if c.SysfsRoot == "" {
		c.SysfsRoot = sysfs.Root
	}
	if c.DriverDir == "" {
		c.DriverDir = sunxi.DriverDir
	}
	if c.Logger == nil {
		c.Logger = logrus.New()
	}
	if c.Debug {
		c.Logger.SetLevel(logrus.DebugLevel)
	}
	if c.Edges == nil {
		h, err := isr.ParseCommand(c.EdgeHelper)
		if err != nil {
			return nil, err
		}
		c.Edges = h
	}
	if c.Notifiers == nil {
		c.Notifiers = isr.SysfsSource{Root: c.SysfsRoot}
	}
	return &c, nil
}
