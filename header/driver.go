// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package header

import (
	"runtime"
	"sync"

	"golang.org/x/sys/unix"
	"periph.io/x/conn/v3/driver/driverreg"

	"periph.io/x/wiring"
)

// Init calls driverreg.Init() and returns it as-is.
//
// The only difference is that by calling header.Init(), you are guaranteed
// to have the header driver loaded.
func Init() (*driverreg.State, error) {
	return driverreg.Init()
}

// Context returns the Context opened by the driver, or nil if the driver
// was not initialized.
func Context() *wiring.Context {
	drv.mu.Lock()
	defer drv.mu.Unlock()
	return drv.c
}

// open maps the registers when running as root and falls back to the
// exported GPIOs otherwise.
var open = func(o *wiring.Options) (*wiring.Context, error) {
	if unix.Geteuid() != 0 {
		return wiring.SetupSys(o)
	}
	return wiring.Setup(o)
}

// driver implements driver.Impl.
type driver struct {
	mu sync.Mutex
	c  *wiring.Context
}

func (d *driver) String() string {
	return "wiring-header"
}

func (d *driver) Prerequisites() []string {
	return nil
}

func (d *driver) After() []string {
	return nil
}

// Init detects the board and registers its headers.
func (d *driver) Init() (bool, error) {
	o := wiring.OptionsFromEnv()
	o.ReturnCodes = true
	c, err := open(o)
	if err != nil {
		return false, err
	}
	if err := Register(c); err != nil {
		_ = c.Close()
		return true, err
	}
	d.mu.Lock()
	d.c = c
	d.mu.Unlock()
	return true, nil
}

func init() {
	if isArm {
		driverreg.MustRegister(&drv)
	}
}

var isArm = runtime.GOARCH == "arm" || runtime.GOARCH == "arm64"

var drv driver
