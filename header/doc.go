// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package header exposes the pin headers of the supported boards through the
// periph pin registries.
//
// Importing the package registers a driver; call Init, or driverreg.Init, to
// detect the board and register its headers as in:
//
//	if _, err := header.Init(); err != nil {
//	  log.Fatal(err)
//	}
//	p := gpioreg.ByName("WPI0")
//
// Pins are registered under their native name, e.g. "GPIO17" or "PH10", with
// the aliases "WPI<n>" for logical pin numbers.
//
// # Physical
//
// https://www.raspberrypi.com/documentation/computers/raspberry-pi.html#gpio
//
// https://wiki.banana-pi.org/Banana_Pi_BPI-M2
package header
