// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package wiring addresses the GPIO, PWM and clock peripherals of single
// board computers through one pin numbering, across SoC families and board
// revisions.
//
// A Context is created once by one of the setup functions and selects the
// numbering scheme:
//
//	Setup      logical pin numbers (0 to 16 on the original header)
//	SetupGpio  the SoC native numbers
//	SetupPhys  connector positions (1 to 40)
//	SetupSys   kernel GPIO numbers through sysfs, without root
//
// Pins 64 and up belong to extension nodes registered with RegisterNode.
//
// Supported boards are the Raspberry Pi 1 and 2 (BCM2835, BCM2836) and the
// Banana Pi M2 (Allwinner A31s).
//
// Configuration calls must come from a single goroutine; interrupt callbacks
// run on their own goroutine, one per pin.
//
// Error handling follows the environment: by default a hardware feature
// missing on a pin logs the reason and exits the process. Setting
// WIRINGPI_CODES, or Options.ReturnCodes, returns the error instead.
package wiring
