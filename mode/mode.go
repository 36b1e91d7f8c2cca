// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mode defines the operating modes a pin can be switched into.
package mode

import "strconv"

// Mode is the function a pin is configured for.
type Mode int

// Pin modes.
const (
	Unset Mode = iota
	Input
	Output
	PWMOutput
	GPIOClock
	SoftPWMOutput
	SoftToneOutput
	PWMToneOutput
	I2C
	SPI
)

var modeNames = [...]string{"Unset", "Input", "Output", "PWMOutput", "GPIOClock", "SoftPWMOutput", "SoftToneOutput", "PWMToneOutput", "I2C", "SPI"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
	return modeNames[m]
}

// PWM is the output algorithm of the hardware PWM generator.
type PWM int

const (
	// MarkSpace outputs a classic fixed period square wave.
	MarkSpace PWM = 0
	// Balanced spreads the active cycles evenly over the range.
	Balanced PWM = 1
)

func (p PWM) String() string {
	if p == MarkSpace {
		return "MarkSpace"
	}
	return "Balanced"
}
