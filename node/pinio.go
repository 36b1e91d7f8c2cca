// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package node

import (
	"strings"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"periph.io/x/wiring/mode"
)

// PinIO is a Device over periph pins, such as the ones found in gpioreg.
type PinIO struct {
	Nop
	Pins []gpio.PinIO
	// Freq is the frequency used by PWMWrite, with a 0..1023 value range.
	// Defaults to 1kHz.
	Freq physic.Frequency
}

func (p *PinIO) String() string {
	names := make([]string, 0, len(p.Pins))
	for _, pin := range p.Pins {
		names = append(names, pin.Name())
	}
	return "PinIO(" + strings.Join(names, ",") + ")"
}

func (p *PinIO) pin(i int) (gpio.PinIO, error) {
	if i < 0 || i >= len(p.Pins) {
		return nil, errors.Errorf("node: pin offset %d out of range", i)
	}
	return p.Pins[i], nil
}

// SetMode implements Device. Only input and output modes are supported.
func (p *PinIO) SetMode(i int, m mode.Mode) error {
	pin, err := p.pin(i)
	if err != nil {
		return err
	}
	switch m {
	case mode.Input:
		return pin.In(gpio.PullNoChange, gpio.NoEdge)
	case mode.Output:
		return pin.Out(gpio.Low)
	case mode.PWMOutput:
		return nil
	default:
		return errors.Errorf("node: %s does not support mode %s", pin, m)
	}
}

// SetPull implements Device.
func (p *PinIO) SetPull(i int, pull gpio.Pull) error {
	pin, err := p.pin(i)
	if err != nil {
		return err
	}
	return pin.In(pull, gpio.NoEdge)
}

// DigitalRead implements Device.
func (p *PinIO) DigitalRead(i int) gpio.Level {
	pin, err := p.pin(i)
	if err != nil {
		return gpio.Low
	}
	return pin.Read()
}

// DigitalWrite implements Device.
func (p *PinIO) DigitalWrite(i int, l gpio.Level) error {
	pin, err := p.pin(i)
	if err != nil {
		return err
	}
	return pin.Out(l)
}

// PWMWrite implements Device. v is in 0..1023.
func (p *PinIO) PWMWrite(i, v int) error {
	pin, err := p.pin(i)
	if err != nil {
		return err
	}
	f := p.Freq
	if f == 0 {
		f = physic.KiloHertz
	}
	if v < 0 {
		v = 0
	} else if v > 1023 {
		v = 1023
	}
	return pin.PWM(gpio.Duty(int64(v)*int64(gpio.DutyMax)/1023), f)
}

var _ Device = &PinIO{}
