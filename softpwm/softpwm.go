// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package softpwm generates PWM and square waves by toggling a pin from a
// goroutine.
//
// The timing jitter is that of the Go scheduler, which makes it suitable for
// LEDs and buzzers, not for servos.
package softpwm

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
)

// Writer drives the pin.
type Writer func(l gpio.Level)

// DefaultUnit is the duration of one PWM step. A range of 100 gives a 100Hz
// period.
const DefaultUnit = 100 * time.Microsecond

// MaxToneHz is the highest frequency Tone generates.
const MaxToneHz = 5000

type loop struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func (l *loop) init() {
	l.stop = make(chan struct{})
	l.done = make(chan struct{})
}

// sleep waits for d or until stopped. It returns false when stopped.
func (l *loop) sleep(d time.Duration) bool {
	if d <= 0 {
		select {
		case <-l.stop:
			return false
		default:
			return true
		}
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-l.stop:
		return false
	case <-t.C:
		return true
	}
}

// Stop terminates the goroutine and waits for it to exit.
func (l *loop) Stop() {
	l.once.Do(func() { close(l.stop) })
	<-l.done
}

// PWM is a software PWM on one pin.
type PWM struct {
	loop
	w     Writer
	rng   int
	unit  time.Duration
	value atomic.Int32
}

// NewPWM starts a PWM with the given initial value and range, in steps of
// unit. A zero unit uses DefaultUnit.
func NewPWM(w Writer, value, rng int, unit time.Duration) (*PWM, error) {
	if rng <= 0 {
		return nil, errors.Errorf("softpwm: invalid range %d", rng)
	}
	if unit <= 0 {
		unit = DefaultUnit
	}
	p := &PWM{w: w, rng: rng, unit: unit}
	p.init()
	p.Write(value)
	w(gpio.Low)
	go p.run()
	return p, nil
}

// Range returns the number of steps in a period.
func (p *PWM) Range() int {
	return p.rng
}

// Write sets the number of high steps per period, clamped to 0..Range().
func (p *PWM) Write(v int) {
	if v < 0 {
		v = 0
	} else if v > p.rng {
		v = p.rng
	}
	p.value.Store(int32(v))
}

// Value returns the number of high steps per period.
func (p *PWM) Value() int {
	return int(p.value.Load())
}

func (p *PWM) run() {
	defer close(p.done)
	defer p.w(gpio.Low)
	for {
		on := int(p.value.Load())
		if on != 0 {
			p.w(gpio.High)
		}
		if !p.sleep(time.Duration(on) * p.unit) {
			return
		}
		if on != p.rng {
			p.w(gpio.Low)
		}
		if !p.sleep(time.Duration(p.rng-on) * p.unit) {
			return
		}
	}
}

// Tone is a software square wave on one pin.
type Tone struct {
	loop
	w  Writer
	hz atomic.Int32
}

// NewTone starts a silent Tone.
func NewTone(w Writer) *Tone {
	t := &Tone{w: w}
	t.init()
	w(gpio.Low)
	go t.run()
	return t
}

// Write sets the frequency, clamped to 0..MaxToneHz. 0 is silence.
func (t *Tone) Write(hz int) {
	if hz < 0 {
		hz = 0
	} else if hz > MaxToneHz {
		hz = MaxToneHz
	}
	t.hz.Store(int32(hz))
}

// Frequency returns the current frequency in Hz.
func (t *Tone) Frequency() int {
	return int(t.hz.Load())
}

func (t *Tone) run() {
	defer close(t.done)
	defer t.w(gpio.Low)
	for {
		hz := t.hz.Load()
		if hz == 0 {
			if !t.sleep(time.Millisecond) {
				return
			}
			continue
		}
		half := time.Second / time.Duration(2*hz)
		t.w(gpio.High)
		if !t.sleep(half) {
			return
		}
		t.w(gpio.Low)
		if !t.sleep(half) {
			return
		}
	}
}
