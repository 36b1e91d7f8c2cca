// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sunxi

import (
	"time"

	"github.com/pkg/errors"

	"periph.io/x/wiring/mode"
)

// Control register bits of a channel.
const (
	pwmPrescale  = 0xf
	pwmEnable    = 1 << 4
	pwmActHigh   = 1 << 5
	pwmGating    = 1 << 6
	pwmPulseMode = 1 << 7
	pwmPulStart  = 1 << 8
)

// MaxPeriod is the largest period, the field is 16 bits.
const MaxPeriod = 0xFFFF

// oscillator is the PWM source clock in Hz.
const oscillator = 24000000

// Word offsets of the control and period registers of each channel, from the
// PWM base.
var (
	pwmCtrl   = [2]int{0x10 >> 2, 0x20 >> 2}
	pwmPeriod = [2]int{0x14 >> 2, 0x24 >> 2}
)

var pwmChannel = map[int]int{
	233: 0, // PH9
	234: 0, // PH10
	235: 1, // PH11
	236: 1, // PH12
}

// Prescalers maps the prescaler codes to their divider. Codes 5, 6, 7 and
// 13 to 15 are reserved.
var Prescalers = map[int]int{
	0: 120, 1: 180, 2: 240, 3: 360, 4: 480,
	8: 12000, 9: 24000, 10: 36000, 11: 48000, 12: 72000,
}

// prescalerOrder lists the codes by increasing divider.
var prescalerOrder = []int{0, 1, 2, 3, 4, 8, 9, 10, 11, 12}

// HasPWM reports whether native pin n is connected to a PWM channel.
func HasPWM(n int) bool {
	_, ok := pwmChannel[n]
	return ok
}

func (c *Controller) ctrl(ch int) int   { return c.pwmOff + pwmCtrl[ch] }
func (c *Controller) period(ch int) int { return c.pwmOff + pwmPeriod[ch] }

func (c *Controller) setEnable(ch int, on bool) {
	v := c.pwm.ReadWord(c.ctrl(ch))
	if on {
		v |= pwmEnable | pwmGating
	} else {
		v &^= pwmEnable | pwmGating
	}
	c.pwm.WriteWord(c.ctrl(ch), v)
	c.Sleep(time.Millisecond)
}

// setCycleMode selects cycle mode with an active high output.
func (c *Controller) setCycleMode(ch int) {
	v := c.pwm.ReadWord(c.ctrl(ch))
	v &^= pwmPulseMode
	v |= pwmActHigh
	c.pwm.WriteWord(c.ctrl(ch), v)
	c.Sleep(time.Millisecond)
}

func (c *Controller) setPrescaler(ch, code int) {
	v := c.pwm.ReadWord(c.ctrl(ch))
	c.pwm.WriteWord(c.ctrl(ch), v&^pwmPrescale|uint32(code&pwmPrescale))
	c.Sleep(time.Millisecond)
}

func (c *Controller) setPeriod(ch int, p uint32) {
	v := c.pwm.ReadWord(c.period(ch))
	c.pwm.WriteWord(c.period(ch), v&0xFFFF|(p&0xFFFF)<<16)
	c.Sleep(10 * time.Millisecond)
}

func (c *Controller) setActive(ch int, a uint32) {
	v := c.pwm.ReadWord(c.period(ch))
	c.pwm.WriteWord(c.period(ch), v&0xFFFF0000|a&0xFFFF)
	c.Sleep(10 * time.Millisecond)
}

func (c *Controller) periodOf(ch int) uint32 {
	return c.pwm.ReadWord(c.period(ch)) >> 16
}

// resetChannel brings a channel to its default state.
func (c *Controller) resetChannel(ch int) {
	c.pwm.WriteWord(c.ctrl(ch), 0)
	c.pwm.WriteWord(c.period(ch), 0)
	c.setPeriod(ch, 1024)
	c.setActive(ch, 512)
	c.setCycleMode(ch)
	c.setPrescaler(ch, 0)
	c.setEnable(ch, true)
	c.Sleep(settleFunc)
}

// SetPWMMode selects cycle mode on both channels. The A31s has no balanced
// algorithm so both modes behave as mark-space.
func (c *Controller) SetPWMMode(m mode.PWM) {
	for ch := range pwmCtrl {
		c.setCycleMode(ch)
	}
}

// SetPWMRange sets the period of both channels, clamped to MaxPeriod.
func (c *Controller) SetPWMRange(r uint32) {
	if r > MaxPeriod {
		r = MaxPeriod
	}
	for ch := range pwmPeriod {
		c.setPeriod(ch, r)
	}
}

// PWMRange returns the period of channel 0.
func (c *Controller) PWMRange() uint32 {
	return c.periodOf(0)
}

// SetPWMClock writes the prescaler code of both channels. code is clamped to
// 0..15.
func (c *Controller) SetPWMClock(code int) error {
	if code < 0 {
		code = 0
	} else if code > pwmPrescale {
		code = pwmPrescale
	}
	for ch := range pwmCtrl {
		c.setEnable(ch, false)
		c.setPrescaler(ch, code)
		c.setEnable(ch, true)
	}
	c.log.Debugf("sunxi: PWM prescaler code %d", code)
	return nil
}

// PWMClock returns the prescaler code of channel 0.
func (c *Controller) PWMClock() int {
	return int(c.pwm.ReadWord(c.ctrl(0)) & pwmPrescale)
}

// SetPWMFrequency selects the smallest prescaler that produces at most hz
// with period r.
func (c *Controller) SetPWMFrequency(hz int64, r uint32) error {
	if hz <= 0 || r == 0 || r > MaxPeriod {
		return errors.Errorf("sunxi: invalid PWM frequency %dHz with period %d", hz, r)
	}
	if oscillator/(int64(Prescalers[0])*int64(r)) < hz {
		return errors.Errorf("sunxi: PWM frequency %dHz too high for period %d", hz, r)
	}
	for _, code := range prescalerOrder {
		if oscillator/(int64(Prescalers[code])*int64(r)) <= hz {
			if err := c.SetPWMClock(code); err != nil {
				return err
			}
			c.SetPWMRange(r)
			return nil
		}
	}
	return errors.Errorf("sunxi: PWM frequency %dHz too low for period %d", hz, r)
}

// PWMWrite sets the active cycles of the channel of native pin n, clamped to
// the period.
func (c *Controller) PWMWrite(n, v int) error {
	ch, ok := pwmChannel[n]
	if !ok {
		return errors.Wrapf(ErrNoPWM, "%s", Name(n))
	}
	a := uint32(0)
	if v > 0 {
		a = uint32(v)
	}
	if p := c.periodOf(ch); a > p {
		a = p
	}
	c.setEnable(ch, false)
	c.setActive(ch, a)
	c.setEnable(ch, true)
	return nil
}

// SetClockFrequency always fails, the general purpose clocks are not routed
// to the header.
func (c *Controller) SetClockFrequency(n, hz int) error {
	return errors.Wrapf(ErrNoClock, "%s", Name(n))
}
