// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"time"

	"github.com/pkg/errors"

	"periph.io/x/wiring/mode"
)

// Word offsets in the PWM window.
const (
	pwmCtl  = 0
	pwmSta  = 1
	pwm0Rng = 4
	pwm0Dat = 5
	pwm1Rng = 8
	pwm1Dat = 9
)

// PWM control bits.
const (
	pwm0Enable  = 1 << 0
	pwm0Serial  = 1 << 1
	pwm0Repeat  = 1 << 2
	pwm0OffHigh = 1 << 3
	pwm0RevPol  = 1 << 4
	pwm0FIFO    = 1 << 5
	pwm0MS      = 1 << 7
	pwm1Enable  = pwm0Enable << 8
	pwm1MS      = pwm0MS << 8
)

// Word offsets of the PWM clock manager in the clock window.
const (
	pwmClkCtl = 40
	pwmClkDiv = 41
)

// Clock manager control bits.
const (
	clkSrcOsc = 1
	clkEnable = 1 << 4
	clkBusy   = 1 << 7
)

// maxDivisor is the largest integer divisor of a clock manager.
const maxDivisor = 4095

// oscillator is the frequency of the clock managers source, in Hz.
const oscillator = 19200000

var pwmData = [2]int{pwm0Dat, pwm1Dat}

// SetPWMMode selects the PWM algorithm of both channels and enables them.
func (c *Controller) SetPWMMode(m mode.PWM) {
	if m == mode.MarkSpace {
		c.pwm.WriteWord(pwmCtl, pwm0Enable|pwm1Enable|pwm0MS|pwm1MS)
	} else {
		c.pwm.WriteWord(pwmCtl, pwm0Enable|pwm1Enable)
	}
}

// SetPWMRange sets the range of both channels.
func (c *Controller) SetPWMRange(r uint32) {
	c.pwm.WriteWord(pwm0Rng, r)
	c.Sleep(10 * time.Microsecond)
	c.pwm.WriteWord(pwm1Rng, r)
	c.Sleep(10 * time.Microsecond)
}

// PWMRange returns the range of channel 0.
func (c *Controller) PWMRange() uint32 {
	return c.pwm.ReadWord(pwm0Rng)
}

// SetPWMClock sets the integer divisor of the PWM clock.
//
// divisor is clamped to 0..4095. The PWM output is disabled and the clock
// stopped while the divisor changes; writing the divisor of a running clock
// can latch it into a near zero frequency that later writes do not recover
// from.
func (c *Controller) SetPWMClock(divisor int) error {
	if divisor < 0 {
		divisor = 0
	} else if divisor > maxDivisor {
		divisor = maxDivisor
	}
	ctl := c.pwm.ReadWord(pwmCtl)
	c.pwm.WriteWord(pwmCtl, 0)
	c.clk.WriteWord(pwmClkCtl, password|clkSrcOsc)
	c.Sleep(settleFunc)
	if err := c.waitIdle(pwmClkCtl); err != nil {
		return err
	}
	c.clk.WriteWord(pwmClkDiv, password|uint32(divisor)<<12)
	c.clk.WriteWord(pwmClkCtl, password|clkEnable|clkSrcOsc)
	c.pwm.WriteWord(pwmCtl, ctl)
	c.log.Debugf("bcm283x: PWM clock divisor %d", divisor)
	return nil
}

// PWMClock returns the integer divisor of the PWM clock.
func (c *Controller) PWMClock() int {
	return int((c.clk.ReadWord(pwmClkDiv) >> 12) & maxDivisor)
}

// SetPWMFrequency sets the range to r and selects the divisor closest to
// producing hz.
func (c *Controller) SetPWMFrequency(hz int64, r uint32) error {
	if hz <= 0 || r == 0 {
		return errors.Errorf("bcm283x: invalid PWM frequency %dHz with range %d", hz, r)
	}
	d := oscillator / (hz * int64(r))
	if d < 2 {
		return errors.Errorf("bcm283x: PWM frequency %dHz too high for range %d", hz, r)
	}
	if err := c.SetPWMClock(int(d)); err != nil {
		return err
	}
	c.SetPWMRange(r)
	return nil
}

// PWMWrite sets the data register of the channel of native pin n.
func (c *Controller) PWMWrite(n, v int) error {
	ch := pwmChannel[n&63]
	if ch < 0 {
		return errors.Wrapf(ErrNoPWM, "GPIO%d", n)
	}
	c.pwm.WriteWord(pwmData[ch], uint32(v))
	return nil
}
