// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import "github.com/pkg/errors"

// SetClockFrequency programs the general purpose clock of native pin n.
//
// The divider has a 12 bits integer part and a 12 bits fractional part of
// the 19.2MHz oscillator. The clock is stopped while the divider changes.
func (c *Controller) SetClockFrequency(n, hz int) error {
	ctl := clkCtl[n&63]
	if ctl < 0 {
		return errors.Wrapf(ErrNoClock, "GPIO%d", n)
	}
	if hz <= 0 {
		return errors.Errorf("bcm283x: invalid clock frequency %dHz", hz)
	}
	divi := oscillator / hz
	divr := oscillator % hz
	divf := int(int64(divr) * 4096 / oscillator)
	if divi > maxDivisor {
		divi = maxDivisor
	}
	c.clk.WriteWord(ctl, password|clkSrcOsc)
	if err := c.waitIdle(ctl); err != nil {
		return err
	}
	c.clk.WriteWord(ctl+1, password|uint32(divi)<<12|uint32(divf))
	c.clk.WriteWord(ctl, password|clkEnable|clkSrcOsc)
	c.log.WithField("pin", n).Debugf("bcm283x: clock divi %d divf %d", divi, divf)
	return nil
}
