// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wiring

import (
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
)

// ISR calls fn on a dedicated goroutine every time edge e occurs on pin.
//
// gpio.NoEdge uses the edge already configured, for example by the gpio
// program. Calling ISR again on the same pin replaces fn.
func (c *Context) ISR(pin int, e gpio.Edge, fn func()) error {
	if pin < 0 || pin > 63 {
		return c.fail(fatal, errors.Errorf("wiring: ISR pin must be 0-63 (%d)", pin))
	}
	k, err := c.kernelPin(pin)
	if err != nil {
		return c.fail(fatal, err)
	}
	if err := c.isr.Arm(k, e, fn); err != nil {
		return c.fail(fatal, errors.Wrapf(err, "wiring: ISR on pin %d", pin))
	}
	c.log.WithField("pin", pin).Debugf("wiring: ISR armed on GPIO%d %s", k, e)
	return nil
}

// WaitForInterrupt waits up to timeout for an edge on pin. A negative
// timeout waits forever.
//
// The pin must have been set up with ISR, or exported with an edge when
// using sysfs numbering; otherwise the error wraps isr.ErrNotArmed.
func (c *Context) WaitForInterrupt(pin int, timeout time.Duration) (bool, error) {
	native, ok := c.resolve(pin)
	if !ok {
		return false, errors.Errorf("wiring: pin %d is not mapped", pin)
	}
	k, ok := c.kernel(native)
	if !ok {
		return false, errors.Errorf("wiring: pin %d has no kernel GPIO number", pin)
	}
	return c.isr.Wait(k, timeout)
}

// kernelPin returns the kernel GPIO number of an on-board pin that supports
// edge detection.
func (c *Context) kernelPin(pin int) (int, error) {
	native, ok := c.resolve(pin)
	if !ok {
		return 0, errors.Errorf("wiring: pin %d is not mapped", pin)
	}
	k, ok := c.kernel(native)
	if !ok || !c.pins.SupportsEdge(k) {
		return 0, errors.Errorf("wiring: pin %d does not support interrupts on %s", pin, c.model.Family)
	}
	return k, nil
}
