// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wiring

import "time"

// spinThreshold is the longest delay implemented by spinning.
const spinThreshold = 100 * time.Microsecond

// Millis returns the milliseconds elapsed since setup.
func (c *Context) Millis() uint32 {
	return uint32(time.Since(c.start) / time.Millisecond)
}

// Micros returns the microseconds elapsed since setup.
func (c *Context) Micros() uint32 {
	return uint32(time.Since(c.start) / time.Microsecond)
}

// Delay sleeps for ms milliseconds.
func (c *Context) Delay(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// DelayMicroseconds waits for us microseconds. Short delays spin instead of
// sleeping since the scheduler wakes up too late.
func (c *Context) DelayMicroseconds(us uint32) {
	d := time.Duration(us) * time.Microsecond
	switch {
	case d == 0:
	case d < spinThreshold:
		for start := time.Now(); time.Since(start) < d; {
		}
	default:
		time.Sleep(d)
	}
}
