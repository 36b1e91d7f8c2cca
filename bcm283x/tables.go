// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

func init() {
	for i := range pwmAlt {
		pwmAlt[i], pwmChannel[i], clkAlt[i], clkCtl[i] = -1, -1, -1, -1
	}
	for n, ch := range map[int]int{12: 0, 13: 1, 18: 0, 19: 1, 40: 0, 41: 1, 45: 1} {
		pwmChannel[n] = ch
	}
	for _, n := range []int{12, 13, 40, 41, 45} {
		pwmAlt[n] = int(Alt0)
	}
	pwmAlt[18], pwmAlt[19] = int(Alt5), int(Alt5)

	for _, n := range []int{4, 5, 6, 32, 34, 42, 43, 44} {
		clkAlt[n] = int(Alt0)
	}
	clkAlt[20], clkAlt[21] = int(Alt5), int(Alt5)
	// GP0CTL, GP1CTL and GP2CTL; the divider register follows each one.
	for n, ctl := range map[int]int{4: 28, 5: 30, 6: 32, 20: 28, 21: 30, 32: 28, 34: 28, 42: 28, 43: 30, 44: 28} {
		clkCtl[n] = ctl
	}
}

var (
	// pwmAlt is the function selecting PWM on a pin, or -1.
	pwmAlt [64]int
	// pwmChannel is the PWM channel of a pin, or -1.
	pwmChannel [64]int
	// clkAlt is the function selecting the general purpose clock on a pin,
	// or -1.
	clkAlt [64]int
	// clkCtl is the clock manager control register of a pin, or -1.
	clkCtl [64]int
)

// HasPWM returns true if native pin n can output hardware PWM.
func HasPWM(n int) bool {
	return n >= 0 && n < 64 && pwmAlt[n] >= 0
}

// HasClock returns true if native pin n can output a general purpose clock.
func HasClock(n int) bool {
	return n >= 0 && n < 64 && clkAlt[n] >= 0
}
