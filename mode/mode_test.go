// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mode

import "testing"

func TestString(t *testing.T) {
	data := []struct {
		m    Mode
		want string
	}{
		{Unset, "Unset"},
		{Output, "Output"},
		{SoftToneOutput, "SoftToneOutput"},
		{SPI, "SPI"},
		{Mode(42), "Mode(42)"},
		{Mode(-1), "Mode(-1)"},
	}
	for _, line := range data {
		if s := line.m.String(); s != line.want {
			t.Errorf("%d: got %q, want %q", int(line.m), s, line.want)
		}
	}
	if s := Balanced.String(); s != "Balanced" {
		t.Fatal(s)
	}
	if s := MarkSpace.String(); s != "MarkSpace" {
		t.Fatal(s)
	}
}
