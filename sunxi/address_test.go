// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sunxi

import (
	"os"
	"path"
	"testing"
)

func createDirs(t *testing.T, root string, dirs ...string) string {
	for _, dir := range dirs {
		if err := os.MkdirAll(path.Join(root, dir), os.ModePerm); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func createFiles(t *testing.T, root string, paths ...string) string {
	for _, p := range paths {
		if file, err := os.Create(path.Join(root, p)); err != nil {
			t.Fatal(err)
		} else {
			file.Close()
		}
	}
	return root
}

func TestBaseAddresses_default(t *testing.T) {
	gpio, lm := BaseAddresses("/dev/null")
	if gpio != DefaultGPIOBase || lm != DefaultLMBase {
		t.Errorf("BaseAddresses() = %#x, %#x", gpio, lm)
	}
}

func TestBaseAddresses(t *testing.T) {
	root := t.TempDir()
	createDirs(t, root,
		"sun6i-a31s-pinctrl/bind",
		"sun6i-a31-r-pinctrl",
		"sun8i-h3-pinctrl",
	)
	createFiles(t, root,
		"sun6i-a31s-pinctrl/1c21000.pinctrl",
		"sun6i-a31-r-pinctrl/uevent",
		"sun8i-h3-pinctrl/1c20800.pinctrl",
	)
	gpio, lm := BaseAddresses(root)
	if gpio != 0x1c21000 {
		t.Errorf("gpio = %#x", gpio)
	}
	if lm != DefaultLMBase {
		t.Errorf("lm = %#x", lm)
	}
}

func TestExtractBaseAddress(t *testing.T) {
	if a, ok := extractBaseAddress("1f02c00.pinctrl"); !ok || a != 0x1f02c00 {
		t.Errorf("got %#x, %t", a, ok)
	}
	for _, bad := range []string{"uevent", "zz.pinctrl", "1f02c00.pwm"} {
		if _, ok := extractBaseAddress(bad); ok {
			t.Errorf("extractBaseAddress(%q) must fail", bad)
		}
	}
}
