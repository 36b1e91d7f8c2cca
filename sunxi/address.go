// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sunxi

import (
	"os"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// DriverDir is where the kernel lists the platform drivers.
const DriverDir = "/sys/bus/platform/drivers"

var (
	reMainPinctrl = regexp.MustCompile(`^sun6i-a31s?-pinctrl$`)
	reRPinctrl    = regexp.MustCompile(`^sun6i-a31-r-pinctrl$`)
)

// BaseAddresses queries the virtual file system to retrieve the base address
// of the port controller registers for banks PA to PH, and of the R_PIO
// controller for banks PL and PM.
//
// Each defaults to the datasheet address if it could not query the file
// system.
func BaseAddresses(driverDir string) (gpio, lm uint64) {
	gpio, lm = DefaultGPIOBase, DefaultLMBase
	items, err := os.ReadDir(driverDir)
	if err != nil {
		return gpio, lm
	}
	if a, ok := baseAddressFromDirItems(driverDir, items, reMainPinctrl); ok {
		gpio = a
	}
	if a, ok := baseAddressFromDirItems(driverDir, items, reRPinctrl); ok {
		lm = a
	}
	return gpio, lm
}

func baseAddressFromDirItems(root string, items []os.DirEntry, re *regexp.Regexp) (uint64, bool) {
	for _, item := range items {
		if !item.IsDir() || !re.MatchString(item.Name()) {
			continue
		}
		if ret, ok := extractBaseAddressFromDriverDir(path.Join(root, item.Name())); ok {
			return ret, true
		}
	}
	return 0, false
}

// extractBaseAddressFromDriverDir looks for the device bound to the driver,
// e.g. "1c20800.pinctrl".
func extractBaseAddressFromDriverDir(dir string) (uint64, bool) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return 0, false
	}
	for _, item := range items {
		if address, ok := extractBaseAddress(item.Name()); ok {
			return address, ok
		}
	}
	return 0, false
}

func extractBaseAddress(name string) (uint64, bool) {
	if !strings.HasSuffix(name, ".pinctrl") {
		return 0, false
	}
	prefix := name[:len(name)-len(".pinctrl")]
	address, err := strconv.ParseUint(prefix, 16, 64)
	if err != nil {
		return 0, false
	}
	return address, true
}
