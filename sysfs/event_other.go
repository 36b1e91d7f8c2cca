// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !linux

package sysfs

import "github.com/pkg/errors"

func pending(f fileIO) int {
	return -1
}

func pollPri(fd uintptr, ms int) (bool, error) {
	return false, errors.New("sysfs-gpio: edge detection is only supported on linux")
}

func isErrBusy(err error) bool {
	return false
}

func isErrInterrupted(err error) bool {
	return false
}
