// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !linux

package chardev

import (
	"unsafe"

	"github.com/pkg/errors"
)

var errUnsupported = errors.New("chardev: GPIO character devices are only supported on linux")

type sysKernel struct{}

func (sysKernel) open(path string) (int, error) {
	return -1, errUnsupported
}

func (sysKernel) ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	return errUnsupported
}

func (sysKernel) close(fd int) error {
	return errUnsupported
}
