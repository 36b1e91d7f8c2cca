// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package chardev

import "unsafe"

// From asm-generic/ioctl.h.
const (
	iocWrite = 1
	iocRead  = 2

	iocNRShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30
)

func ioc(dir, nr, size uintptr) uintptr {
	return dir<<iocDirShift | 0xB4<<iocTypeShift | nr<<iocNRShift | size<<iocSizeShift
}

// From linux/gpio.h, version 2 of the line API.
const (
	maxNameSize  = 32
	maxLineAttrs = 10
	maxLines     = 64

	flagInput        uint64 = 1 << 2
	flagOutput       uint64 = 1 << 3
	flagBiasPullUp   uint64 = 1 << 8
	flagBiasPullDown uint64 = 1 << 9
	flagBiasDisabled uint64 = 1 << 10
)

type chipInfo struct {
	name  [maxNameSize]byte
	label [maxNameSize]byte
	lines uint32
}

type lineAttribute struct {
	id      uint32
	padding uint32
	value   uint64
}

type lineConfigAttribute struct {
	attr lineAttribute
	mask uint64
}

type lineConfig struct {
	flags    uint64
	numAttrs uint32
	padding  [5]uint32
	attrs    [maxLineAttrs]lineConfigAttribute
}

type lineRequest struct {
	offsets         [maxLines]uint32
	consumer        [maxNameSize]byte
	config          lineConfig
	numLines        uint32
	eventBufferSize uint32
	padding         [5]uint32
	fd              int32
}

type lineValues struct {
	bits uint64
	mask uint64
}

var (
	reqChipInfo   = ioc(iocRead, 0x01, unsafe.Sizeof(chipInfo{}))
	reqLine       = ioc(iocRead|iocWrite, 0x07, unsafe.Sizeof(lineRequest{}))
	reqLineConfig = ioc(iocRead|iocWrite, 0x0D, unsafe.Sizeof(lineConfig{}))
	reqGetValues  = ioc(iocRead|iocWrite, 0x0E, unsafe.Sizeof(lineValues{}))
	reqSetValues  = ioc(iocRead|iocWrite, 0x0F, unsafe.Sizeof(lineValues{}))
)

// kernel is the system call surface used by Device.
type kernel interface {
	open(path string) (int, error)
	ioctl(fd int, req uintptr, arg unsafe.Pointer) error
	close(fd int) error
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
