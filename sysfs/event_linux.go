// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// pending returns the number of bytes available to read, or -1.
func pending(f fileIO) int {
	n, err := unix.IoctlGetInt(int(f.Fd()), unix.TIOCINQ) // TIOCINQ is FIONREAD on Linux.
	if err != nil {
		return -1
	}
	return n
}

// pollPri waits for an exceptional condition, which is how the kernel signals
// an edge on a value file.
func pollPri(fd uintptr, ms int) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLPRI}}
	n, err := unix.Poll(fds, ms)
	if err != nil {
		return false, err
	}
	return n > 0 && fds[0].Revents&(unix.POLLPRI|unix.POLLERR) != 0, nil
}

func isErrBusy(err error) bool {
	return errors.Is(err, unix.EBUSY)
}

func isErrInterrupted(err error) bool {
	return errors.Is(err, unix.EINTR)
}
