// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"io"
	"os"
)

type fileIO interface {
	io.ReadWriteSeeker
	io.Closer
	Fd() uintptr
}

// fileIOOpen is replaced in tests.
var fileIOOpen = func(path string, flag int) (fileIO, error) {
	f, err := os.OpenFile(path, flag, 0600)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// seekRead seeks to the beginning of a file and reads it.
func seekRead(f io.ReadSeeker, b []byte) (int, error) {
	if _, err := f.Seek(0, 0); err != nil {
		return 0, err
	}
	return f.Read(b)
}

// seekWrite seeks to the beginning of a file and writes to it.
func seekWrite(f io.WriteSeeker, b []byte) error {
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	_, err := f.Write(b)
	return err
}

func isEOF(err error) bool {
	return err == io.EOF
}
