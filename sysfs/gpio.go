// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sysfs accesses pins through the kernel GPIO sysfs interface.
//
// It is the only way to receive edge interrupts without a kernel driver and
// the only way to drive pins without root access.
//
// See https://www.kernel.org/doc/Documentation/gpio/sysfs.txt
package sysfs

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// Root is where the kernel exposes the GPIO sysfs interface.
const Root = "/sys/class/gpio"

// Pin is one exported GPIO.
//
// Read, Drain and Wait are lockless since they are called in a busy loop.
type Pin struct {
	number int
	root   string // Something like /sys/class/gpio/gpio17/

	mu     sync.Mutex
	fValue fileIO // handle to value; closed by Close
	fEdge  fileIO // handle to edge, opened on first use
	fDir   fileIO // handle to direction, opened on first use
	buf    [4]byte
}

// Open opens the value file of a pin that was already exported.
func Open(root string, n int) (*Pin, error) {
	p := &Pin{number: n, root: filepath.Join(root, "gpio"+strconv.Itoa(n))}
	f, err := fileIOOpen(filepath.Join(p.root, "value"), os.O_RDWR)
	if err != nil {
		if os.IsPermission(err) {
			return nil, p.wrap(errors.Wrap(err, "need more access, try as root or setup udev rules"))
		}
		return nil, p.wrap(err)
	}
	p.fValue = f
	return p, nil
}

// Export asks the kernel to export pin n. A pin already exported is not an
// error.
func Export(root string, n int) error {
	f, err := fileIOOpen(filepath.Join(root, "export"), os.O_WRONLY)
	if err != nil {
		return errors.Wrap(err, "sysfs-gpio: export")
	}
	defer f.Close()
	if _, err := f.Write([]byte(strconv.Itoa(n))); err != nil && !isErrBusy(err) {
		return errors.Wrapf(err, "sysfs-gpio: export %d", n)
	}
	return nil
}

// OpenAll opens the value files of the given pins, keyed by pin number.
//
// Pins that cannot be opened are left out of the map and their errors are
// combined in the returned error.
func OpenAll(root string, numbers []int) (map[int]*Pin, error) {
	pins := make(map[int]*Pin, len(numbers))
	var errs error
	for _, n := range numbers {
		p, err := Open(root, n)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		pins[n] = p
	}
	return pins, errs
}

// String implements conn.Resource.
func (p *Pin) String() string {
	return "GPIO" + strconv.Itoa(p.number)
}

// Number returns the kernel GPIO number.
func (p *Pin) Number() int {
	return p.number
}

// Halt implements conn.Resource.
//
// It stops edge detection if enabled.
func (p *Pin) Halt() error {
	return p.SetEdge(gpio.NoEdge)
}

// Close closes all the open handles.
func (p *Pin) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var err error
	for _, f := range []*fileIO{&p.fValue, &p.fEdge, &p.fDir} {
		if *f != nil {
			err = multierr.Append(err, (*f).Close())
			*f = nil
		}
	}
	return err
}

// Read returns the current level.
func (p *Pin) Read() gpio.Level {
	var b [4]byte
	if p.fValue == nil {
		return gpio.Low
	}
	if _, err := seekRead(p.fValue, b[:]); err != nil {
		return gpio.Low
	}
	return gpio.Level(b[0] == '1')
}

// Out writes the level. The pin must already be an output.
func (p *Pin) Out(l gpio.Level) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l {
		p.buf[0] = '1'
	} else {
		p.buf[0] = '0'
	}
	if err := seekWrite(p.fValue, p.buf[:1]); err != nil {
		return p.wrap(err)
	}
	return nil
}

// SetDirection switches the pin to input or output.
func (p *Pin) SetDirection(out bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.openAttr(&p.fDir, "direction"); err != nil {
		return err
	}
	b := bIn
	if out {
		b = bOut
	}
	if err := seekWrite(p.fDir, b); err != nil {
		return p.wrap(err)
	}
	return nil
}

// SetEdge selects the edges that wake up Wait. gpio.NoEdge disables them.
func (p *Pin) SetEdge(e gpio.Edge) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.openAttr(&p.fEdge, "edge"); err != nil {
		return err
	}
	var b []byte
	switch e {
	case gpio.NoEdge:
		b = bNone
	case gpio.RisingEdge:
		b = bRising
	case gpio.FallingEdge:
		b = bFalling
	case gpio.BothEdges:
		b = bBoth
	default:
		return p.wrap(errors.Errorf("invalid edge %d", e))
	}
	if err := seekWrite(p.fEdge, b); err != nil {
		return p.wrap(err)
	}
	return nil
}

// Drain discards the pending edge notification.
func (p *Pin) Drain() error {
	if p.fValue == nil {
		return p.wrap(errors.New("not open"))
	}
	n := pending(p.fValue)
	if n <= 0 || n > 64 {
		n = 64
	}
	b := make([]byte, n)
	if _, err := p.fValue.Read(b); err != nil && !isEOF(err) {
		return p.wrap(err)
	}
	if _, err := p.fValue.Seek(0, 0); err != nil {
		return p.wrap(err)
	}
	return nil
}

// Wait blocks until an edge occurs or timeout expires.
//
// A negative timeout waits forever. It returns true on an edge and false on
// timeout. The notification is consumed before returning.
func (p *Pin) Wait(timeout time.Duration) (bool, error) {
	if p.fValue == nil {
		return false, p.wrap(errors.New("not open"))
	}
	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
	}
	start := time.Now()
	for {
		ok, err := pollPri(p.fValue.Fd(), ms)
		if err == nil {
			if !ok {
				return false, nil
			}
			var b [1]byte
			_, _ = p.fValue.Read(b[:])
			if _, err := p.fValue.Seek(0, 0); err != nil {
				return true, p.wrap(err)
			}
			return true, nil
		}
		if !isErrInterrupted(err) {
			return false, p.wrap(err)
		}
		// A signal occurred.
		if timeout >= 0 {
			if ms = int((timeout - time.Since(start)) / time.Millisecond); ms <= 0 {
				return false, nil
			}
		}
	}
}

// openAttr opens an attribute file of the pin.
//
// lock must be held.
func (p *Pin) openAttr(f *fileIO, name string) error {
	if *f != nil {
		return nil
	}
	h, err := fileIOOpen(filepath.Join(p.root, name), os.O_RDWR)
	if err != nil {
		return p.wrap(err)
	}
	*f = h
	return nil
}

func (p *Pin) wrap(err error) error {
	return errors.Wrapf(err, "sysfs-gpio (%s)", p)
}

//

var (
	bIn      = []byte("in")
	bOut     = []byte("out")
	bNone    = []byte("none")
	bRising  = []byte("rising")
	bFalling = []byte("falling")
	bBoth    = []byte("both")
)

// EdgeName returns the word the kernel uses for an edge.
func EdgeName(e gpio.Edge) string {
	switch e {
	case gpio.RisingEdge:
		return string(bRising)
	case gpio.FallingEdge:
		return string(bFalling)
	case gpio.BothEdges:
		return string(bBoth)
	default:
		return string(bNone)
	}
}

var _ conn.Resource = &Pin{}
