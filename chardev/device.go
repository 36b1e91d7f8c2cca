// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package chardev

import (
	"path/filepath"
	"sort"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"

	"periph.io/x/wiring/mode"
	"periph.io/x/wiring/node"
)

// Consumer is the label the kernel shows for the lines requested by Device.
const Consumer = "wiring"

// ErrMode is returned for modes other than input and output.
var ErrMode = errors.New("chardev: unsupported mode")

// Chips returns the GPIO character devices under dir, usually /dev.
func Chips(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "gpiochip*"))
	if err != nil {
		return nil, errors.Wrap(err, "chardev")
	}
	sort.Strings(paths)
	return paths, nil
}

// line is a requested line.
type line struct {
	fd    int
	flags uint64
}

// Device is a node.Device over the lines of one GPIO chip. Pin i is line
// offset i.
type Device struct {
	node.Nop

	path  string
	name  string
	label string
	count int

	k   kernel
	log logrus.FieldLogger

	mu    sync.Mutex
	fd    int
	lines map[int]*line
	pulls map[int]gpio.Pull
}

// Open opens a GPIO chip, e.g. "/dev/gpiochip0".
func Open(path string, log logrus.FieldLogger) (*Device, error) {
	return open(sysKernel{}, path, log)
}

func open(k kernel, path string, log logrus.FieldLogger) (*Device, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	fd, err := k.open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "chardev: opening %s", path)
	}
	var info chipInfo
	if err := k.ioctl(fd, reqChipInfo, unsafe.Pointer(&info)); err != nil {
		_ = k.close(fd)
		return nil, errors.Wrapf(err, "chardev: %s", path)
	}
	d := &Device{
		path:  path,
		name:  cString(info.name[:]),
		label: cString(info.label[:]),
		count: int(info.lines),
		k:     k,
		fd:    fd,
		lines: map[int]*line{},
		pulls: map[int]gpio.Pull{},
	}
	if d.label == "" {
		d.label = d.name
	}
	d.log = log.WithField("chip", d.name)
	d.log.Debugf("chardev: %s has %d lines", d.label, d.count)
	return d, nil
}

func (d *Device) String() string {
	return d.name + "(" + d.label + ")"
}

// Name returns the kernel name of the chip, e.g. "gpiochip0".
func (d *Device) Name() string {
	return d.name
}

// Label returns the label of the chip, e.g. "pinctrl-bcm2835".
func (d *Device) Label() string {
	return d.label
}

// Lines returns the number of lines, the pin count of the node.
func (d *Device) Lines() int {
	return d.count
}

// Close releases the requested lines and the chip.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var err error
	for i, l := range d.lines {
		err = multierr.Append(err, d.k.close(l.fd))
		delete(d.lines, i)
	}
	if d.fd >= 0 {
		err = multierr.Append(err, d.k.close(d.fd))
		d.fd = -1
	}
	return err
}

// SetMode implements node.Device. Only Input and Output are supported.
func (d *Device) SetMode(i int, m mode.Mode) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch m {
	case mode.Input:
		return d.configure(i, flagInput|bias(d.pulls[i]))
	case mode.Output:
		return d.configure(i, flagOutput|bias(d.pulls[i]))
	default:
		return errors.Wrapf(ErrMode, "%s line %d: %s", d, i, m)
	}
}

// SetPull implements node.Device. A line not yet requested is requested as
// an input.
func (d *Device) SetPull(i int, p gpio.Pull) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p == gpio.PullNoChange {
		return nil
	}
	d.pulls[i] = p
	dir := flagInput
	if l := d.lines[i]; l != nil {
		dir = l.flags & (flagInput | flagOutput)
	}
	return d.configure(i, dir|bias(p))
}

// DigitalRead implements node.Device. Errors read Low.
func (d *Device) DigitalRead(i int) gpio.Level {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, err := d.request(i, flagInput|bias(d.pulls[i]))
	if err != nil {
		d.log.WithField("pin", i).Debug(err)
		return gpio.Low
	}
	v := lineValues{mask: 1}
	if err := d.k.ioctl(l.fd, reqGetValues, unsafe.Pointer(&v)); err != nil {
		d.log.WithField("pin", i).Debug(d.wrap(i, err))
		return gpio.Low
	}
	return gpio.Level(v.bits&1 != 0)
}

// DigitalWrite implements node.Device. The line is switched to output if
// needed.
func (d *Device) DigitalWrite(i int, lvl gpio.Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	l := d.lines[i]
	if l == nil || l.flags&flagOutput == 0 {
		if err := d.configure(i, flagOutput|bias(d.pulls[i])); err != nil {
			return err
		}
		l = d.lines[i]
	}
	v := lineValues{mask: 1}
	if lvl {
		v.bits = 1
	}
	return d.wrap(i, d.k.ioctl(l.fd, reqSetValues, unsafe.Pointer(&v)))
}

// configure requests line i with flags, or changes the flags of an already
// requested line.
//
// d.mu must be held.
func (d *Device) configure(i int, flags uint64) error {
	l := d.lines[i]
	if l == nil {
		_, err := d.request(i, flags)
		return err
	}
	if l.flags == flags {
		return nil
	}
	c := lineConfig{flags: flags}
	if err := d.k.ioctl(l.fd, reqLineConfig, unsafe.Pointer(&c)); err != nil {
		return d.wrap(i, err)
	}
	l.flags = flags
	return nil
}

// request returns line i, requesting it with flags if needed.
//
// d.mu must be held.
func (d *Device) request(i int, flags uint64) (*line, error) {
	if l := d.lines[i]; l != nil {
		return l, nil
	}
	if i < 0 || i >= d.count {
		return nil, errors.Errorf("chardev: %s has no line %d", d, i)
	}
	if d.fd < 0 {
		return nil, errors.Errorf("chardev: %s is closed", d)
	}
	r := lineRequest{numLines: 1}
	r.offsets[0] = uint32(i)
	copy(r.consumer[:], Consumer)
	r.config.flags = flags
	if err := d.k.ioctl(d.fd, reqLine, unsafe.Pointer(&r)); err != nil {
		return nil, d.wrap(i, err)
	}
	l := &line{fd: int(r.fd), flags: flags}
	d.lines[i] = l
	d.log.WithField("pin", i).Debug("chardev: line requested")
	return l, nil
}

func (d *Device) wrap(i int, err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "chardev (%s line %d)", d, i)
}

func bias(p gpio.Pull) uint64 {
	switch p {
	case gpio.PullUp:
		return flagBiasPullUp
	case gpio.PullDown:
		return flagBiasPullDown
	case gpio.Float:
		return flagBiasDisabled
	default:
		return 0
	}
}

var _ node.Device = &Device{}
