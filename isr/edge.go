// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package isr

import (
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"

	"periph.io/x/wiring/sysfs"
)

// ErrNoHelper is returned when the gpio helper program cannot be found.
var ErrNoHelper = errors.New("isr: can't find the gpio program")

// HelperPaths are searched in order for the gpio helper program.
var HelperPaths = []string{"/usr/local/bin/gpio", "/usr/bin/gpio"}

// HelperProgram sets edges by running "gpio edge <n> <edge>".
//
// The helper is setuid root on a standard installation, so it works for a
// process without access to the sysfs export file.
type HelperProgram struct {
	// Command overrides the program and its leading arguments.
	Command []string
}

// ParseCommand splits a shell-like command line into a HelperProgram.
func ParseCommand(s string) (*HelperProgram, error) {
	args, err := shlex.Split(s)
	if err != nil {
		return nil, errors.Wrapf(err, "isr: invalid helper command %q", s)
	}
	if len(args) == 0 {
		return &HelperProgram{}, nil
	}
	return &HelperProgram{Command: args}, nil
}

func (h *HelperProgram) String() string {
	if len(h.Command) != 0 {
		return strings.Join(h.Command, " ")
	}
	return "gpio"
}

func (h *HelperProgram) command() ([]string, error) {
	if len(h.Command) != 0 {
		return h.Command, nil
	}
	for _, p := range HelperPaths {
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() && fi.Mode()&0111 != 0 {
			return []string{p}, nil
		}
	}
	return nil, ErrNoHelper
}

// SetEdge implements EdgeSetter.
func (h *HelperProgram) SetEdge(n int, e gpio.Edge) error {
	cmd, err := h.command()
	if err != nil {
		return err
	}
	args := append(append([]string{}, cmd[1:]...), "edge", strconv.Itoa(n), sysfs.EdgeName(e))
	if out, err := exec.Command(cmd[0], args...).CombinedOutput(); err != nil {
		return errors.Wrapf(err, "isr: %s %s: %s", cmd[0], strings.Join(args, " "), strings.TrimSpace(string(out)))
	}
	return nil
}

// SysfsEdge sets edges by exporting the pin and writing its edge file.
type SysfsEdge struct {
	Root string
}

// SetEdge implements EdgeSetter.
func (s SysfsEdge) SetEdge(n int, e gpio.Edge) error {
	root := s.Root
	if root == "" {
		root = sysfs.Root
	}
	if err := sysfs.Export(root, n); err != nil {
		return err
	}
	p, err := sysfs.Open(root, n)
	if err != nil {
		return err
	}
	defer p.Close()
	if err := p.SetDirection(false); err != nil {
		return err
	}
	return p.SetEdge(e)
}

var (
	_ EdgeSetter = &HelperProgram{}
	_ EdgeSetter = SysfsEdge{}
	_ Source     = SysfsSource{}
	_ Notifier   = &sysfs.Pin{}
)
