// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wiring

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"periph.io/x/wiring/bcm283x"
	"periph.io/x/wiring/node"
)

// severity classifies a failure.
type severity int

const (
	// silent failures are logged at debug level and ignored.
	silent severity = iota
	// fatal failures exit the process unless ReturnCodes is set.
	fatal
	// always failures exit the process.
	always
)

// fail applies the failure policy to err.
//
// When the logger exit function returns, as in tests, the error is returned.
func fail(log *logrus.Logger, returnCodes bool, sev severity, err error) error {
	switch {
	case err == nil:
		return nil
	case sev == silent:
		log.Debug(err)
		return nil
	case sev == fatal && returnCodes:
		log.Debug(err)
		return err
	default:
		log.Fatal(err)
		return err
	}
}

func (c *Context) fail(sev severity, err error) error {
	return fail(c.log, c.opts.ReturnCodes, sev, err)
}

// hwFail applies the failure policy to an error returned by a register
// model or a node.
func (c *Context) hwFail(err error) error {
	if err == nil {
		return nil
	}
	sev := fatal
	if isUnrecoverable(err) {
		sev = always
	}
	return c.fail(sev, err)
}

func isUnrecoverable(err error) bool {
	return errors.Is(err, bcm283x.ErrNoResponse) ||
		errors.Is(err, node.ErrOverlap) ||
		errors.Is(err, node.ErrReservedBase)
}
