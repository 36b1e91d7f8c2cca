// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package header

import (
	_ "embed"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/pin"
	"periph.io/x/conn/v3/pin/pinreg"

	"periph.io/x/wiring"
	"periph.io/x/wiring/board"
	"periph.io/x/wiring/pinmap"
)

// headersSpec lists the connectors of each board layout.
//
// Positions not listed in Power are GPIOs; their physical pin number is the
// position plus Offset.
//
//go:embed headers.json
var headersSpec []byte

type serializedHeader struct {
	Name   string
	Count  int
	Offset int
	Power  map[string]string
}

func getSerializedHeaders() (map[string][]serializedHeader, error) {
	var h map[string][]serializedHeader
	err := json.Unmarshal(headersSpec, &h)
	return h, err
}

var powerPins = map[string]pin.Pin{
	"V3_3":   pin.V3_3,
	"V5":     pin.V5,
	"GROUND": pin.GROUND,
	"DC_IN":  pin.DC_IN,
}

// Layout returns the name of the header layout of a board, or "" for boards
// without a fixed header.
func Layout(m *board.Model) string {
	switch {
	case m.Family == board.Sun6i:
		return "bpi-m2"
	case !m.Family.IsBroadcom(), m.Type == board.ComputeModule:
		return ""
	case m.Revision == 1:
		return "rpi-26"
	case m.Type == board.ModelA || m.Type == board.ModelB:
		return "rpi-26-p5"
	default:
		return "rpi-40"
	}
}

// Header is one connector of a board.
type Header struct {
	Name string
	// Rows are the pins two by two, pin 1 first.
	Rows [][]pin.Pin
}

// Headers returns the connectors of the board of c. Positions without a GPIO
// of c are gpio.INVALID.
func Headers(c *wiring.Context) ([]Header, error) {
	m := c.Board()
	spec, err := getSerializedHeaders()
	if err != nil {
		return nil, errors.Wrap(err, "header")
	}
	var out []Header
	for _, s := range spec[Layout(&m)] {
		h := Header{Name: s.Name}
		for pos := 1; pos <= s.Count; pos += 2 {
			row := []pin.Pin{at(c, s, pos)}
			if pos+1 <= s.Count {
				row = append(row, at(c, s, pos+1))
			}
			h.Rows = append(h.Rows, row)
		}
		out = append(out, h)
	}
	return out, nil
}

// Rows returns the headers of c as text, one line per pair of pins: the
// function and name of the odd pin, both positions, then the name and
// function of the even pin.
func Rows(c *wiring.Context) ([][]string, error) {
	headers, err := Headers(c)
	if err != nil {
		return nil, err
	}
	var out [][]string
	for _, h := range headers {
		for i, row := range h.Rows {
			line := []string{h.Name, function(row[0]), row[0].Name(), strconv.Itoa(2*i + 1)}
			if len(row) > 1 {
				line = append(line, strconv.Itoa(2*i+2), row[1].Name(), function(row[1]))
			}
			out = append(out, line)
		}
	}
	return out, nil
}

func function(p pin.Pin) string {
	if _, ok := p.(*wiring.Pin); !ok {
		return ""
	}
	return p.Function()
}

// at returns the pin at position pos of header s.
func at(c *wiring.Context, s serializedHeader, pos int) pin.Pin {
	if name, ok := s.Power[strconv.Itoa(pos)]; ok {
		if p, ok := powerPins[name]; ok {
			return p
		}
		return gpio.INVALID
	}
	n := c.PhysPinToGpio(pos + s.Offset)
	if n == pinmap.Unmapped {
		return gpio.INVALID
	}
	if p := pinAt(c, n); p != nil {
		return p
	}
	return gpio.INVALID
}

// Register registers the headers of c with pinreg and their GPIOs with
// gpioreg, plus an alias "WPI<n>" per logical pin.
func Register(c *wiring.Context) error {
	headers, err := Headers(c)
	if err != nil {
		return err
	}
	for _, h := range headers {
		for _, row := range h.Rows {
			for _, p := range row {
				if g, ok := p.(*wiring.Pin); ok {
					if err := gpioreg.Register(g); err != nil {
						return errors.Wrap(err, "header")
					}
				}
			}
		}
		if err := pinreg.Register(h.Name, h.Rows); err != nil {
			return errors.Wrap(err, "header")
		}
	}
	for i := range c.Tables().Logical {
		n := c.WpiPinToGpio(i)
		if n == pinmap.Unmapped {
			continue
		}
		p := pinAt(c, n)
		if p == nil || gpioreg.ByName(p.Name()) == nil {
			continue
		}
		if err := gpioreg.RegisterAlias("WPI"+strconv.Itoa(i), p.Name()); err != nil {
			return errors.Wrap(err, "header")
		}
	}
	return nil
}

// Unregister reverts Register.
func Unregister(c *wiring.Context) error {
	headers, err := Headers(c)
	if err != nil {
		return err
	}
	for i := range c.Tables().Logical {
		if c.WpiPinToGpio(i) != pinmap.Unmapped {
			// Aliases are only registered for pins on a header.
			_ = gpioreg.Unregister("WPI" + strconv.Itoa(i))
		}
	}
	for _, h := range headers {
		err = multierr.Append(err, pinreg.Unregister(h.Name))
		for _, row := range h.Rows {
			for _, p := range row {
				if g, ok := p.(*wiring.Pin); ok {
					err = multierr.Append(err, gpioreg.Unregister(g.Name()))
				}
			}
		}
	}
	return err
}

// pinAt returns the Pin of a native pin, translated to the kernel number
// with sysfs numbering.
func pinAt(c *wiring.Context, native int) *wiring.Pin {
	if c.Scheme() == pinmap.SysFs {
		k, ok := c.Tables().Kernel(native)
		if !ok {
			return nil
		}
		native = k
	}
	return c.Pin(native)
}
