// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package board

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// CPUInfo is the default location of the board information file.
const CPUInfo = "/proc/cpuinfo"

// ErrUnknownHardware is returned when the Hardware line names a SoC that is
// not supported.
var ErrUnknownHardware = errors.New("board: unknown hardware")

// DetectFile parses the cpuinfo file at path.
func DetectFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "board: unable to determine board revision")
	}
	defer f.Close()
	return Detect(f)
}

// Detect parses a cpuinfo formatted text.
func Detect(r io.Reader) (*Model, error) {
	var hardware, rev string
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := s.Text()
		switch {
		case strings.HasPrefix(line, "Hardware") && hardware == "":
			hardware = value(line)
		case strings.HasPrefix(line, "Revision") && rev == "":
			rev = value(line)
		}
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "board")
	}
	if hardware == "" {
		return nil, errors.New("board: no \"Hardware\" line")
	}

	m := &Model{}
	switch {
	case strings.Contains(hardware, "sun6i"):
		m.Family = Sun6i
	case strings.Contains(hardware, "BCM2709"):
		m.Family = BCM2709
	case strings.Contains(hardware, "BCM2708"):
		m.Family = BCM2708
	default:
		return nil, errors.Wrapf(ErrUnknownHardware, "%q, expecting BCM2708, BCM2709 or sun6i", hardware)
	}

	switch m.Family {
	case Sun6i:
		// Allwinner kernels often omit the revision; the only supported board
		// is the Banana Pi M2.
		m.Type, m.Version, m.MemoryMB, m.Maker = ModelBM, Version1_2, 1024, BPI
		m.Revision = 2
		if code, over, err := parseRevision(rev); err == nil {
			m.Code, m.Overvolted = code, over
		}
		return m, nil
	case BCM2709:
		if rev == "" {
			return nil, errors.New("board: no \"Revision\" line")
		}
		m.Type, m.Version, m.MemoryMB, m.Maker = Model2, Version1_1, 1024, Sony
		m.Revision = 2
		m.Code = rev
		return m, nil
	}

	code, over, err := parseRevision(rev)
	if err != nil {
		return nil, err
	}
	m.Code, m.Overvolted = code, over
	if code == "0002" || code == "0003" {
		m.Revision = 1
	} else {
		m.Revision = 2
	}
	if r, ok := revisions[code]; ok {
		m.Type, m.Version, m.MemoryMB, m.Maker = r.t, r.v, r.mem, r.maker
	}
	return m, nil
}

// parseRevision returns the last four characters of the revision code.
//
// A longer code means the board has been overvolted: the firmware prefixes
// the code with 1000.
func parseRevision(rev string) (string, bool, error) {
	if rev == "" {
		return "", false, errors.New("board: no \"Revision\" line")
	}
	i := strings.IndexAny(rev, "0123456789")
	if i == -1 {
		return "", false, errors.New("board: no numeric revision string")
	}
	c := rev[i:]
	if len(c) < 4 {
		return "", false, errors.Errorf("board: bogus \"Revision\" line %q (too small)", rev)
	}
	return c[len(c)-4:], len(c) > 4, nil
}

func value(line string) string {
	i := strings.IndexByte(line, ':')
	if i == -1 {
		return ""
	}
	return strings.TrimSpace(line[i+1:])
}
