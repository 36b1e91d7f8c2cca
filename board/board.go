// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package board identifies the single board computer the process runs on.
//
// The identity is derived from the "Hardware" and "Revision" lines of
// /proc/cpuinfo.
package board

import "strconv"

// Family is the system-on-chip family. It selects the pin tables and the
// register layout.
type Family int

// Supported families.
const (
	UnknownFamily Family = iota
	// BCM2708 is the Broadcom BCM2835 used on the first generation Raspberry
	// Pi boards.
	BCM2708
	// BCM2709 is the Broadcom BCM2836 used on the Raspberry Pi 2.
	BCM2709
	// Sun6i is the Allwinner A31s used on the Banana Pi M2.
	Sun6i
)

func (f Family) String() string {
	switch f {
	case BCM2708:
		return "BCM2708"
	case BCM2709:
		return "BCM2709"
	case Sun6i:
		return "sun6i"
	default:
		return "Unknown"
	}
}

// IsBroadcom returns true for the Raspberry Pi families.
func (f Family) IsBroadcom() bool {
	return f == BCM2708 || f == BCM2709
}

// Type is the board model.
type Type int

// Board models, in the order historically reported by the gpio utility.
const (
	UnknownType Type = iota
	ModelA
	ModelB
	ModelBPlus
	ComputeModule
	ModelAPlus
	Model2
	ModelBM
)

var typeNames = [...]string{"Unknown", "Model A", "Model B", "Model B+", "Compute Module", "Model A+", "Model 2", "Model BM"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
	return typeNames[t]
}

// Version is the PCB revision of the board.
type Version int

// PCB revisions.
const (
	UnknownVersion Version = iota
	Version1
	Version1_1
	Version1_2
	Version2
)

var versionNames = [...]string{"Unknown", "1", "1.1", "1.2", "2"}

func (v Version) String() string {
	if v < 0 || int(v) >= len(versionNames) {
		return "Version(" + strconv.Itoa(int(v)) + ")"
	}
	return versionNames[v]
}

// Maker is the board manufacturer.
type Maker int

// Manufacturers.
const (
	UnknownMaker Maker = iota
	Egoman
	Sony
	Qisda
	MBest
	BPI
)

var makerNames = [...]string{"Unknown", "Egoman", "Sony", "Qusda", "MBest", "BPI"}

func (m Maker) String() string {
	if m < 0 || int(m) >= len(makerNames) {
		return "Maker(" + strconv.Itoa(int(m)) + ")"
	}
	return makerNames[m]
}

// Model is the identity of the board.
type Model struct {
	Family Family
	Type   Type
	// Revision selects the pin layout: 1 for the very first Raspberry Pi
	// Model B boards, 2 for everything else.
	Revision   int
	Version    Version
	MemoryMB   int
	Maker      Maker
	Overvolted bool
	// Code is the raw revision code, e.g. "000e".
	Code string
}

func (m *Model) String() string {
	return m.Family.String() + " " + m.Type.String() + " rev " + m.Version.String() + " (" + strconv.Itoa(m.MemoryMB) + "MB, " + m.Maker.String() + ")"
}

type revision struct {
	t     Type
	v     Version
	mem   int
	maker Maker
}

// revisions maps the last four characters of the cpuinfo revision code to
// the board details.
var revisions = map[string]revision{
	"0002": {ModelB, Version1, 256, Egoman},
	"0003": {ModelB, Version1_1, 256, Egoman},
	"0004": {ModelB, Version2, 256, Sony},
	"0005": {ModelB, Version2, 256, Qisda},
	"0006": {ModelB, Version2, 256, Egoman},
	"0007": {ModelA, Version2, 256, Egoman},
	"0008": {ModelA, Version2, 256, Sony},
	"0009": {ModelB, Version2, 256, Qisda},
	"000d": {ModelBM, Version1_2, 1024, BPI},
	"000e": {ModelB, Version2, 512, Sony},
	"000f": {ModelB, Version2, 512, Egoman},
	"0010": {ModelBPlus, Version1_2, 512, Sony},
	"0011": {ComputeModule, Version1_2, 512, Sony},
	"0012": {ModelAPlus, Version1_2, 256, Sony},
	"0013": {ModelBPlus, Version1_2, 512, MBest},
	"0014": {ComputeModule, Version1_2, 512, Sony},
	"0015": {ModelAPlus, Version1_2, 256, Sony},
	"0000": {ModelBM, Version1_2, 1024, BPI},
}
