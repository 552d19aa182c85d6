// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcdflags holds the command line flags selecting and opening a
// display, shared by the commands.
package lcdflags

import (
	"errors"
	"flag"
	"fmt"
	"strconv"

	"github.com/GermanBionicSystems/charlcd/hd44780"
	"github.com/GermanBionicSystems/charlcd/hd44780/hd44780sim"
	"github.com/GermanBionicSystems/charlcd/pcf857x"
	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// Flags describes the display.
type Flags struct {
	Bus       string
	Addr      string
	Rows      int
	Cols      int
	Font      string
	Pins      string
	Backlight bool
	Sim       bool
}

// Register adds the flags to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Bus, "bus", "", "I²C bus to use")
	fs.StringVar(&f.Addr, "addr", "0x27", "I²C address of the backpack")
	fs.IntVar(&f.Rows, "rows", 2, "number of rows")
	fs.IntVar(&f.Cols, "cols", 16, "number of columns")
	fs.StringVar(&f.Font, "font", "5x8", "font, 5x8 or 5x10")
	fs.StringVar(&f.Pins, "pins", "default", "backpack wiring: default, mjkdz or rs=0,rw=1,en=2,bl=3,d4=4,d5=5,d6=6,d7=7")
	fs.BoolVar(&f.Backlight, "backlight", true, "turn the backlight on")
	fs.BoolVar(&f.Sim, "sim", false, "use a simulated display instead of the I²C bus")
}

// Address parses the address flag.
func (f *Flags) Address() (uint16, error) {
	a, err := strconv.ParseUint(f.Addr, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid -addr %q: %w", f.Addr, err)
	}
	if !pcf857x.ValidAddress(uint16(a)) {
		return 0, fmt.Errorf("invalid -addr %q: %w", f.Addr, pcf857x.ErrAddress)
	}
	return uint16(a), nil
}

// Geometry returns the panel selected by the flags.
func (f *Flags) Geometry() (hd44780.Geometry, error) {
	var g hd44780.Geometry
	switch f.Font {
	case "5x8":
		lines := hd44780.OneLine
		if f.Rows > 1 {
			lines = hd44780.TwoLines
		}
		g = hd44780.NewGeometry(f.Rows, f.Cols, lines)
	case "5x10":
		g = hd44780.NewGeometry5x10(f.Rows, f.Cols)
	default:
		return g, fmt.Errorf("invalid -font %q", f.Font)
	}
	return g, g.Validate()
}

// Bus is an open bus and, with -sim, the simulator behind it.
type Bus struct {
	pcf857x.Bus
	Sim    *hd44780sim.LCD
	closer i2c.BusCloser
}

// Close releases the bus.
func (b *Bus) Close() error {
	if b.closer != nil {
		return b.closer.Close()
	}
	return nil
}

// OpenBus opens the I²C bus, or creates the simulator.
func (f *Flags) OpenBus() (*Bus, error) {
	addr, err := f.Address()
	if err != nil {
		return nil, err
	}
	if f.Sim {
		pins, err := hd44780.ParsePinMap(f.Pins)
		if err != nil {
			return nil, err
		}
		sim := hd44780sim.New(addr, Wiring(pins))
		return &Bus{Bus: sim, Sim: sim}, nil
	}
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	b, err := i2creg.Open(f.Bus)
	if err != nil {
		return nil, fmt.Errorf("failed to open I²C: %w", err)
	}
	return &Bus{Bus: b, closer: b}, nil
}

// Open initializes the display on bus.
func (f *Flags) Open(bus *Bus, log logrus.FieldLogger) (*hd44780.Dev, error) {
	if bus == nil {
		return nil, errors.New("no bus")
	}
	addr, err := f.Address()
	if err != nil {
		return nil, err
	}
	g, err := f.Geometry()
	if err != nil {
		return nil, err
	}
	pins, err := hd44780.ParsePinMap(f.Pins)
	if err != nil {
		return nil, err
	}
	enc, err := hd44780.EncoderFor(pins)
	if err != nil {
		return nil, err
	}
	t, err := hd44780.NewBackpack(bus.Bus, addr, &hd44780.BackpackOpts{
		Encoder:      enc,
		BacklightOff: !f.Backlight,
		Logger:       log,
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"transport": t.String(), "geometry": g.String(), "pins": pins.String()}).Debug("opening display")
	return hd44780.New(t, g)
}

// Wiring converts a pin map to the simulator's port masks.
func Wiring(m hd44780.PinMap) hd44780sim.Wiring {
	return hd44780sim.Wiring{
		RS:  1 << m.RS,
		RNW: 1 << m.RNW,
		EN:  1 << m.EN,
		BL:  1 << m.BL,
		D:   [4]byte{1 << m.D4, 1 << m.D5, 1 << m.D6, 1 << m.D7},
	}
}

// Logger returns a logrus logger on stderr, at debug level when verbose is
// set.
func Logger(verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(colorable.NewColorableStderr())
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}
