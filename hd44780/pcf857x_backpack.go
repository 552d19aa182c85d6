// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"
	"io"
	"time"

	"github.com/GermanBionicSystems/charlcd/pcf857x"
	"github.com/sirupsen/logrus"
)

// BackpackOpts configures a Backpack. The zero value selects the common
// backpack wiring, time.Sleep and the backlight on.
type BackpackOpts struct {
	// Encoder maps the signals to the port bits. Defaults to DefaultEncoder.
	Encoder Encoder
	// Delay replaces time.Sleep.
	Delay func(time.Duration)
	// BacklightOff starts with the backlight line low.
	BacklightOff bool
	// Logger receives debug traces. Silent when nil.
	Logger logrus.FieldLogger
}

// Backpack drives an HD44780 in 4-bit mode through a PCF8574 I2C expander.
//
// # Product Information
//
// https://www.handsontec.com/dataspecs/I2C_2004_LCD.pdf
type Backpack struct {
	dev       *pcf857x.Dev
	enc       Encoder
	delay     func(time.Duration)
	log       logrus.FieldLogger
	backlight bool
	fourBit   bool
}

// NewBackpack returns the protocol driver for the backpack at address on bus.
// It doesn't touch the device; call Init, or use New which does.
func NewBackpack(bus pcf857x.Bus, address uint16, opts *BackpackOpts) (*Backpack, error) {
	if opts == nil {
		opts = &BackpackOpts{}
	}
	dev, err := pcf857x.New(bus, address)
	if err != nil {
		return nil, wrap(err)
	}
	b := &Backpack{
		dev:       dev,
		enc:       opts.Encoder,
		delay:     opts.Delay,
		log:       opts.Logger,
		backlight: !opts.BacklightOff,
	}
	if b.enc == nil {
		b.enc = DefaultEncoder
	}
	if b.delay == nil {
		b.delay = time.Sleep
	}
	if b.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		b.log = l
	}
	b.log = b.log.WithField("dev", dev.String())
	return b, nil
}

// Init implements Transport.
//
// The controller may power up in 8-bit mode or be left mid-byte in 4-bit
// mode. Three function sets with DL=1, sent as single nibbles, bring it to
// 8-bit mode from any state. A fourth nibble then selects 4-bit mode, and the
// full function set is repeated as a byte pair to program lines and font.
//
// A failure isn't rolled back. Run the whole sequence again before retrying
// anything else.
func (b *Backpack) Init(lines LineMode, font FontMode) error {
	b.log.WithFields(logrus.Fields{"lines": lines, "font": font}).Debug("init")
	b.fourBit = false
	f8 := b.enc.Encode(false, false, b.backlight, cmdFunctionSet|dataLength8)
	if err := b.write(f8[:2]); err != nil {
		return err
	}
	b.delay(delayInitFirst)
	if err := b.write(f8[:2]); err != nil {
		return err
	}
	b.delay(delayInitSecond)
	if err := b.write(f8[:2]); err != nil {
		return err
	}
	f4 := b.enc.Encode(false, false, b.backlight, cmdFunctionSet|dataLength4|byte(lines)|byte(font))
	if err := b.write(f4[:2]); err != nil {
		return err
	}
	b.fourBit = true
	return b.write(f4[:])
}

// SendByte implements Transport.
func (b *Backpack) SendByte(rs bool, v byte) error {
	f := b.enc.Encode(rs, false, b.backlight, v)
	return b.write(f[:])
}

// SendBytes implements Transport.
func (b *Backpack) SendBytes(rs bool, p []byte) error {
	for _, v := range p {
		if err := b.SendByte(rs, v); err != nil {
			return err
		}
	}
	return nil
}

// ReceiveByte implements Transport.
//
// The data lines are released with RNW high, then the controller is clocked
// twice: a write with EN high makes it drive a nibble, the port is sampled,
// and EN is dropped again. The whole exchange is one transaction so that no
// other traffic lands between the strobes.
func (b *Backpack) ReceiveByte(rs bool) (byte, error) {
	// D4..D7 are written high in the low nibble half of the frame, which
	// lets the controller pull them down during the reads.
	f := b.enc.Encode(rs, true, b.backlight, 0x0f)
	var high, low [1]byte
	err := b.dev.Transaction([]pcf857x.Op{
		{W: f[2:3]},
		{R: high[:]},
		{W: f[1:3]},
		{R: low[:]},
		{W: f[1:2]},
	})
	if err != nil {
		b.log.WithError(err).Debug("receive")
		return 0, transportError(err)
	}
	return b.enc.Decode(high[0], low[0]), nil
}

// ReceiveBytes implements Transport.
func (b *Backpack) ReceiveBytes(rs bool, p []byte) error {
	for ix := range p {
		v, err := b.ReceiveByte(rs)
		if err != nil {
			return err
		}
		p[ix] = v
	}
	return nil
}

// SetBacklight implements Transport. The idle port value (EN low, all other
// lines low) is written so that only the backlight line changes.
func (b *Backpack) SetBacklight(on bool) error {
	b.log.WithField("on", on).Debug("backlight")
	b.backlight = on
	f := b.enc.Encode(false, false, b.backlight, 0x00)
	return b.write(f[1:2])
}

// Backlight implements Transport.
func (b *Backpack) Backlight() bool {
	return b.backlight
}

// Delay implements Transport.
func (b *Backpack) Delay(d time.Duration) {
	b.delay(d)
}

// FourBit reports whether Init completed and the bus is in 4-bit mode.
func (b *Backpack) FourBit() bool {
	return b.fourBit
}

// Halt implements conn.Resource.
func (b *Backpack) Halt() error {
	return b.dev.Halt()
}

func (b *Backpack) String() string {
	return fmt.Sprintf("Backpack{%s}", b.dev)
}

func (b *Backpack) write(p []byte) error {
	if err := b.dev.Write(p); err != nil {
		b.log.WithError(err).Debug("write")
		return transportError(err)
	}
	return nil
}

// NewPCF857xBackpack returns a display configured to use the pcf8574 i2c
// backpacks. To use this, get an I2C bus, and call this function with the bus,
// i2c address, number of rows, and columns. Displays with more than one row
// are run in two line mode with the 5x8 font.
func NewPCF857xBackpack(bus pcf857x.Bus, address uint16, rows, cols int) (*Dev, error) {
	t, err := NewBackpack(bus, address, nil)
	if err != nil {
		return nil, err
	}
	lines := OneLine
	if rows > 1 {
		lines = TwoLines
	}
	return New(t, NewGeometry(rows, cols, lines))
}

var _ Transport = &Backpack{}
