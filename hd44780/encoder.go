// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

// Frame is the sequence of PCF8574 port values that moves one byte over the
// 4-bit bus. Bytes 0 and 1 carry the high nibble with EN high then low,
// bytes 2 and 3 the low nibble. The controller latches on the falling edge.
type Frame [4]byte

// Encoder converts between HD44780 transfers and PCF8574 port values.
type Encoder interface {
	// Encode returns the frame transferring data with the given register
	// select, read/not-write and backlight lines.
	Encode(rs, rnw, backlight bool, data byte) Frame
	// Decode rebuilds a byte from the port samples taken while the
	// controller drove the high and the low nibble.
	Decode(high, low byte) byte
}

// MappedEncoder handles any assignment of the signals to the port bits.
type MappedEncoder struct {
	rs, rnw, en, bl byte
	d               [4]byte
}

// NewMappedEncoder returns an encoder for m.
func NewMappedEncoder(m PinMap) (*MappedEncoder, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &MappedEncoder{
		rs:  1 << m.RS,
		rnw: 1 << m.RNW,
		en:  1 << m.EN,
		bl:  1 << m.BL,
		d:   [4]byte{1 << m.D4, 1 << m.D5, 1 << m.D6, 1 << m.D7},
	}, nil
}

func (e *MappedEncoder) nibble(n byte) byte {
	var v byte
	for ix, mask := range e.d {
		if n&(1<<ix) != 0 {
			v |= mask
		}
	}
	return v
}

// Encode implements Encoder.
func (e *MappedEncoder) Encode(rs, rnw, backlight bool, data byte) Frame {
	ctl := control(rs, rnw, backlight, e.rs, e.rnw, e.bl)
	hi := ctl | e.nibble(data>>4)
	lo := ctl | e.nibble(data&0x0f)
	return Frame{hi | e.en, hi, lo | e.en, lo}
}

// Decode implements Encoder.
func (e *MappedEncoder) Decode(high, low byte) byte {
	var v byte
	for ix, mask := range e.d {
		if high&mask != 0 {
			v |= 0x10 << ix
		}
		if low&mask != 0 {
			v |= 0x01 << ix
		}
	}
	return v
}

// NibbleEncoder is the encoder for backpacks with D4..D7 on port bits 4..7.
// The data nibbles are placed on the port unchanged, the fields hold the
// masks of the control signals in the low nibble.
type NibbleEncoder struct {
	RS, RNW, EN, BL byte
}

// DefaultEncoder matches DefaultPinMap.
var DefaultEncoder = NibbleEncoder{RS: 0x01, RNW: 0x02, EN: 0x04, BL: 0x08}

// Encode implements Encoder.
func (e NibbleEncoder) Encode(rs, rnw, backlight bool, data byte) Frame {
	ctl := control(rs, rnw, backlight, e.RS, e.RNW, e.BL)
	hi := ctl | data&0xf0
	lo := ctl | data<<4
	return Frame{hi | e.EN, hi, lo | e.EN, lo}
}

// Decode implements Encoder.
func (e NibbleEncoder) Decode(high, low byte) byte {
	return high&0xf0 | low>>4
}

// EncoderFor returns the fastest encoder handling m.
func EncoderFor(m PinMap) (Encoder, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.Conventional() {
		return NibbleEncoder{RS: 1 << m.RS, RNW: 1 << m.RNW, EN: 1 << m.EN, BL: 1 << m.BL}, nil
	}
	return NewMappedEncoder(m)
}

func control(rs, rnw, backlight bool, rsMask, rnwMask, blMask byte) byte {
	var v byte
	if rs {
		v |= rsMask
	}
	if rnw {
		v |= rnwMask
	}
	if backlight {
		v |= blMask
	}
	return v
}

var (
	_ Encoder = &MappedEncoder{}
	_ Encoder = NibbleEncoder{}
)
