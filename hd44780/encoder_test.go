// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"errors"
	"testing"
)

func encoders(t *testing.T) map[string]Encoder {
	mapped, err := NewMappedEncoder(MJKDZPinMap)
	if err != nil {
		t.Fatal(err)
	}
	defaultMapped, err := NewMappedEncoder(DefaultPinMap)
	if err != nil {
		t.Fatal(err)
	}
	return map[string]Encoder{
		"nibble":         DefaultEncoder,
		"mapped-default": defaultMapped,
		"mapped-mjkdz":   mapped,
	}
}

// readBack simulates the controller driving the data lines with the nibbles
// of d during a read of frame f.
func readBack(f Frame, enc Encoder, d byte) (high, low byte) {
	lines := enc.Encode(false, false, false, 0xff)[1]
	driven := enc.Encode(false, false, false, d)
	return f[2]&^lines | driven[1], f[2]&^lines | driven[3]
}

func TestEncodeRoundTrip(t *testing.T) {
	for name, enc := range encoders(t) {
		for d := 0; d < 256; d++ {
			for _, bl := range []bool{false, true} {
				for _, rs := range []bool{false, true} {
					for _, rnw := range []bool{false, true} {
						f := enc.Encode(rs, rnw, bl, byte(d))
						if got := enc.Decode(f[0], f[2]); got != byte(d) {
							t.Fatalf("%s: Decode(Encode(%v, %v, %v, 0x%02x)) = 0x%02x", name, rs, rnw, bl, d, got)
						}
						if got := enc.Decode(f[1], f[3]); got != byte(d) {
							t.Fatalf("%s: idle bytes decode to 0x%02x, want 0x%02x", name, got, d)
						}
						hi, lo := readBack(enc.Encode(rs, true, bl, 0x0f), enc, byte(d))
						if got := enc.Decode(hi, lo); got != byte(d) {
							t.Fatalf("%s: read back 0x%02x, want 0x%02x", name, got, d)
						}
					}
				}
			}
		}
	}
}

func TestEncodeEnablePairs(t *testing.T) {
	for name, enc := range encoders(t) {
		en := enc.Encode(false, false, false, 0)[0] ^ enc.Encode(false, false, false, 0)[1]
		if en == 0 || en&(en-1) != 0 {
			t.Fatalf("%s: enable isn't a single bit: 0x%02x", name, en)
		}
		for d := 0; d < 256; d++ {
			f := enc.Encode(true, false, true, byte(d))
			if f[0]^f[1] != en || f[2]^f[3] != en {
				t.Errorf("%s: 0x%02x: pairs differ by more than EN: % x", name, d, f)
			}
			if f[1]&en != 0 || f[3]&en != 0 {
				t.Errorf("%s: 0x%02x: EN high in the idle bytes: % x", name, d, f)
			}
		}
	}
}

func TestEncodeLiteral(t *testing.T) {
	want := Frame{0xa4, 0xa0, 0x54, 0x50}
	if got := DefaultEncoder.Encode(false, false, false, 0xa5); got != want {
		t.Errorf("got % x, want % x", got, want)
	}
	want = Frame{0xad, 0xa9, 0x5d, 0x59}
	if got := DefaultEncoder.Encode(true, false, true, 0xa5); got != want {
		t.Errorf("got % x, want % x", got, want)
	}
	m, err := NewMappedEncoder(DefaultPinMap)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Encode(false, false, false, 0xa5); got != (Frame{0xa4, 0xa0, 0x54, 0x50}) {
		t.Errorf("mapped: got % x", got)
	}
}

func TestEncodeMJKDZ(t *testing.T) {
	m, err := NewMappedEncoder(MJKDZPinMap)
	if err != nil {
		t.Fatal(err)
	}
	// EN=4 RNW=5 RS=6 BL=7, data on the low nibble.
	want := Frame{0xda, 0xca, 0xd5, 0xc5}
	if got := m.Encode(true, false, true, 0xa5); got != want {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestEncoderFor(t *testing.T) {
	enc, err := EncoderFor(DefaultPinMap)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := enc.(NibbleEncoder); !ok {
		t.Errorf("default map: %T", enc)
	}
	enc, err = EncoderFor(MJKDZPinMap)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := enc.(*MappedEncoder); !ok {
		t.Errorf("mjkdz map: %T", enc)
	}
	if _, err := EncoderFor(PinMap{}); !errors.Is(err, ErrPinMap) {
		t.Errorf("zero map: %v", err)
	}
}

func TestParsePinMap(t *testing.T) {
	tests := []struct {
		in   string
		want PinMap
		err  bool
	}{
		{in: "", want: DefaultPinMap},
		{in: "pcf8574", want: DefaultPinMap},
		{in: "MJKDZ", want: MJKDZPinMap},
		{in: "rs=0,rw=1,en=2,bl=3,d4=4,d5=5,d6=6,d7=7", want: DefaultPinMap},
		{in: "en=4, rw=5, rs=6, bl=7, d4=0, d5=1, d6=2, d7=3", want: MJKDZPinMap},
		{in: "rs=0,rw=1,en=2,bl=3", err: true},
		{in: "rs=0,rw=0,en=2,bl=3,d4=4,d5=5,d6=6,d7=7", err: true},
		{in: "rs=0,rw=1,en=2,bl=3,d4=4,d5=5,d6=6,d7=8", err: true},
		{in: "rs=0,rw=1,en=2,bl=3,d4=4,d5=5,d6=6,xx=7", err: true},
		{in: "garbage", err: true},
	}
	for _, test := range tests {
		got, err := ParsePinMap(test.in)
		if test.err {
			if !errors.Is(err, ErrPinMap) {
				t.Errorf("%q: expected ErrPinMap, got %v", test.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
			continue
		}
		if got != test.want {
			t.Errorf("%q: got %s, want %s", test.in, got, test.want)
		}
	}
}
