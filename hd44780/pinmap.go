// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"
	"strconv"
	"strings"
)

// PinMap assigns the HD44780 signals to the PCF8574 port bits (0-7).
type PinMap struct {
	RS  uint8
	RNW uint8
	EN  uint8
	BL  uint8
	D4  uint8
	D5  uint8
	D6  uint8
	D7  uint8
}

var (
	// DefaultPinMap is the wiring of the common PCF8574 LCD backpacks.
	DefaultPinMap = PinMap{RS: 0, RNW: 1, EN: 2, BL: 3, D4: 4, D5: 5, D6: 6, D7: 7}
	// MJKDZPinMap is the wiring of the mjkdz branded backpacks.
	MJKDZPinMap = PinMap{EN: 4, RNW: 5, RS: 6, BL: 7, D4: 0, D5: 1, D6: 2, D7: 3}
)

func (m PinMap) positions() [8]uint8 {
	return [8]uint8{m.RS, m.RNW, m.EN, m.BL, m.D4, m.D5, m.D6, m.D7}
}

// Validate checks that every signal has its own port bit.
func (m PinMap) Validate() error {
	var seen byte
	for _, pos := range m.positions() {
		if pos > 7 {
			return fmt.Errorf("%s: %w: bit %d", packageName, ErrPinMap, pos)
		}
		if seen&(1<<pos) != 0 {
			return fmt.Errorf("%s: %w: bit %d assigned twice", packageName, ErrPinMap, pos)
		}
		seen |= 1 << pos
	}
	return nil
}

// Conventional reports whether the map puts D4..D7 on bits 4..7, which allows
// the faster NibbleEncoder.
func (m PinMap) Conventional() bool {
	return m.D4 == 4 && m.D5 == 5 && m.D6 == 6 && m.D7 == 7
}

func (m PinMap) String() string {
	return fmt.Sprintf("rs=%d,rw=%d,en=%d,bl=%d,d4=%d,d5=%d,d6=%d,d7=%d",
		m.RS, m.RNW, m.EN, m.BL, m.D4, m.D5, m.D6, m.D7)
}

// ParsePinMap reads a pin map from a profile name ("default", "pcf8574",
// "mjkdz") or from a list such as "rs=0,rw=1,en=2,bl=3,d4=4,d5=5,d6=6,d7=7".
// All 8 signals must be listed.
func ParsePinMap(s string) (PinMap, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default", "pcf8574":
		return DefaultPinMap, nil
	case "mjkdz":
		return MJKDZPinMap, nil
	}
	var m PinMap
	fields := map[string]*uint8{
		"rs": &m.RS, "rw": &m.RNW, "rnw": &m.RNW, "en": &m.EN, "e": &m.EN,
		"bl": &m.BL, "d4": &m.D4, "d5": &m.D5, "d6": &m.D6, "d7": &m.D7,
	}
	set := map[*uint8]bool{}
	for _, kv := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(kv), "=")
		if !ok {
			return PinMap{}, fmt.Errorf("%s: %w: %q", packageName, ErrPinMap, kv)
		}
		dst, ok := fields[strings.ToLower(strings.TrimSpace(k))]
		if !ok {
			return PinMap{}, fmt.Errorf("%s: %w: unknown signal %q", packageName, ErrPinMap, k)
		}
		n, err := strconv.ParseUint(strings.TrimSpace(v), 0, 8)
		if err != nil {
			return PinMap{}, fmt.Errorf("%s: %w: %w", packageName, ErrPinMap, err)
		}
		*dst = uint8(n)
		set[dst] = true
	}
	if len(set) != 8 {
		return PinMap{}, fmt.Errorf("%s: %w: %d of 8 signals given", packageName, ErrPinMap, len(set))
	}
	return m, m.Validate()
}
