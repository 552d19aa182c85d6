// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// This package provides byte level access to the TI/NXP PCF8574 I2C I/O
// Expander as it is wired on HD44780 LCD backpacks, particularly those sold as
// LCD2004, LCD1602.
//
// # Datasheet
//
// https://www.ti.com/lit/ds/symlink/pcf8574.pdf
//
// A good description of the I2C LCD backpack usage can be found here:
//
// https://www.handsontec.com/dataspecs/I2C_2004_LCD.pdf
//
// # Notes
//
// This chip doesn't implement normal i2c register architectures. You write 8
// bits out, and that sets the corresponding pins, or you read 8 bits and get
// the state of the pins.
//
// The pins are "quasi-bidirectional". Setting a pin to Low activates an Open
// Drain to ground. To read a pin it must first be written High, a device on
// the other side then pulls it low or leaves it high. A read therefore returns
// the AND of the last written value and whatever drives the lines.
package pcf857x

import (
	"errors"
	"fmt"
	"sync"
)

const (
	// DefaultAddress is the address of most LCD backpacks (A0-A2 pulled high).
	DefaultAddress uint16 = 0x27

	// Address ranges of the PCF8574 and the PCF8574A.
	minAddress  uint16 = 0x20
	maxAddress  uint16 = 0x27
	minAAddress uint16 = 0x38
	maxAAddress uint16 = 0x3f
)

var (
	ErrAddress = errors.New("pcf857x: address out of range")
	ErrOp      = errors.New("pcf857x: invalid operation")
)

// Bus is the minimal I2C bus needed by the expander. periph.io's i2c.Bus and
// TinyGo's drivers.I2C both satisfy it.
type Bus interface {
	Tx(addr uint16, w, r []byte) error
}

// Dev is representation of a PCF8574 device.
type Dev struct {
	addr uint16

	mu    sync.Mutex
	bus   Bus
	value byte
}

// New returns a PCF8574 expander at address on bus. It doesn't touch the
// device.
func New(bus Bus, address uint16) (*Dev, error) {
	if !ValidAddress(address) {
		return nil, fmt.Errorf("%w: 0x%02x", ErrAddress, address)
	}
	// The power-on state of the port is all lines high.
	return &Dev{bus: bus, addr: address, value: 0xff}, nil
}

// ValidAddress reports whether address can be strapped on a PCF8574 or
// PCF8574A.
func ValidAddress(address uint16) bool {
	return (address >= minAddress && address <= maxAddress) ||
		(address >= minAAddress && address <= maxAAddress)
}

// Write sends the bytes in p to the output port, in order, within a single
// I2C write. Each byte replaces the state of all 8 lines.
func (dev *Dev) Write(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if err := dev.bus.Tx(dev.addr, p, nil); err != nil {
		return fmt.Errorf("pcf857x: %w", err)
	}
	dev.value = p[len(p)-1]
	return nil
}

// Read drives every line high and returns the sampled port.
func (dev *Dev) Read() (byte, error) {
	var r [1]byte
	err := dev.Transaction([]Op{{W: []byte{0xff}}, {R: r[:]}})
	return r[0], err
}

// Value returns the last byte written to the port.
func (dev *Dev) Value() byte {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.value
}

// Addr returns the I2C address of the device.
func (dev *Dev) Addr() uint16 {
	return dev.addr
}

// Halt implements conn.Resource. The expander has nothing to stop.
func (dev *Dev) Halt() error {
	return nil
}

func (dev *Dev) String() string {
	if s, ok := dev.bus.(fmt.Stringer); ok {
		return fmt.Sprintf("PCF8574_%x@%s", dev.addr, s.String())
	}
	return fmt.Sprintf("PCF8574_%x", dev.addr)
}
