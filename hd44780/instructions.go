// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import "time"

// Instruction opcodes. The opcode is the highest set bit, the option bits
// below it are OR'ed in.
const (
	cmdClear       byte = 0x01
	cmdHome        byte = 0x02
	cmdEntry       byte = 0x04
	cmdControl     byte = 0x08
	cmdShift       byte = 0x10
	cmdFunctionSet byte = 0x20
	cmdSetCGRAM    byte = 0x40
	cmdSetDDRAM    byte = 0x80

	dataLength4 byte = 0x00
	dataLength8 byte = 0x10

	busyFlag       byte = 0x80
	addressCounter byte = 0x7f
)

const (
	// Execution time of Clear and Home, worst case from the datasheet.
	delayClearHome = 1520 * time.Microsecond
	// Settle times of the power-on interface handshake.
	delayInitFirst  = 4100 * time.Microsecond
	delayInitSecond = 100 * time.Microsecond
)

// EntryDir selects whether the address counter is incremented or decremented
// after each DDRAM/CGRAM access.
type EntryDir byte

const (
	EntryDecrement EntryDir = 0x00
	EntryIncrement EntryDir = 0x02
)

// EntryShift selects whether the display shifts along with each write.
type EntryShift byte

const (
	EntryShiftOff EntryShift = 0x00
	EntryShiftOn  EntryShift = 0x01
)

// DisplayState turns the whole display on or off. DDRAM is kept.
type DisplayState byte

const (
	DisplayOff DisplayState = 0x00
	DisplayOn  DisplayState = 0x04
)

// CursorState shows or hides the underline cursor.
type CursorState byte

const (
	CursorOff CursorState = 0x00
	CursorOn  CursorState = 0x02
)

// BlinkState enables the blinking block at the cursor position.
type BlinkState byte

const (
	BlinkOff BlinkState = 0x00
	BlinkOn  BlinkState = 0x01
)

// ShiftTarget selects between moving the cursor and shifting the display.
type ShiftTarget byte

const (
	ShiftCursor  ShiftTarget = 0x00
	ShiftDisplay ShiftTarget = 0x08
)

// ShiftDir is the direction of a cursor move or display shift.
type ShiftDir byte

const (
	ShiftLeft  ShiftDir = 0x00
	ShiftRight ShiftDir = 0x04
)

// LineMode is the function set N bit.
type LineMode byte

const (
	OneLine  LineMode = 0x00
	TwoLines LineMode = 0x08
)

// FontMode is the function set F bit.
type FontMode byte

const (
	Font5x8  FontMode = 0x00
	Font5x10 FontMode = 0x04
)

func (l LineMode) String() string {
	if l == TwoLines {
		return "2-line"
	}
	return "1-line"
}

func (f FontMode) String() string {
	if f == Font5x10 {
		return "5x10"
	}
	return "5x8"
}
