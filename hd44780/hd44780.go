// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hd44780 controls the Hitachi LCD display chipset HD-44780 through a
// PCF8574 I²C backpack in 4-bit mode.
//
// The package is layered. An Encoder turns a byte transfer into PCF8574 port
// values, the Backpack sequences the I²C writes and read transactions that
// clock those values into the controller, and Dev provides the display
// commands on top of any Transport.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
package hd44780

import (
	"fmt"
	"regexp"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
)

// FormatBufferSize is the longest text Printf renders.
const FormatBufferSize = 64

// Dev is an HD44780 display.
//
// Implements periph.io/conn/x/display/TextDisplay and display.DisplayBacklight
type Dev struct {
	t      Transport
	g      Geometry
	on     bool
	cursor bool
	blink  bool
	dir    EntryDir
	shift  EntryShift
}

// New initializes the controller behind t for the panel g and returns it
// ready for use: display on, cursor off, cleared.
func New(t Transport, g Geometry) (*Dev, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	lcd := &Dev{t: t, g: g, dir: EntryIncrement}
	return lcd, lcd.init()
}

func (lcd *Dev) init() error {
	if err := lcd.t.Init(lcd.g.Lines, lcd.g.Font); err != nil {
		return wrap(err)
	}
	if err := lcd.Control(DisplayOn, CursorOff, BlinkOff); err != nil {
		return err
	}
	return lcd.Clear()
}

// Init re-runs the initialization, for instance after a transport error.
// Cursor and entry settings go back to their defaults.
func (lcd *Dev) Init() error {
	lcd.dir, lcd.shift = EntryIncrement, EntryShiftOff
	return lcd.init()
}

func (lcd *Dev) command(v byte) error {
	return wrap(lcd.t.SendByte(false, v))
}

// Clears the screen and moves the cursor to the first position.
func (lcd *Dev) Clear() error {
	if err := lcd.command(cmdClear); err != nil {
		return err
	}
	lcd.t.Delay(delayClearHome)
	return nil
}

// Move the cursor home (MinRow(),MinCol()) and undo any display shift.
func (lcd *Dev) Home() error {
	if err := lcd.command(cmdHome); err != nil {
		return err
	}
	lcd.t.Delay(delayClearHome)
	return nil
}

// Entry sets the direction of the address counter and whether the display
// shifts while writing.
func (lcd *Dev) Entry(dir EntryDir, shift EntryShift) error {
	if err := lcd.command(cmdEntry | byte(dir) | byte(shift)); err != nil {
		return err
	}
	lcd.dir, lcd.shift = dir, shift
	return nil
}

// Control sets the display, cursor and blink states.
func (lcd *Dev) Control(state DisplayState, cursor CursorState, blink BlinkState) error {
	if err := lcd.command(cmdControl | byte(state) | byte(cursor) | byte(blink)); err != nil {
		return err
	}
	lcd.on = state == DisplayOn
	lcd.cursor = cursor == CursorOn
	lcd.blink = blink == BlinkOn
	return nil
}

func (lcd *Dev) control(on, cursor, blink bool) error {
	s, c, b := DisplayOff, CursorOff, BlinkOff
	if on {
		s = DisplayOn
	}
	if cursor {
		c = CursorOn
	}
	if blink {
		b = BlinkOn
	}
	return lcd.Control(s, c, b)
}

// Shift moves the cursor or shifts the display by one position.
func (lcd *Dev) Shift(target ShiftTarget, dir ShiftDir) error {
	return lcd.command(cmdShift | byte(target) | byte(dir))
}

// Position moves the cursor to the 0-based row and col. Nothing is sent when
// the position is outside of the geometry.
func (lcd *Dev) Position(row, col int) error {
	addr, err := lcd.g.Address(row, col)
	if err != nil {
		return err
	}
	return lcd.command(cmdSetDDRAM | addr)
}

// Write a set of bytes to the display at the cursor position. The bytes are
// character codes of the controller's ROM, not UTF-8.
func (lcd *Dev) Write(p []byte) (n int, err error) {
	for _, v := range p {
		if err = lcd.t.SendByte(true, v); err != nil {
			return n, wrap(err)
		}
		n++
	}
	return n, nil
}

// Write a string output to the display.
func (lcd *Dev) WriteString(text string) (int, error) {
	return lcd.Write([]byte(text))
}

// fmtError matches the markers fmt renders for bad verbs and arguments.
var fmtError = regexp.MustCompile(`%!(\((EXTRA |MISSING\)|BADINDEX\)|BADWIDTH\)|BADPREC\)|NOVERB\))|[^(\s]\()`)

// Printf formats like fmt.Printf and writes the result. The rendered text
// is limited to FormatBufferSize bytes; longer text, or a bad verb, returns
// ErrFormat and nothing is written.
func (lcd *Dev) Printf(format string, args ...any) (int, error) {
	s := fmt.Sprintf(format, args...)
	if len(s) > FormatBufferSize {
		return 0, fmt.Errorf("%s: %w: %d bytes rendered, limit %d", packageName, ErrFormat, len(s), FormatBufferSize)
	}
	if fmtError.MatchString(s) {
		return 0, fmt.Errorf("%s: %w: %q", packageName, ErrFormat, s)
	}
	return lcd.WriteString(s)
}

// CreateChar defines the glyph of a user character. code is one of the
// CustomChar constants, bitmap holds one row of 5 pixels per byte, 8 rows for
// the 5x8 font and 10 rows for the 5x10 font.
//
// The address counter is left in CGRAM; call Position before writing text.
func (lcd *Dev) CreateChar(code byte, bitmap []byte) error {
	if len(bitmap) != lcd.g.glyphRows() {
		return fmt.Errorf("%s: %w: glyph has %d rows, font needs %d", packageName, ErrRange, len(bitmap), lcd.g.glyphRows())
	}
	if err := lcd.command(cmdSetCGRAM | (code&lcd.g.glyphMask())<<3); err != nil {
		return err
	}
	return wrap(lcd.t.SendBytes(true, bitmap))
}

// ReadData reads len(p) bytes of DDRAM or CGRAM from the address counter on.
func (lcd *Dev) ReadData(p []byte) error {
	return wrap(lcd.t.ReceiveBytes(true, p))
}

// AddressCounter returns the current DDRAM or CGRAM address.
func (lcd *Dev) AddressCounter() (byte, error) {
	v, err := lcd.t.ReceiveByte(false)
	return v & addressCounter, wrap(err)
}

// Busy reports whether the controller is still executing an instruction.
func (lcd *Dev) Busy() (bool, error) {
	v, err := lcd.t.ReceiveByte(false)
	return v&busyFlag != 0, wrap(err)
}

// Enable/Disable auto scroll. When enabled, the display shifts left as
// characters are written so that the cursor stays in place.
func (lcd *Dev) AutoScroll(enabled bool) error {
	shift := EntryShiftOff
	if enabled {
		shift = EntryShiftOn
	}
	return lcd.Entry(lcd.dir, shift)
}

// Set the cursor mode. You can pass multiple arguments.
// Cursor(CursorOff, CursorUnderline)
func (lcd *Dev) Cursor(modes ...display.CursorMode) error {
	cursor, blink := lcd.cursor, lcd.blink
	for _, mode := range modes {
		switch mode {
		case display.CursorOff:
			cursor, blink = false, false
		case display.CursorUnderline:
			cursor = true
		case display.CursorBlock, display.CursorBlink:
			blink = true
		default:
			return fmt.Errorf("%s: %w: cursor mode %d", packageName, display.ErrInvalidCommand, mode)
		}
	}
	return lcd.control(lcd.on, cursor, blink)
}

// Move the cursor forward or backward.
func (lcd *Dev) Move(dir display.CursorDirection) error {
	switch dir {
	case display.Backward:
		return lcd.Shift(ShiftCursor, ShiftLeft)
	case display.Forward:
		return lcd.Shift(ShiftCursor, ShiftRight)
	case display.Down, display.Up:
		return fmt.Errorf("%s: %w", packageName, display.ErrNotImplemented)
	default:
		return fmt.Errorf("%s: %w: direction %d", packageName, display.ErrInvalidCommand, dir)
	}
}

// Move the cursor to arbitrary position. row and col start at MinRow() and
// MinCol().
func (lcd *Dev) MoveTo(row, col int) error {
	return lcd.Position(row-lcd.MinRow(), col-lcd.MinCol())
}

// Turn the display on / off
func (lcd *Dev) Display(on bool) error {
	return lcd.control(on, lcd.cursor, lcd.blink)
}

// Return the number of columns the display supports
func (lcd *Dev) Cols() int {
	return lcd.g.Cols
}

// Return the number of rows the display supports.
func (lcd *Dev) Rows() int {
	return lcd.g.Rows
}

// Return the min column position.
func (lcd *Dev) MinCol() int {
	return 1
}

// Return the min row position.
func (lcd *Dev) MinRow() int {
	return 1
}

// Geometry returns the panel description the display was created with.
func (lcd *Dev) Geometry() Geometry {
	return lcd.g
}

// Halt clears the display, turns the backlight off, and turns the display off.
func (lcd *Dev) Halt() error {
	_ = lcd.Clear()
	_ = lcd.SetBacklight(false)
	return lcd.Display(false)
}

// Return info about the display.
func (lcd *Dev) String() string {
	return fmt.Sprintf("HD44780::%s - Rows: %d, Cols: %d", lcd.t, lcd.g.Rows, lcd.g.Cols)
}

var _ display.TextDisplay = &Dev{}
var _ display.DisplayBacklight = &Dev{}
var _ conn.Resource = &Dev{}
