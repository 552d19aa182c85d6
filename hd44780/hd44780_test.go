// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/GermanBionicSystems/charlcd/hd44780/hd44780sim"
	"github.com/google/go-cmp/cmp"
	periphDisplay "periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/display/displaytest"
)

const (
	testRows = 2
	testCols = 16
)

func getLCD(t *testing.T, g Geometry) (*Dev, *hd44780sim.LCD) {
	t.Helper()
	sim := hd44780sim.New(testAddr, hd44780sim.DefaultWiring)
	b, err := NewBackpack(sim, testAddr, &BackpackOpts{Delay: func(time.Duration) {}})
	if err != nil {
		t.Fatal(err)
	}
	lcd, err := New(b, g)
	if err != nil {
		t.Fatal(err)
	}
	return lcd, sim
}

func getDefaultLCD(t *testing.T) (*Dev, *hd44780sim.LCD) {
	return getLCD(t, NewGeometry(testRows, testCols, TwoLines))
}

func TestNew(t *testing.T) {
	_, sim := getDefaultLCD(t)
	want := []hd44780sim.Access{
		{Value: 0x30}, {Value: 0x30}, {Value: 0x30}, {Value: 0x20},
		{Value: 0x28}, {Value: 0x0c}, {Value: 0x01},
	}
	if diff := cmp.Diff(want, sim.Accesses()); diff != "" {
		t.Errorf("init (-want +got):\n%s", diff)
	}
	s := sim.Snapshot(testRows, testCols)
	if !s.On || s.Cursor || s.Blink || !s.Backlight {
		t.Errorf("unexpected state after init: %+v", s)
	}
}

func TestClearHomeDelay(t *testing.T) {
	sim := hd44780sim.New(testAddr, hd44780sim.DefaultWiring)
	var delays []time.Duration
	b, err := NewBackpack(sim, testAddr, &BackpackOpts{Delay: func(d time.Duration) {
		delays = append(delays, d)
	}})
	if err != nil {
		t.Fatal(err)
	}
	lcd, err := New(b, NewGeometry(testRows, testCols, TwoLines))
	if err != nil {
		t.Fatal(err)
	}
	want := []time.Duration{4100 * time.Microsecond, 100 * time.Microsecond, 1520 * time.Microsecond}
	if diff := cmp.Diff(want, delays); diff != "" {
		t.Errorf("New delays (-want +got):\n%s", diff)
	}
	for _, f := range []func() error{lcd.Clear, lcd.Home} {
		delays = nil
		if err := f(); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]time.Duration{1520 * time.Microsecond}, delays); diff != "" {
			t.Errorf("delays (-want +got):\n%s", diff)
		}
	}
	delays = nil
	if err := lcd.Position(1, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := lcd.WriteString("x"); err != nil {
		t.Fatal(err)
	}
	if len(delays) != 0 {
		t.Errorf("unexpected delays %v", delays)
	}
}

func TestNewInvalidGeometry(t *testing.T) {
	sim := hd44780sim.New(testAddr, hd44780sim.DefaultWiring)
	b, err := NewBackpack(sim, testAddr, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(b, NewGeometry(0, 16, TwoLines)); !errors.Is(err, ErrRange) {
		t.Errorf("expected ErrRange, got %v", err)
	}
	if a := sim.Accesses(); len(a) != 0 {
		t.Errorf("unexpected traffic: %v", a)
	}
}

func TestBasic(t *testing.T) {
	display, sim := getDefaultLCD(t)
	s := display.String()
	if !strings.HasPrefix(s, "HD44780::") {
		t.Errorf("display.String() = %q", s)
	}
	if _, err := display.WriteString("1234567890"); err != nil {
		t.Error(err)
	}
	if err := display.MoveTo(2, 2); err != nil {
		t.Error(err)
	}
	if _, err := display.WriteString("2345678901"); err != nil {
		t.Error(err)
	}
	want := []string{"1234567890      ", " 2345678901     "}
	if diff := cmp.Diff(want, sim.Text(testRows, testCols)); diff != "" {
		t.Errorf("text (-want +got):\n%s", diff)
	}
	if rows := display.Rows(); rows != testRows {
		t.Errorf("display.Rows() expected %d, received %d", testRows, rows)
	}
	if cols := display.Cols(); cols != testCols {
		t.Errorf("display.Cols() expected %d, received %d", testCols, cols)
	}
	if err := display.Halt(); err != nil {
		t.Error(err)
	}
	hs := sim.Snapshot(testRows, testCols)
	if hs.On || hs.Backlight {
		t.Errorf("Halt left the display on: %+v", hs)
	}
	if diff := cmp.Diff([]string{strings.Repeat(" ", testCols), strings.Repeat(" ", testCols)}, sim.Text(testRows, testCols)); diff != "" {
		t.Errorf("Halt didn't clear (-want +got):\n%s", diff)
	}
}

func TestInterface(t *testing.T) {
	display, _ := getDefaultLCD(t)
	defer func() { _ = display.Halt() }()
	errs := displaytest.TestTextDisplay(display, false)
	for _, err := range errs {
		if !errors.Is(err, periphDisplay.ErrNotImplemented) {
			t.Error(err)
		}
	}
}

func TestPosition(t *testing.T) {
	display, sim := getLCD(t, NewGeometry(4, 20, TwoLines))
	sim.Accesses()
	for _, pos := range [][3]int{{0, 0, 0x80}, {1, 0, 0xc0}, {2, 0, 0x94}, {3, 19, 0xe7}} {
		if err := display.Position(pos[0], pos[1]); err != nil {
			t.Fatal(err)
		}
		want := []hd44780sim.Access{{Value: byte(pos[2])}}
		if diff := cmp.Diff(want, sim.Accesses()); diff != "" {
			t.Errorf("Position(%d, %d) (-want +got):\n%s", pos[0], pos[1], diff)
		}
	}
	port := sim.Port()
	for _, pos := range [][2]int{{4, 0}, {0, 20}, {-1, 0}} {
		if err := display.Position(pos[0], pos[1]); !errors.Is(err, ErrRange) {
			t.Errorf("Position(%d, %d): expected ErrRange, got %v", pos[0], pos[1], err)
		}
	}
	if a := sim.Accesses(); len(a) != 0 || sim.Port() != port {
		t.Errorf("out of range positions produced traffic: %v", a)
	}
}

func TestPrintf(t *testing.T) {
	display, sim := getDefaultLCD(t)
	n, err := display.Printf("T=%d%c", 21, 'C')
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Errorf("n=%d", n)
	}
	if got := sim.Text(testRows, testCols)[0]; got != "T=21C           " {
		t.Errorf("got %q", got)
	}
	sim.Accesses()
	if _, err := display.Printf("%s", strings.Repeat("x", FormatBufferSize+1)); !errors.Is(err, ErrFormat) {
		t.Errorf("overflow: %v", err)
	}
	bad := []struct {
		format string
		args   []any
	}{
		{"%d", nil},
		{"%d", []any{"x"}},
		{"%d", []any{1, 2}},
		{"%[3]d", []any{1}},
		{"%", nil},
	}
	for _, line := range bad {
		if _, err := display.Printf(line.format, line.args...); !errors.Is(err, ErrFormat) {
			t.Errorf("Printf(%q, %v): expected ErrFormat, got %v", line.format, line.args, err)
		}
	}
	if a := sim.Accesses(); len(a) != 0 {
		t.Errorf("failed Printf wrote %v", a)
	}
	if _, err := display.Printf("%s", strings.Repeat("y", FormatBufferSize)); err != nil {
		t.Errorf("full buffer: %v", err)
	}
	if err := display.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, err := display.Printf("%s %d%%!", "50%!", 9); err != nil {
		t.Errorf("literal %%!: %v", err)
	}
	if got := sim.Text(testRows, testCols)[0]; got != "50%! 9%!        " {
		t.Errorf("got %q", got)
	}
}

func TestCreateChar(t *testing.T) {
	display, sim := getDefaultLCD(t)
	glyph := []byte{0x00, 0x0a, 0x1f, 0x1f, 0x0e, 0x04, 0x00, 0x00}
	if err := display.CreateChar(CustomChar1, glyph); err != nil {
		t.Fatal(err)
	}
	cg := sim.CGRAM()
	if diff := cmp.Diff(glyph, cg[8:16]); diff != "" {
		t.Errorf("cgram (-want +got):\n%s", diff)
	}
	if err := display.CreateChar(CustomChar2, glyph[:7]); !errors.Is(err, ErrRange) {
		t.Errorf("short glyph: %v", err)
	}
	if err := display.Position(0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := display.Write([]byte{CustomChar1}); err != nil {
		t.Fatal(err)
	}
	if got := sim.Text(testRows, testCols)[0][0]; got != CustomChar1 {
		t.Errorf("got 0x%02x", got)
	}
}

func TestCreateChar5x10(t *testing.T) {
	display, sim := getLCD(t, NewGeometry5x10(1, 16))
	glyph := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if err := display.CreateChar(CustomChar5x10_1, glyph); err != nil {
		t.Fatal(err)
	}
	cg := sim.CGRAM()
	if diff := cmp.Diff(glyph, cg[16:26]); diff != "" {
		t.Errorf("cgram (-want +got):\n%s", diff)
	}
	if s := sim.Snapshot(1, 16); !s.Font5x10 {
		t.Error("5x10 font not selected")
	}
	if err := display.CreateChar(CustomChar5x10_0, glyph[:8]); !errors.Is(err, ErrRange) {
		t.Errorf("short glyph: %v", err)
	}
}

func TestReadData(t *testing.T) {
	display, sim := getDefaultLCD(t)
	if _, err := display.WriteString("Hello"); err != nil {
		t.Fatal(err)
	}
	if err := display.Position(0, 0); err != nil {
		t.Fatal(err)
	}
	p := make([]byte, 5)
	if err := display.ReadData(p); err != nil {
		t.Fatal(err)
	}
	if string(p) != "Hello" {
		t.Errorf("got %q", p)
	}
	ac, err := display.AddressCounter()
	if err != nil {
		t.Fatal(err)
	}
	if ac != 5 {
		t.Errorf("address counter %d", ac)
	}
	busy, err := display.Busy()
	if err != nil || busy {
		t.Errorf("busy=%t err=%v", busy, err)
	}
	sim.SetBusy(true)
	busy, err = display.Busy()
	if err != nil || !busy {
		t.Errorf("busy=%t err=%v", busy, err)
	}
	// The busy flag doesn't leak into the address counter.
	if ac, _ := display.AddressCounter(); ac != 5 {
		t.Errorf("address counter with busy flag: %d", ac)
	}
}

func TestBacklights(t *testing.T) {
	display, sim := getDefaultLCD(t)
	if err := display.Backlight(0); err != nil {
		t.Error(err)
	}
	if sim.Backlight() || display.BacklightOn() {
		t.Error("backlight still on")
	}
	// The state is carried by the following transfers.
	if _, err := display.WriteString("x"); err != nil {
		t.Error(err)
	}
	if sim.Backlight() {
		t.Error("write turned the backlight on")
	}
	if err := display.Backlight(0xff); err != nil {
		t.Error(err)
	}
	if !sim.Backlight() || !display.BacklightOn() {
		t.Error("backlight still off")
	}
}

func TestCursor(t *testing.T) {
	display, sim := getDefaultLCD(t)
	tests := []struct {
		modes         []periphDisplay.CursorMode
		cursor, blink bool
	}{
		{[]periphDisplay.CursorMode{periphDisplay.CursorUnderline}, true, false},
		{[]periphDisplay.CursorMode{periphDisplay.CursorBlink}, true, true},
		{[]periphDisplay.CursorMode{periphDisplay.CursorOff}, false, false},
		{[]periphDisplay.CursorMode{periphDisplay.CursorOff, periphDisplay.CursorBlock}, false, true},
	}
	for _, test := range tests {
		if err := display.Cursor(test.modes...); err != nil {
			t.Fatal(err)
		}
		s := sim.Snapshot(testRows, testCols)
		if s.Cursor != test.cursor || s.Blink != test.blink || !s.On {
			t.Errorf("Cursor(%v): %+v", test.modes, s)
		}
	}
	if err := display.Cursor(periphDisplay.CursorBlink + 1); !errors.Is(err, periphDisplay.ErrInvalidCommand) {
		t.Errorf("invalid mode: %v", err)
	}
}

func TestMove(t *testing.T) {
	display, sim := getDefaultLCD(t)
	if err := display.Move(periphDisplay.Forward); err != nil {
		t.Fatal(err)
	}
	if ac := sim.AddressCounter(); ac != 1 {
		t.Errorf("forward: %d", ac)
	}
	if err := display.Move(periphDisplay.Backward); err != nil {
		t.Fatal(err)
	}
	if ac := sim.AddressCounter(); ac != 0 {
		t.Errorf("backward: %d", ac)
	}
	if err := display.Move(periphDisplay.Down); !errors.Is(err, periphDisplay.ErrNotImplemented) {
		t.Errorf("down: %v", err)
	}
	if err := display.Move(periphDisplay.Down + 1); !errors.Is(err, periphDisplay.ErrInvalidCommand) {
		t.Errorf("invalid: %v", err)
	}
}

func TestAutoScroll(t *testing.T) {
	display, sim := getDefaultLCD(t)
	if err := display.AutoScroll(true); err != nil {
		t.Fatal(err)
	}
	if _, err := display.WriteString("ab"); err != nil {
		t.Fatal(err)
	}
	if s := sim.Snapshot(testRows, testCols); s.Shift != -2 {
		t.Errorf("shift %d", s.Shift)
	}
	if err := display.AutoScroll(false); err != nil {
		t.Fatal(err)
	}
	if err := display.Home(); err != nil {
		t.Fatal(err)
	}
	if s := sim.Snapshot(testRows, testCols); s.Shift != 0 {
		t.Errorf("shift after home %d", s.Shift)
	}
}

func TestEntryDecrement(t *testing.T) {
	display, sim := getDefaultLCD(t)
	if err := display.Position(0, 3); err != nil {
		t.Fatal(err)
	}
	if err := display.Entry(EntryDecrement, EntryShiftOff); err != nil {
		t.Fatal(err)
	}
	if _, err := display.WriteString("cba"); err != nil {
		t.Fatal(err)
	}
	if got := sim.Text(testRows, testCols)[0][:4]; got != " abc" {
		t.Errorf("got %q", got)
	}
}

func TestTransportErrors(t *testing.T) {
	display, sim := getDefaultLCD(t)
	errBus := errors.New("bus down")
	sim.Fail(errBus)
	n, err := display.WriteString("abc")
	if !errors.Is(err, ErrTransport) || !errors.Is(err, errBus) {
		t.Errorf("WriteString: %v", err)
	}
	if n != 0 {
		t.Errorf("n=%d", n)
	}
	if err := display.Clear(); !errors.Is(err, ErrTransport) {
		t.Errorf("Clear: %v", err)
	}
	if _, err := display.Busy(); !errors.Is(err, ErrTransport) {
		t.Errorf("Busy: %v", err)
	}
	if err := display.Init(); !errors.Is(err, ErrTransport) {
		t.Errorf("Init: %v", err)
	}
	sim.Fail(nil)
	if err := display.Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := display.WriteString("ok"); err != nil {
		t.Error(err)
	}
	if got := sim.Text(testRows, testCols)[0][:2]; got != "ok" {
		t.Errorf("got %q", got)
	}
}

func TestControlStateOnError(t *testing.T) {
	display, sim := getDefaultLCD(t)
	sim.Fail(errors.New("bus down"))
	if err := display.Cursor(periphDisplay.CursorUnderline); !errors.Is(err, ErrTransport) {
		t.Errorf("Cursor: %v", err)
	}
	if err := display.Display(false); !errors.Is(err, ErrTransport) {
		t.Errorf("Display: %v", err)
	}
	sim.Fail(nil)
	if err := display.Cursor(periphDisplay.CursorBlink); err != nil {
		t.Fatal(err)
	}
	s := sim.Snapshot(testRows, testCols)
	if !s.On || s.Cursor || !s.Blink {
		t.Errorf("want display on, cursor off, blink on, got %+v", s)
	}
}
