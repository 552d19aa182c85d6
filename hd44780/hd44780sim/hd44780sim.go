// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hd44780sim simulates an HD44780 controller behind a PCF8574 I²C
// backpack.
//
// LCD implements i2c.Bus, so it can replace the real bus for tests or for
// running the commands without hardware. The PCF8574 port value drives the
// controller pins; the controller latches on falling edges of EN and drives
// the data lines during reads.
package hd44780sim

import (
	"errors"
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/charlcd/pcf857x"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// ErrNack is returned for transfers to another address.
var ErrNack = errors.New("hd44780sim: no acknowledge")

// Wiring holds the port bit masks of the controller signals.
type Wiring struct {
	RS, RNW, EN, BL byte
	// D holds D4..D7.
	D [4]byte
}

// DefaultWiring is the common backpack wiring, D4..D7 on the high nibble.
var DefaultWiring = Wiring{RS: 0x01, RNW: 0x02, EN: 0x04, BL: 0x08, D: [4]byte{0x10, 0x20, 0x40, 0x80}}

func (w *Wiring) nibble(port byte) byte {
	var n byte
	for ix, m := range w.D {
		if port&m != 0 {
			n |= 1 << ix
		}
	}
	return n
}

func (w *Wiring) lines(n byte) byte {
	var v byte
	for ix, m := range w.D {
		if n&(1<<ix) != 0 {
			v |= m
		}
	}
	return v
}

func (w *Wiring) data() byte {
	return w.D[0] | w.D[1] | w.D[2] | w.D[3]
}

// Access is one transfer executed by the controller.
type Access struct {
	RS    bool
	Read  bool
	Value byte
}

func (a Access) String() string {
	reg, dir := "IR", "W"
	if a.RS {
		reg = "DR"
	}
	if a.Read {
		dir = "R"
	}
	return fmt.Sprintf("%s %s 0x%02x", dir, reg, a.Value)
}

// LCD is a simulated backpack and controller. It is safe for concurrent use.
type LCD struct {
	mu   sync.Mutex
	addr uint16
	w    Wiring
	err  error
	log  []Access

	port    byte
	drive   byte
	fourBit bool
	// Write nibble pairing in 4-bit mode.
	pending bool
	high    byte
	// Read nibble pairing; readValue is the byte being driven.
	reading   bool
	readLow   bool
	readValue byte

	ddram    [0x80]byte
	cgram    [64]byte
	ac       byte
	cg       bool
	twoLines bool
	font5x10 bool
	inc      bool
	autoShft bool
	on       bool
	cursor   bool
	blink    bool
	shift    int
	busy     bool
}

// New returns a powered-on controller answering at address. The interface
// starts in 8-bit mode and the display off, as after reset.
func New(address uint16, w Wiring) *LCD {
	l := &LCD{addr: address, w: w, port: 0xff, inc: true}
	for ix := range l.ddram {
		l.ddram[ix] = ' '
	}
	return l
}

func (l *LCD) String() string {
	return fmt.Sprintf("hd44780sim@0x%02x", l.addr)
}

// Tx implements i2c.Bus. The bytes of w are written to the port in order,
// then each byte of r samples it.
func (l *LCD) Tx(addr uint16, w, r []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.check(addr); err != nil {
		return err
	}
	l.tx(w, r)
	return nil
}

// Transaction implements pcf857x.Transactor.
func (l *LCD) Transaction(addr uint16, ops []pcf857x.Op) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.check(addr); err != nil {
		return err
	}
	for _, op := range ops {
		l.tx(op.W, op.R)
	}
	return nil
}

// SetSpeed implements i2c.Bus.
func (l *LCD) SetSpeed(f physic.Frequency) error {
	return nil
}

func (l *LCD) check(addr uint16) error {
	if l.err != nil {
		return l.err
	}
	if addr != l.addr {
		return fmt.Errorf("%w: 0x%02x", ErrNack, addr)
	}
	return nil
}

func (l *LCD) tx(w, r []byte) {
	for _, v := range w {
		l.set(v)
	}
	for ix := range r {
		r[ix] = l.sample()
	}
}

// sample reads the quasi-bidirectional port: a line reads low when it was
// written low or the controller pulls it down.
func (l *LCD) sample() byte {
	v := l.port
	if l.port&l.w.RNW != 0 && l.port&l.w.EN != 0 {
		v &= ^l.w.data() | l.drive
	}
	return v
}

func (l *LCD) set(v byte) {
	prev := l.port
	l.port = v
	rising := prev&l.w.EN == 0 && v&l.w.EN != 0
	falling := prev&l.w.EN != 0 && v&l.w.EN == 0
	rnw := prev&l.w.RNW != 0
	switch {
	case rising && v&l.w.RNW != 0:
		l.startRead(v&l.w.RS != 0)
	case falling && rnw:
		l.endRead(prev&l.w.RS != 0)
	case falling:
		l.latch(prev&l.w.RS != 0, l.w.nibble(prev))
	}
}

func (l *LCD) startRead(rs bool) {
	if !l.reading {
		l.reading, l.readLow = true, false
		if rs {
			l.readValue = l.readData()
		} else {
			l.readValue = l.status()
		}
	}
	if l.readLow {
		l.drive = l.w.lines(l.readValue & 0x0f)
	} else {
		l.drive = l.w.lines(l.readValue >> 4)
	}
}

func (l *LCD) endRead(rs bool) {
	if l.fourBit && !l.readLow {
		l.readLow = true
		return
	}
	l.reading = false
	l.log = append(l.log, Access{RS: rs, Read: true, Value: l.readValue})
	if rs {
		l.advance(false)
	}
}

func (l *LCD) latch(rs bool, n byte) {
	if !l.fourBit {
		// D0..D3 aren't connected and read as low.
		l.exec(rs, n<<4)
		return
	}
	if !l.pending {
		l.pending, l.high = true, n
		return
	}
	l.pending = false
	l.exec(rs, l.high<<4|n)
}

func (l *LCD) exec(rs bool, v byte) {
	l.log = append(l.log, Access{RS: rs, Value: v})
	if rs {
		l.writeData(v)
		return
	}
	switch {
	case v&0x80 != 0:
		l.cg, l.ac = false, l.ddramAddress(v&0x7f)
	case v&0x40 != 0:
		l.cg, l.ac = true, v&0x3f
	case v&0x20 != 0:
		l.fourBit = v&0x10 == 0
		if !l.fourBit {
			l.pending = false
		}
		l.twoLines = v&0x08 != 0
		l.font5x10 = v&0x04 != 0
	case v&0x10 != 0:
		right := v&0x04 != 0
		if v&0x08 != 0 {
			if right {
				l.shift++
			} else {
				l.shift--
			}
		} else {
			l.move(right)
		}
	case v&0x08 != 0:
		l.on, l.cursor, l.blink = v&0x04 != 0, v&0x02 != 0, v&0x01 != 0
	case v&0x04 != 0:
		l.inc, l.autoShft = v&0x02 != 0, v&0x01 != 0
	case v&0x02 != 0:
		l.cg, l.ac, l.shift = false, 0, 0
	case v&0x01 != 0:
		for ix := range l.ddram {
			l.ddram[ix] = ' '
		}
		l.cg, l.ac, l.shift, l.inc = false, 0, 0, true
	}
}

func (l *LCD) writeData(v byte) {
	if l.cg {
		l.cgram[l.ac&0x3f] = v
	} else {
		l.ddram[l.ac&0x7f] = v
	}
	l.advance(true)
}

func (l *LCD) readData() byte {
	if l.cg {
		return l.cgram[l.ac&0x3f]
	}
	return l.ddram[l.ac&0x7f]
}

// ddramAddress moves an address outside the lines of the current mode to
// the start of the next line. One-line mode holds 0x00-0x4f, two-line mode
// 0x00-0x27 and 0x40-0x67.
func (l *LCD) ddramAddress(a byte) byte {
	if !l.twoLines {
		if a >= 80 {
			return 0
		}
		return a
	}
	switch {
	case a >= 0x68:
		return 0x00
	case a >= 0x40:
		return a
	case a >= 0x28:
		return 0x40
	}
	return a
}

func (l *LCD) status() byte {
	v := l.ac & 0x7f
	if l.busy {
		v |= 0x80
	}
	return v
}

// advance moves the address counter after a data access. Writes also shift
// the display when the entry mode asks for it.
func (l *LCD) advance(write bool) {
	l.move(l.inc)
	if write && l.autoShft && !l.cg {
		if l.inc {
			l.shift--
		} else {
			l.shift++
		}
	}
}

func (l *LCD) move(forward bool) {
	if l.cg {
		if forward {
			l.ac = (l.ac + 1) & 0x3f
		} else {
			l.ac = (l.ac - 1) & 0x3f
		}
		return
	}
	if !l.twoLines {
		if forward {
			l.ac = (l.ac + 1) % 80
		} else {
			l.ac = (l.ac + 79) % 80
		}
		return
	}
	switch {
	case forward && l.ac == 0x27:
		l.ac = 0x40
	case forward && l.ac == 0x67:
		l.ac = 0x00
	case forward:
		l.ac = l.ddramAddress(l.ac + 1)
	case l.ac == 0x00:
		l.ac = 0x67
	case l.ac == 0x40:
		l.ac = 0x27
	default:
		l.ac = l.ddramAddress(l.ac - 1)
	}
}

// Fail makes every following transfer return err. Fail(nil) restores the
// bus.
func (l *LCD) Fail(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
}

// SetBusy sets the busy flag returned by status reads.
func (l *LCD) SetBusy(busy bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.busy = busy
}

// Accesses returns the transfers executed so far and clears the log.
func (l *LCD) Accesses() []Access {
	l.mu.Lock()
	defer l.mu.Unlock()
	a := l.log
	l.log = nil
	return a
}

// Port returns the last value written to the expander.
func (l *LCD) Port() byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.port
}

// Backlight reports the backlight line.
func (l *LCD) Backlight() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.port&l.w.BL != 0
}

// FourBit reports whether the interface is in 4-bit mode.
func (l *LCD) FourBit() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fourBit
}

// AddressCounter returns the address counter.
func (l *LCD) AddressCounter() byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ac
}

// CGRAM returns a copy of the character generator RAM.
func (l *LCD) CGRAM() [64]byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cgram
}

// Text returns the DDRAM contents of a rows x cols panel, one string per
// row. The display shift isn't applied.
func (l *LCD) Text(rows, cols int) []string {
	s := l.Snapshot(rows, cols)
	out := make([]string, len(s.Chars))
	for ix, r := range s.Chars {
		out[ix] = string(r)
	}
	return out
}

// Snapshot is the visible state of a panel.
type Snapshot struct {
	Rows, Cols int
	// Chars holds the character codes by row.
	Chars     [][]byte
	CGRAM     [64]byte
	Font5x10  bool
	On        bool
	Backlight bool
	Cursor    bool
	Blink     bool
	// CursorRow and CursorCol are -1 when the address counter isn't on the
	// panel.
	CursorRow, CursorCol int
	Shift                int
}

// Snapshot captures the state of a rows x cols panel.
func (l *LCD) Snapshot(rows, cols int) Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := Snapshot{
		Rows:      rows,
		Cols:      cols,
		Chars:     make([][]byte, rows),
		CGRAM:     l.cgram,
		Font5x10:  l.font5x10,
		On:        l.on,
		Backlight: l.port&l.w.BL != 0,
		Cursor:    l.cursor,
		Blink:     l.blink,
		CursorRow: -1,
		CursorCol: -1,
		Shift:     l.shift,
	}
	for row := 0; row < rows; row++ {
		s.Chars[row] = make([]byte, cols)
		for col := 0; col < cols; col++ {
			a := l.address(row, col, cols)
			s.Chars[row][col] = l.ddram[a]
			if !l.cg && a == l.ac {
				s.CursorRow, s.CursorCol = row, col
			}
		}
	}
	return s
}

func (l *LCD) address(row, col, cols int) byte {
	if l.twoLines {
		return byte(0x40*(row%2)+cols*(row/2)+col) & 0x7f
	}
	return byte(cols*row+col) & 0x7f
}

var _ i2c.Bus = &LCD{}
var _ pcf857x.Transactor = &LCD{}
