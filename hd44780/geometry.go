// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import "fmt"

// Geometry describes the panel attached to the controller.
type Geometry struct {
	Rows  int
	Cols  int
	Lines LineMode
	Font  FontMode
}

// NewGeometry returns the geometry of a display using the 5x8 font.
func NewGeometry(rows, cols int, lines LineMode) Geometry {
	return Geometry{Rows: rows, Cols: cols, Lines: lines, Font: Font5x8}
}

// NewGeometry5x10 returns the geometry of a display using the 5x10 font. The
// controller only supports that font in one line mode.
func NewGeometry5x10(rows, cols int) Geometry {
	return Geometry{Rows: rows, Cols: cols, Lines: OneLine, Font: Font5x10}
}

// Validate checks that the geometry fits in DDRAM.
func (g Geometry) Validate() error {
	if g.Rows < 1 || g.Cols < 1 {
		return fmt.Errorf("%s: %w: %d rows, %d cols", packageName, ErrRange, g.Rows, g.Cols)
	}
	if g.Font == Font5x10 && g.Lines != OneLine {
		return fmt.Errorf("%s: %w: 5x10 font requires one line mode", packageName, ErrRange)
	}
	// 80 bytes of DDRAM, 40 per line in two line mode.
	if g.Rows*g.Cols > 80 {
		return fmt.Errorf("%s: %w: %dx%d exceeds DDRAM", packageName, ErrRange, g.Rows, g.Cols)
	}
	return nil
}

// Address returns the DDRAM address of the 0-based row and col.
//
// In two line mode the odd rows live in the second DDRAM line at 0x40, rows
// 2 and 3 of a four row panel continue the first and second lines.
func (g Geometry) Address(row, col int) (byte, error) {
	if row < 0 || col < 0 || row >= g.Rows || col >= g.Cols {
		return 0, fmt.Errorf("%s: %w: position (%d,%d) on %dx%d display", packageName, ErrRange, row, col, g.Rows, g.Cols)
	}
	if g.Lines == TwoLines {
		return byte(0x40*(row%2) + g.Cols*(row/2) + col), nil
	}
	return byte(g.Cols*row + col), nil
}

// glyphRows is the bitmap height of a custom character.
func (g Geometry) glyphRows() int {
	if g.Font == Font5x10 {
		return 10
	}
	return 8
}

func (g Geometry) glyphMask() byte {
	if g.Font == Font5x10 {
		return glyphMask5x10
	}
	return glyphMask5x8
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d %s %s", g.Rows, g.Cols, g.Lines, g.Font)
}
