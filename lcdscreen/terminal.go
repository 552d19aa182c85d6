// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdscreen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/GermanBionicSystems/charlcd/hd44780/hd44780sim"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	xdraw "golang.org/x/image/draw"
	"periph.io/x/conn/v3/display"
)

// TerminalOpts represents the options available for the terminal output.
type TerminalOpts struct {
	X, Y    int
	Palette *ansi256.Palette
	// Out defaults to a color capable stdout.
	Out io.Writer

	_ struct{}
}

// Terminal is a display.Drawer that prints its frame on the console, one
// ANSI colored block per pixel.
type Terminal struct {
	w       io.Writer
	palette ansi256.Palette
	img     *image.NRGBA
	lines   int

	buf bytes.Buffer
}

// NewTerminal returns a Terminal of opts.X by opts.Y pixels.
func NewTerminal(opts *TerminalOpts) *Terminal {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Out
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Terminal{
		w:       w,
		palette: *p,
		img:     image.NewNRGBA(image.Rect(0, 0, opts.X, opts.Y)),
	}
}

func (t *Terminal) String() string {
	return fmt.Sprintf("LCDTerminal{%dx%d}", t.img.Rect.Dx(), t.img.Rect.Dy())
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (t *Terminal) Halt() error {
	_, err := t.w.Write([]byte("\033[0m\n"))
	return err
}

// ColorModel implements display.Drawer.
func (t *Terminal) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (t *Terminal) Bounds() image.Rectangle {
	return t.img.Rect
}

// Draw implements display.Drawer. src is scaled to fit r.
func (t *Terminal) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(t.Bounds())
	srcR := src.Bounds()
	srcR.Min = srcR.Min.Add(sp)
	if r.Empty() || srcR.Empty() {
		return nil
	}
	xdraw.NearestNeighbor.Scale(t.img, r, src, srcR, xdraw.Src, nil)
	return t.refresh()
}

// Show renders a snapshot scaled to the terminal.
func (t *Terminal) Show(s *hd44780sim.Snapshot, opts *Opts) error {
	img := Render(s, opts)
	return t.Draw(t.Bounds(), img, img.Bounds().Min)
}

func (t *Terminal) refresh() error {
	t.buf.Reset()
	// Move back over the previous frame.
	if t.lines > 0 {
		_, _ = fmt.Fprintf(&t.buf, "\033[%dA", t.lines)
	}
	b := t.img.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		_, _ = t.buf.WriteString("\r\033[0m")
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _ = io.WriteString(&t.buf, t.palette.Block(t.img.NRGBAAt(x, y)))
		}
		_, _ = t.buf.WriteString("\033[0m\n")
	}
	t.lines = b.Dy()
	_, err := t.buf.WriteTo(t.w)
	return err
}

var _ display.Drawer = &Terminal{}
var _ fmt.Stringer = &Terminal{}
