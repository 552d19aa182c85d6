// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcdscreen draws the state of a simulated character LCD, either as
// an image or on a terminal using ANSI color codes.
//
// Useful to see what the display would show while the hardware is still in
// the mail.
package lcdscreen

import (
	"image"
	"image/color"
	"sync"

	"github.com/GermanBionicSystems/charlcd/hd44780/hd44780sim"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
)

// Opts represents the options available for rendering.
type Opts struct {
	// Scale is the size of one LCD dot in pixels.
	Scale int
	// Border is the margin around the characters, in dots.
	Border int
	// Mono draws ROM characters with Go Mono instead of the 7x13 bitmap font.
	Mono bool

	// Colors. Zero values select the yellow-green panel look.
	Background   color.Color
	BacklightOff color.Color
	Pixel        color.Color
}

// DefaultOpts renders at 3 pixels per dot with a 2 dot margin.
var DefaultOpts = Opts{Scale: 3, Border: 2}

var (
	panelGreen = color.RGBA{0x9a, 0xc8, 0x3a, 0xff}
	panelDark  = color.RGBA{0x3c, 0x46, 0x28, 0xff}
	dotOn      = color.RGBA{0x14, 0x28, 0x10, 0xff}
)

func (o *Opts) withDefaults() Opts {
	r := *o
	if r.Scale < 1 {
		r.Scale = 1
	}
	if r.Border < 0 {
		r.Border = 0
	}
	if r.Background == nil {
		r.Background = panelGreen
	}
	if r.BacklightOff == nil {
		r.BacklightOff = panelDark
	}
	if r.Pixel == nil {
		r.Pixel = dotOn
	}
	return r
}

func glyphRows(s *hd44780sim.Snapshot) int {
	if s.Font5x10 {
		return 10
	}
	return 8
}

// Size returns the size in pixels of the rendered snapshot.
func Size(s *hd44780sim.Snapshot, opts *Opts) image.Point {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := opts.withDefaults()
	w := 2*o.Border + s.Cols*6 - 1
	h := 2*o.Border + s.Rows*(glyphRows(s)+1) - 1
	return image.Point{X: w * o.Scale, Y: h * o.Scale}
}

// Render draws the snapshot. Character codes 0x00-0x0f are drawn from CGRAM
// dot by dot, other codes with a font approximating the A00 ROM.
func Render(s *hd44780sim.Snapshot, opts *Opts) image.Image {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := opts.withDefaults()
	size := Size(s, &o)
	dc := gg.NewContext(size.X, size.Y)
	if s.Backlight {
		dc.SetColor(o.Background)
	} else {
		dc.SetColor(o.BacklightOff)
	}
	dc.Clear()
	if !s.On {
		return dc.Image()
	}
	dc.SetFontFace(fontFace(o))
	sc := float64(o.Scale)
	gr := glyphRows(s)
	for row, codes := range s.Chars {
		for col, code := range codes {
			x := float64(o.Border+col*6) * sc
			y := float64(o.Border+row*(gr+1)) * sc
			cursor := row == s.CursorRow && col == s.CursorCol
			switch {
			case cursor && s.Blink:
				dc.SetColor(o.Pixel)
				dc.DrawRectangle(x, y, 5*sc, float64(gr)*sc)
				dc.Fill()
				continue
			case code < 0x10:
				drawGlyph(dc, s, code, x, y, sc, o.Pixel)
			case code == 0xff:
				dc.SetColor(o.Pixel)
				dc.DrawRectangle(x, y, 5*sc, float64(gr)*sc)
				dc.Fill()
			default:
				if r := romRune(code); r != ' ' {
					dc.SetColor(o.Pixel)
					dc.DrawStringAnchored(string(r), x+2.5*sc, y+float64(gr)*sc/2, 0.5, 0.5)
				}
			}
			if cursor && s.Cursor {
				dc.SetColor(o.Pixel)
				dc.DrawRectangle(x, y+float64(gr-1)*sc, 5*sc, sc)
				dc.Fill()
			}
		}
	}
	return dc.Image()
}

// SavePNG renders the snapshot to a PNG file.
func SavePNG(path string, s *hd44780sim.Snapshot, opts *Opts) error {
	return gg.SavePNG(path, Render(s, opts))
}

func drawGlyph(dc *gg.Context, s *hd44780sim.Snapshot, code byte, x, y, sc float64, c color.Color) {
	gr := glyphRows(s)
	base := int(code&0x07) << 3
	if s.Font5x10 {
		base = int(code&0x06) << 3
	}
	dc.SetColor(c)
	for dy := 0; dy < gr && base+dy < len(s.CGRAM); dy++ {
		bits := s.CGRAM[base+dy]
		for dx := 0; dx < 5; dx++ {
			if bits&(0x10>>dx) != 0 {
				dc.DrawRectangle(x+float64(dx)*sc, y+float64(dy)*sc, sc, sc)
			}
		}
	}
	dc.Fill()
}

// romRune maps the A00 character ROM to Unicode. Codes without a close
// match are shown as a middle dot.
func romRune(code byte) rune {
	switch {
	case code == 0x5c:
		return '¥'
	case code == 0x7e:
		return '→'
	case code == 0x7f:
		return '←'
	case code >= 0x20 && code < 0x7e:
		return rune(code)
	}
	if r, ok := romHigh[code]; ok {
		return r
	}
	return '·'
}

var romHigh = map[byte]rune{
	0xa0: ' ', 0xdf: '°', 0xe0: 'α', 0xe1: 'ä', 0xe2: 'β', 0xe3: 'ε', 0xe4: 'μ',
	0xe5: 'σ', 0xe6: 'ρ', 0xe8: '√', 0xec: '¢', 0xef: 'ö', 0xf2: 'θ', 0xf3: '∞',
	0xf4: 'Ω', 0xf5: 'ü', 0xf6: 'Σ', 0xf7: 'π', 0xfd: '÷',
}

var (
	monoOnce sync.Once
	monoFont *truetype.Font
	monoErr  error
)

func fontFace(o Opts) font.Face {
	if !o.Mono {
		return basicfont.Face7x13
	}
	monoOnce.Do(func() {
		monoFont, monoErr = truetype.Parse(gomono.TTF)
	})
	if monoErr != nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(monoFont, &truetype.Options{Size: float64(7 * o.Scale), Hinting: font.HintingFull})
}
