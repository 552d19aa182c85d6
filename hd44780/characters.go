// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

// Character codes outside of ASCII for the A00 (Japanese) character ROM.
// 0x20-0x7d match ASCII except 0x5c which is the Yen sign.
const (
	A00YenSign         byte = 0x5c
	A00RightArrow      byte = 0x7e
	A00LeftArrow       byte = 0x7f
	A00KatakanaMiddle  byte = 0xa5
	A00KatakanaWo      byte = 0xa6
	A00ProlongedSound  byte = 0xb0
	A00KatakanaA       byte = 0xb1
	A00KatakanaKa      byte = 0xb6
	A00KatakanaSa      byte = 0xbb
	A00KatakanaTa      byte = 0xc0
	A00KatakanaNa      byte = 0xc5
	A00KatakanaHa      byte = 0xca
	A00KatakanaMa      byte = 0xcf
	A00KatakanaYa      byte = 0xd4
	A00KatakanaRa      byte = 0xd7
	A00KatakanaWa      byte = 0xdc
	A00KatakanaN       byte = 0xdd
	A00Dakuten         byte = 0xde
	A00Handakuten      byte = 0xdf
	A00Alpha           byte = 0xe0
	A00SmallADiaeresis byte = 0xe1
	A00Beta            byte = 0xe2
	A00Epsilon         byte = 0xe3
	A00Mu              byte = 0xe4
	A00Sigma           byte = 0xe5
	A00Rho             byte = 0xe6
	A00SquareRoot      byte = 0xe8
	A00Cent            byte = 0xec
	A00SmallODiaeresis byte = 0xef
	A00Theta           byte = 0xf2
	A00Infinity        byte = 0xf3
	A00Omega           byte = 0xf4
	A00SmallUDiaeresis byte = 0xf5
	A00CapitalSigma    byte = 0xf6
	A00Pi              byte = 0xf7
	A00Divide          byte = 0xfd
	A00FullBlock       byte = 0xff
	// Degree sign on most modules, the ROM calls it the small circle.
	A00Degree byte = 0xdf
)

// Character codes outside of ASCII for the A02 (European) character ROM.
// 0x20-0x7e match ASCII.
const (
	A02TriangleRight     byte = 0x10
	A02TriangleLeft      byte = 0x11
	A02DoubleQuoteLeft   byte = 0x12
	A02DoubleQuoteRight  byte = 0x13
	A02DoubleTriangleUp  byte = 0x14
	A02DoubleTriangleDn  byte = 0x15
	A02BlackCircle       byte = 0x16
	A02EnterSign         byte = 0x17
	A02UpArrow           byte = 0x18
	A02DownArrow         byte = 0x19
	A02RightArrow        byte = 0x1a
	A02LeftArrow         byte = 0x1b
	A02LessOrEqual       byte = 0x1c
	A02GreaterOrEqual    byte = 0x1d
	A02TriangleUp        byte = 0x1e
	A02TriangleDown      byte = 0x1f
	A02Pound             byte = 0xa3
	A02Section           byte = 0xa7
	A02Degree            byte = 0xb0
	A02Micro             byte = 0xb5
	A02CapitalADiaeresis byte = 0xc4
	A02CapitalODiaeresis byte = 0xd6
	A02CapitalUDiaeresis byte = 0xdc
	A02SharpS            byte = 0xdf
	A02SmallADiaeresis   byte = 0xe4
	A02SmallODiaeresis   byte = 0xf6
	A02SmallUDiaeresis   byte = 0xfc
	A02SmallYAcute       byte = 0xfd
	A02SmallThorn        byte = 0xfe
	A02SmallYDiaeresis   byte = 0xff
)

// Codes of the user defined characters for the 5x8 font. The controller
// ignores bit 3, so 0x00-0x07 address the same glyphs; these use 0x08-0x0f
// to stay clear of the NUL byte in strings.
const (
	CustomChar0 byte = 0x08 + iota
	CustomChar1
	CustomChar2
	CustomChar3
	CustomChar4
	CustomChar5
	CustomChar6
	CustomChar7
)

// Codes of the user defined characters for the 5x10 font. Only 4 glyphs fit
// in CGRAM and bit 0 is ignored.
const (
	CustomChar5x10_0 byte = 0x09
	CustomChar5x10_1 byte = 0x0b
	CustomChar5x10_2 byte = 0x0d
	CustomChar5x10_3 byte = 0x0f
)

// Hardware address-line masks applied to a custom character code per font.
const (
	glyphMask5x8  byte = 0b0000_0111
	glyphMask5x10 byte = 0b0000_0110
)
