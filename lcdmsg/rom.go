// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdmsg

import (
	"unicode"

	"github.com/GermanBionicSystems/charlcd/hd44780"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Runes with a glyph in the A00 ROM that differ from their Unicode value.
var romCodes = map[rune]byte{
	'¥': hd44780.A00YenSign,
	'→': hd44780.A00RightArrow,
	'←': hd44780.A00LeftArrow,
	'°': hd44780.A00Degree,
	'α': hd44780.A00Alpha,
	'ä': hd44780.A00SmallADiaeresis,
	'β': hd44780.A00Beta,
	'ß': hd44780.A00Beta,
	'ε': hd44780.A00Epsilon,
	'μ': hd44780.A00Mu,
	'µ': hd44780.A00Mu,
	'σ': hd44780.A00Sigma,
	'ρ': hd44780.A00Rho,
	'√': hd44780.A00SquareRoot,
	'¢': hd44780.A00Cent,
	'ö': hd44780.A00SmallODiaeresis,
	'θ': hd44780.A00Theta,
	'∞': hd44780.A00Infinity,
	'Ω': hd44780.A00Omega,
	'ü': hd44780.A00SmallUDiaeresis,
	'Σ': hd44780.A00CapitalSigma,
	'π': hd44780.A00Pi,
	'÷': hd44780.A00Divide,
	'█': hd44780.A00FullBlock,
}

// ToROM converts s to A00 character codes. Accents without a ROM glyph are
// stripped, remaining non ASCII runes become '?'.
func ToROM(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if c, ok := romCodes[r]; ok {
			out = append(out, c)
			continue
		}
		if r >= 0x20 && r < 0x7f && r != '\\' && r != '~' {
			out = append(out, byte(r))
			continue
		}
		out = append(out, fold(r))
	}
	return out
}

func fold(r rune) byte {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	s, _, err := transform.String(t, string(r))
	if err != nil || len(s) != 1 || s[0] < 0x20 || s[0] >= 0x7e || s[0] == '\\' {
		return '?'
	}
	return s[0]
}
