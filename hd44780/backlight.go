// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"periph.io/x/conn/v3/display"
)

// The backpack switches the backlight with a single port line, so any
// intensity above zero turns it fully on.
func (lcd *Dev) Backlight(intensity display.Intensity) error {
	return lcd.SetBacklight(intensity > 0)
}

// SetBacklight turns the backlight on or off.
func (lcd *Dev) SetBacklight(on bool) error {
	return wrap(lcd.t.SetBacklight(on))
}

// BacklightOn reports the backlight state.
func (lcd *Dev) BacklightOn() bool {
	return lcd.t.Backlight()
}
