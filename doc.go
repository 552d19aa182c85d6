// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package charlcd is a container for the HD44780 character LCD driver and
// its tools.
//
// The driver is in hd44780, the PCF8574 I²C expander it talks through in
// pcf857x. hd44780/hd44780sim simulates the display, lcdscreen draws the
// simulated display and lcdmsg feeds text messages to a display.
package charlcd
