// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"errors"
	"fmt"
	"strings"
)

const packageName = "hd44780"

var (
	// ErrTransport is returned when an I2C write, read or transaction fails.
	// The display controller may be left mid-transfer; re-run the
	// initialization before relying on it again.
	ErrTransport = errors.New("transport failure")
	// ErrFormat is returned when formatted text can't be rendered into the
	// output buffer.
	ErrFormat = errors.New("format failure")
	// ErrRange is returned for row/column or glyph requests outside of the
	// display geometry.
	ErrRange = errors.New("out of range")
	// ErrPinMap is returned when a pin map doesn't assign 8 distinct bits.
	ErrPinMap = errors.New("invalid pin map")
)

func wrap(err error) error {
	if err == nil || strings.HasPrefix(err.Error(), packageName) {
		return err
	}
	return fmt.Errorf("%s: %w", packageName, err)
}

func transportError(err error) error {
	return fmt.Errorf("%s: %w: %w", packageName, ErrTransport, err)
}
