// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import "time"

// Transport moves bytes between the host and the controller. rs selects the
// data register (true) or the instruction register (false).
//
// Implementations are not safe for concurrent use. A call that fails part way
// leaves the controller in an unknown bus state and Init has to be run again.
type Transport interface {
	// Init runs the power-on handshake that puts the controller in 4-bit
	// mode with the given function set.
	Init(lines LineMode, font FontMode) error
	SendByte(rs bool, b byte) error
	// SendBytes sends p in order. Bytes sent before a failure stay sent.
	SendBytes(rs bool, p []byte) error
	ReceiveByte(rs bool) (byte, error)
	ReceiveBytes(rs bool, p []byte) error
	// SetBacklight changes the backlight line. The state is re-asserted by
	// every following transfer.
	SetBacklight(on bool) error
	Backlight() bool
	// Delay blocks for at least d.
	Delay(d time.Duration)
}
