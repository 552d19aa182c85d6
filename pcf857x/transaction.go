// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcf857x

import "fmt"

// Op is one step of a transaction. Exactly one of W or R is set: W is
// written to the port, R is filled from it.
type Op struct {
	W []byte
	R []byte
}

// Transactor is implemented by buses that can run an ordered list of
// operations against one peripheral as a single bus access, with no traffic
// from other peripherals interleaved.
type Transactor interface {
	Transaction(addr uint16, ops []Op) error
}

// Transaction runs ops in order against the device.
//
// If the bus implements Transactor the whole list is handed to it. Otherwise
// each write immediately followed by a read is folded into one Tx (a
// write/repeated-start/read) and the remaining operations are issued one Tx
// each. The fallback is serialised against other calls on dev but not
// against other users of the bus.
func (dev *Dev) Transaction(ops []Op) error {
	for ix, op := range ops {
		if (len(op.W) == 0) == (len(op.R) == 0) {
			return fmt.Errorf("%w: op %d needs exactly one of W or R", ErrOp, ix)
		}
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	var err error
	if t, ok := dev.bus.(Transactor); ok {
		err = t.Transaction(dev.addr, ops)
	} else {
		err = dev.sequential(ops)
	}
	if err != nil {
		return fmt.Errorf("pcf857x: %w", err)
	}
	for ix := len(ops) - 1; ix >= 0; ix-- {
		if len(ops[ix].W) > 0 {
			dev.value = ops[ix].W[len(ops[ix].W)-1]
			break
		}
	}
	return nil
}

func (dev *Dev) sequential(ops []Op) error {
	for ix := 0; ix < len(ops); ix++ {
		w, r := ops[ix].W, ops[ix].R
		if len(w) > 0 && ix+1 < len(ops) && len(ops[ix+1].R) > 0 {
			r = ops[ix+1].R
			ix++
		}
		if err := dev.bus.Tx(dev.addr, w, r); err != nil {
			return err
		}
	}
	return nil
}
