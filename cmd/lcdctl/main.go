// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// lcdctl writes text to an HD44780 display behind a PCF8574 backpack.
//
// Each argument, or each line of -text, goes to one row:
//
//	lcdctl -rows 4 -cols 20 "Hello" "world"
//
// With -sim no hardware is needed; the result is printed, drawn on the
// terminal with -term or saved with -png.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/GermanBionicSystems/charlcd/internal/lcdflags"
	"github.com/GermanBionicSystems/charlcd/lcdmsg"
	"github.com/GermanBionicSystems/charlcd/lcdscreen"
	"github.com/GermanBionicSystems/charlcd/pcf857x"
	"github.com/sirupsen/logrus"
)

func mainImpl() error {
	var lf lcdflags.Flags
	lf.Register(flag.CommandLine)
	text := flag.String("text", "", "text to show, rows separated by \\n")
	read := flag.Bool("read", false, "read the first row back from the display")
	probe := flag.Bool("probe", false, "list the PCF8574 addresses answering on the bus")
	png := flag.String("png", "", "with -sim, save the display to this PNG file")
	term := flag.Bool("term", false, "with -sim, draw the display on the terminal")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()

	log := lcdflags.Logger(*verbose)
	bus, err := lf.OpenBus()
	if err != nil {
		return err
	}
	defer bus.Close()

	if *probe {
		return probeBus(bus, log)
	}

	lcd, err := lf.Open(bus, log)
	if err != nil {
		return err
	}
	log.WithField("display", lcd.String()).Debug("ready")

	msg := lcdmsg.Message{Lines: flag.Args()}
	if *text != "" {
		msg = lcdmsg.ParseMessage(strings.ReplaceAll(*text, `\n`, "\n"))
	}
	if len(msg.Lines) != 0 {
		if err := lcdmsg.NewHandler(lcd, nil, log).Show(msg); err != nil {
			return err
		}
	}

	if *read {
		if err := lcd.Position(0, 0); err != nil {
			return err
		}
		p := make([]byte, lcd.Cols())
		if err := lcd.ReadData(p); err != nil {
			return err
		}
		fmt.Printf("%q\n", p)
	}

	if bus.Sim == nil {
		return nil
	}
	snap := bus.Sim.Snapshot(lcd.Rows(), lcd.Cols())
	if *png != "" {
		if err := lcdscreen.SavePNG(*png, &snap, nil); err != nil {
			return err
		}
		log.WithField("file", *png).Info("saved")
	}
	if *term {
		opts := &lcdscreen.Opts{Scale: 1, Border: 1}
		size := lcdscreen.Size(&snap, opts)
		t := lcdscreen.NewTerminal(&lcdscreen.TerminalOpts{X: size.X, Y: size.Y})
		if err := t.Show(&snap, opts); err != nil {
			return err
		}
		return t.Halt()
	}
	if *png == "" {
		for _, row := range snap.Chars {
			fmt.Printf("|%s|\n", row)
		}
	}
	return nil
}

func probeBus(bus *lcdflags.Bus, log logrus.FieldLogger) error {
	found := 0
	for a := uint16(0x20); a <= 0x3f; a++ {
		if !pcf857x.ValidAddress(a) {
			continue
		}
		dev, err := pcf857x.New(bus, a)
		if err != nil {
			return err
		}
		v, err := dev.Read()
		if err != nil {
			log.WithError(err).WithField("addr", fmt.Sprintf("0x%02x", a)).Debug("no answer")
			continue
		}
		found++
		fmt.Printf("0x%02x: port=%08b\n", a, v)
	}
	if found == 0 {
		return errors.New("no PCF8574 found")
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "lcdctl: %s.\n", err)
		os.Exit(1)
	}
}
