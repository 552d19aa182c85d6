// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcdmsg shows text messages on a character display from a channel.
//
// Example usage:
//
//	messages := make(chan lcdmsg.Message, 10)
//	h := lcdmsg.NewHandler(lcd, messages, logger)
//	go h.Run(ctx)
//
//	// Never blocks; the message is dropped when the channel is full.
//	lcdmsg.Send(messages, "Status", "OK")
package lcdmsg

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// Display is the part of hd44780.Dev used by the handler.
type Display interface {
	Clear() error
	Position(row, col int) error
	Write(p []byte) (int, error)
	Rows() int
	Cols() int
}

// Message is the content of the whole display, one string per row.
type Message struct {
	Lines []string
}

// ParseMessage splits text on newlines.
func ParseMessage(text string) Message {
	text = strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	return Message{Lines: strings.Split(text, "\n")}
}

// Send queues a message without blocking. It returns false when the message
// was dropped.
func Send(messages chan<- Message, lines ...string) bool {
	select {
	case messages <- Message{Lines: lines}:
		return true
	default:
		return false
	}
}

// Handler writes the messages of a channel to a display. It is the only user
// of the display while Run executes.
type Handler struct {
	d        Display
	messages <-chan Message
	log      logrus.FieldLogger
}

// NewHandler returns a handler for d. A nil logger uses the logrus standard
// logger.
func NewHandler(d Display, messages <-chan Message, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{d: d, messages: messages, log: log}
}

// Run shows messages until ctx is done or the channel is closed. Display
// errors are logged and the next message is processed.
func (h *Handler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-h.messages:
			if !ok {
				return nil
			}
			if err := h.Show(msg); err != nil {
				h.log.WithError(err).WithField("lines", len(msg.Lines)).Warn("display update failed")
			}
		}
	}
}

// Show clears the display and writes each line at the start of its row.
// Lines are cut at the display width and lines beyond the last row are
// dropped.
func (h *Handler) Show(msg Message) error {
	if err := h.d.Clear(); err != nil {
		return err
	}
	rows, cols := h.d.Rows(), h.d.Cols()
	if len(msg.Lines) > rows {
		h.log.WithField("dropped", len(msg.Lines)-rows).Debug("too many lines")
	}
	for row, line := range msg.Lines {
		if row >= rows {
			break
		}
		b := ToROM(line)
		if len(b) > cols {
			b = b[:cols]
		}
		if len(b) == 0 {
			continue
		}
		if err := h.d.Position(row, 0); err != nil {
			return err
		}
		if _, err := h.d.Write(b); err != nil {
			return err
		}
	}
	return nil
}
