// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// lcdmqtt shows the messages published on an MQTT topic on an HD44780
// display. Each line of the payload goes to one row.
//
//	lcdmqtt -broker test.mosquitto.org:1883 -topic home/lcd
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"time"

	"github.com/GermanBionicSystems/charlcd/internal/lcdflags"
	"github.com/GermanBionicSystems/charlcd/lcdmsg"
	"github.com/sirupsen/logrus"
	mqtt "github.com/soypat/natiu-mqtt"
)

type config struct {
	broker   string
	topic    string
	id       string
	user     string
	pass     string
	timeout  time.Duration
	alive    time.Duration
	messages chan<- lcdmsg.Message
	log      logrus.FieldLogger
}

func mainImpl() error {
	var lf lcdflags.Flags
	lf.Register(flag.CommandLine)
	var c config
	flag.StringVar(&c.broker, "broker", "localhost:1883", "MQTT broker host:port")
	flag.StringVar(&c.topic, "topic", "lcd", "topic to subscribe to")
	flag.StringVar(&c.id, "id", "lcdmqtt", "MQTT client ID")
	flag.StringVar(&c.user, "user", "", "MQTT user name")
	flag.StringVar(&c.pass, "pass", "", "MQTT password, requires -user")
	flag.DurationVar(&c.timeout, "timeout", 5*time.Second, "connect and subscribe timeout")
	flag.DurationVar(&c.alive, "keepalive", time.Minute, "MQTT keepalive, pings are sent at half of it")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	if c.alive < 2*time.Second || c.alive > 0xffff*time.Second {
		return errors.New("-keepalive must be between 2s and 18h")
	}

	log := lcdflags.Logger(*verbose)
	bus, err := lf.OpenBus()
	if err != nil {
		return err
	}
	defer bus.Close()
	lcd, err := lf.Open(bus, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	messages := make(chan lcdmsg.Message, 4)
	c.messages = messages
	c.log = log.WithField("broker", c.broker)
	h := lcdmsg.NewHandler(lcd, messages, log)
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	lcdmsg.Send(messages, "MQTT", c.broker)
	for ctx.Err() == nil {
		err := session(ctx, &c)
		if ctx.Err() != nil {
			break
		}
		c.log.WithError(err).Warn("disconnected")
		lcdmsg.Send(messages, "Disconnected", "Reconnecting...")
		select {
		case <-ctx.Done():
		case <-time.After(2 * time.Second):
		}
	}
	<-done
	return lcd.Halt()
}

// session connects, subscribes and handles packets until the connection
// drops or ctx is done.
func session(ctx context.Context, c *config) error {
	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "tcp", c.broker)
	if err != nil {
		return err
	}
	defer conn.Close()
	// Unblock HandleNext on shutdown.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	client := mqtt.NewClient(mqtt.ClientConfig{
		Decoder: mqtt.DecoderNoAlloc{UserBuffer: make([]byte, 4096)},
		OnPub:   onPublish(c.messages, c.log),
	})
	var varconn mqtt.VariablesConnect
	varconn.SetDefaultMQTT([]byte(c.id))
	varconn.KeepAlive = uint16(c.alive / time.Second)
	if c.user != "" {
		varconn.Username = []byte(c.user)
		if c.pass != "" {
			varconn.Password = []byte(c.pass)
		}
	}

	lcdmsg.Send(c.messages, "MQTT Connect", c.broker)
	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return err
	}
	if err := client.StartConnect(conn, &varconn); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	for !client.IsConnected() {
		if err := client.HandleNext(); err != nil {
			return fmt.Errorf("connect: %w", err)
		}
	}
	c.log.Info("connected")

	subCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	err = client.Subscribe(subCtx, mqtt.VariablesSubscribe{
		PacketIdentifier: 1,
		TopicFilters: []mqtt.SubscribeRequest{
			{TopicFilter: []byte(c.topic), QoS: mqtt.QoS0},
		},
	})
	if err != nil {
		return fmt.Errorf("subscribe %q: %w", c.topic, err)
	}
	c.log.WithField("topic", c.topic).Info("subscribed")
	lcdmsg.Send(c.messages, "Waiting on", c.topic)

	if err := conn.SetDeadline(time.Time{}); err != nil {
		return err
	}
	hbCtx, stopHeartbeat := context.WithCancel(ctx)
	defer stopHeartbeat()
	go heartbeat(hbCtx, client, c.alive/2, c.log)
	for client.IsConnected() {
		if err := client.HandleNext(); err != nil {
			return err
		}
	}
	return client.Err()
}

// heartbeat sends a ping every interval until ctx is done, so that an idle
// subscription isn't dropped by the broker. The response is consumed by the
// HandleNext loop.
func heartbeat(ctx context.Context, p interface{ StartPing() error }, interval time.Duration, log logrus.FieldLogger) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := p.StartPing(); err != nil {
				log.WithError(err).Warn("ping failed")
				return
			}
			log.Debug("ping")
		}
	}
}

// onPublish forwards each payload to the display.
func onPublish(messages chan<- lcdmsg.Message, log logrus.FieldLogger) func(mqtt.Header, mqtt.VariablesPublish, io.Reader) error {
	return func(_ mqtt.Header, varPub mqtt.VariablesPublish, r io.Reader) error {
		payload, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		entry := log.WithField("topic", string(varPub.TopicName))
		msg := lcdmsg.ParseMessage(string(payload))
		if !lcdmsg.Send(messages, msg.Lines...) {
			entry.Warn("display busy, message dropped")
			return nil
		}
		entry.WithField("lines", len(msg.Lines)).Debug("received")
		return nil
	}
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "lcdmqtt: %s.\n", err)
		os.Exit(1)
	}
}
