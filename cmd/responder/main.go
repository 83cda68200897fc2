// Copyright 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command responder receives IR command frames over a serial line and plays
// them on an IR emitter, signalling busy/ready on a GPIO status pin.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	irrelay "github.com/ZaparooProject/go-irrelay"
	"github.com/ZaparooProject/go-irrelay/ir"
	"github.com/ZaparooProject/go-irrelay/ir/gpioled"
	"github.com/ZaparooProject/go-irrelay/statusline"
	"github.com/ZaparooProject/go-irrelay/transport/uart"
)

type config struct {
	devicePath string
	statusPin  string
	emitter    string
	lircPath   string
	ledPin     string
	capacity   int
	sessionLog string
	idleGap    time.Duration
	debug      bool
}

// Package-level flag variables
var (
	flagDevicePath string
	flagStatusPin  string
	flagEmitter    string
	flagLIRCPath   string
	flagLEDPin     string
	flagCapacity   int
	flagSessionLog string
	flagIdleGap    time.Duration
	flagDebug      bool
)

func init() {
	flag.StringVar(&flagDevicePath, "device", "", "Serial port the sender is attached to")
	flag.StringVar(&flagStatusPin, "status", "", "GPIO pin driven high when ready (disabled if empty)")
	flag.StringVar(&flagEmitter, "emitter", "lirc", "IR emitter: lirc or gpio")
	flag.StringVar(&flagLIRCPath, "lirc", "/dev/lirc0", "LIRC transmitter device")
	flag.StringVar(&flagLEDPin, "led", "", "GPIO pin wired to the IR LED (gpio emitter)")
	flag.IntVar(&flagCapacity, "capacity", irrelay.DefaultQueueCapacity, "Command queue capacity")
	flag.DurationVar(&flagIdleGap, "idle-gap", uart.DefaultIdleGap, "Line idle time that ends a transfer")
	flag.StringVar(&flagSessionLog, "session-log", "", "Directory for a debug session log (disabled if empty)")
	flag.BoolVar(&flagDebug, "debug", false, "Enable debug output")
}

func parseConfig() *config {
	cfg := &config{
		devicePath: flagDevicePath,
		statusPin:  flagStatusPin,
		emitter:    strings.ToLower(flagEmitter),
		lircPath:   flagLIRCPath,
		ledPin:     flagLEDPin,
		capacity:   flagCapacity,
		sessionLog: flagSessionLog,
		idleGap:    flagIdleGap,
		debug:      flagDebug,
	}

	if cfg.debug {
		irrelay.SetDebugEnabled(true)
	}

	return cfg
}

func (c *config) validate() error {
	if c.devicePath == "" {
		return errors.New("-device is required")
	}
	switch c.emitter {
	case "lirc":
		if c.lircPath == "" {
			return errors.New("-lirc cannot be empty with the lirc emitter")
		}
	case "gpio":
		if c.ledPin == "" {
			return errors.New("-led is required with the gpio emitter")
		}
	default:
		return fmt.Errorf("unsupported emitter: %s", c.emitter)
	}
	return nil
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// emitter pairs an ir.Emitter with its release function.
type emitter struct {
	ir.Emitter
	release func() error
}

func newEmitter(cfg *config) (*emitter, error) {
	switch cfg.emitter {
	case "gpio":
		led, err := gpioled.Open(cfg.ledPin)
		if err != nil {
			return nil, fmt.Errorf("failed to open IR LED: %w", err)
		}
		return &emitter{Emitter: led, release: led.Halt}, nil
	default:
		return openLIRC(cfg.lircPath)
	}
}

func run(ctx context.Context, cfg *config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	logger := newLogger(cfg.debug)
	irrelay.SetLogger(logger)

	if cfg.sessionLog != "" {
		path, err := irrelay.InitSessionLog(cfg.sessionLog)
		if err != nil {
			return err
		}
		_, _ = fmt.Printf("Session log: %s\n", path)
		defer func() { _ = irrelay.CloseSessionLog() }()
	}

	em, err := newEmitter(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := em.release(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to release emitter: %v\n", err)
		}
	}()

	dispatcher, err := ir.NewDispatcher(em)
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	var status irrelay.StatusLine
	if cfg.statusPin != "" {
		out, err := statusline.OpenOutput(cfg.statusPin)
		if err != nil {
			return fmt.Errorf("failed to open status pin: %w", err)
		}
		status = out
	}

	bus, err := uart.New(cfg.devicePath, uart.WithIdleGap(cfg.idleGap))
	if err != nil {
		return fmt.Errorf("failed to create UART transport: %w", err)
	}

	responder, err := irrelay.NewResponder(bus, dispatcher, status,
		irrelay.WithQueueCapacity(cfg.capacity),
		irrelay.WithLogger(logger))
	if err != nil {
		_ = bus.Close()
		return fmt.Errorf("failed to create responder: %w", err)
	}
	defer func() {
		if err := responder.Close(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to close responder: %v\n", err)
		}
		logger.Info("responder stopped", "stats", fmt.Sprintf("%+v", responder.Stats()))
	}()

	_, _ = fmt.Printf("Listening on %s. Press Ctrl+C to stop...\n", cfg.devicePath)
	return responder.Run(ctx)
}

func main() {
	flag.Parse()
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	cfg := parseConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		_, _ = fmt.Print("\nShutting down gracefully...\n")
		cancel()
	}()

	if err := run(ctx, cfg); err != nil {
		if errors.Is(err, context.Canceled) {
			return 0
		}
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
