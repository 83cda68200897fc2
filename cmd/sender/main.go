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

// Command sender watches two buttons and sends IR command batches to a
// responder over I2C or a serial line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	irrelay "github.com/ZaparooProject/go-irrelay"
	"github.com/ZaparooProject/go-irrelay/sender"
	"github.com/ZaparooProject/go-irrelay/statusline"
	"github.com/ZaparooProject/go-irrelay/transport/i2c"
	"github.com/ZaparooProject/go-irrelay/transport/uart"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpioutil"
	"periph.io/x/host/v3"
)

const (
	denoise  = 5 * time.Millisecond
	debounce = 50 * time.Millisecond
	// edgePoll bounds how long a button watcher blocks before rechecking ctx.
	edgePoll = 100 * time.Millisecond
)

type config struct {
	busPath   string
	statusPin string
	button1   string
	button2   string
	debug     bool
}

// Package-level flag variables
var (
	flagBusPath   string
	flagStatusPin string
	flagButton1   string
	flagButton2   string
	flagDebug     bool
)

func init() {
	flag.StringVar(&flagBusPath, "bus", "/dev/i2c-1", "I2C bus (optionally bus:addr) or serial port of the responder")
	flag.StringVar(&flagStatusPin, "status", "", "GPIO pin reading the responder status line (send blind if empty)")
	flag.StringVar(&flagButton1, "button1", "GPIO17", "GPIO pin of the batch button")
	flag.StringVar(&flagButton2, "button2", "GPIO27", "GPIO pin of the single-frame button")
	flag.BoolVar(&flagDebug, "debug", false, "Enable debug output")
}

func parseConfig() *config {
	cfg := &config{
		busPath:   flagBusPath,
		statusPin: flagStatusPin,
		button1:   flagButton1,
		button2:   flagButton2,
		debug:     flagDebug,
	}

	if cfg.debug {
		irrelay.SetDebugEnabled(true)
	}

	return cfg
}

// demoFrame is the RC6 set-top-box code played by both buttons.
func demoFrame() irrelay.Frame {
	return irrelay.Frame{
		Encoding:                irrelay.EncodingRC6,
		Data:                    0xC05C01,
		BitCount:                24,
		PulseTrainRepeats:       2,
		PulseTrainRepeatDelayMs: 124,
		ButtonRepeats:           1,
		ButtonRepeatDelayMs:     400,
	}
}

// batchFrames is the button 1 batch: the frame, then its committed replay.
func batchFrames() []irrelay.Frame {
	return []irrelay.Frame{demoFrame(), demoFrame()}
}

// writer is a FrameWriter that can be closed.
type writer interface {
	irrelay.FrameWriter
	Close() error
}

func newWriter(path string) (writer, error) {
	if strings.Contains(strings.ToLower(path), "i2c") {
		t, err := i2c.New(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create I2C transport for %s: %w", path, err)
		}
		return t, nil
	}
	t, err := uart.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create UART transport for %s: %w", path, err)
	}
	return t, nil
}

func openButton(name string) (gpio.PinIO, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("unknown GPIO pin %q", name)
	}
	if err := pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return nil, fmt.Errorf("failed to configure %s: %w", name, err)
	}
	debounced, err := gpioutil.Debounce(pin, denoise, debounce, gpio.FallingEdge)
	if err != nil {
		return nil, fmt.Errorf("failed to debounce %s: %w", name, err)
	}
	return debounced, nil
}

type edgeWaiter interface {
	WaitForEdge(timeout time.Duration) bool
}

// watchButton calls press on every edge until ctx is done. Failed sends are
// reported and the watch continues.
func watchButton(ctx context.Context, name string, pin edgeWaiter, press func(context.Context) error) {
	for ctx.Err() == nil {
		if !pin.WaitForEdge(edgePoll) {
			continue
		}
		if err := press(ctx); err != nil {
			if errors.Is(err, irrelay.ErrBusy) {
				_, _ = fmt.Printf("%s: responder busy, press ignored\n", name)
				continue
			}
			if ctx.Err() != nil {
				return
			}
			_, _ = fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			continue
		}
		_, _ = fmt.Printf("%s: sent\n", name)
	}
}

func run(ctx context.Context, cfg *config) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph host: %w", err)
	}

	w, err := newWriter(cfg.busPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := w.Close(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to close transport: %v\n", err)
		}
	}()

	var opts []sender.Option
	if cfg.statusPin != "" {
		in, err := statusline.OpenInput(cfg.statusPin)
		if err != nil {
			return fmt.Errorf("failed to open status pin: %w", err)
		}
		opts = append(opts, sender.WithStatus(in))
	}
	client, err := sender.New(w, opts...)
	if err != nil {
		return fmt.Errorf("failed to create sender: %w", err)
	}

	b1, err := openButton(cfg.button1)
	if err != nil {
		return err
	}
	b2, err := openButton(cfg.button2)
	if err != nil {
		return err
	}

	_, _ = fmt.Println("Waiting for button presses. Press Ctrl+C to stop...")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		watchButton(ctx, "button1", b1, func(ctx context.Context) error {
			return client.SendBatch(ctx, batchFrames())
		})
	}()
	go func() {
		defer wg.Done()
		watchButton(ctx, "button2", b2, func(ctx context.Context) error {
			return client.Send(ctx, demoFrame())
		})
	}()
	wg.Wait()

	return ctx.Err()
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
