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

// Package uart carries frames over a serial line. A transfer is a burst of
// bytes followed by an idle gap, which gives the same one-call-per-transfer
// shape as an I2C slave receive.
package uart

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	irrelay "github.com/ZaparooProject/go-irrelay"
	"github.com/ZaparooProject/go-irrelay/internal/syncutil"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the line speed used by New.
	DefaultBaudRate = 115200
	// DefaultIdleGap is the read timeout that terminates a transfer.
	DefaultIdleGap = 5 * time.Millisecond
	// maxBurst bounds the bytes kept for one transfer; anything longer is
	// malformed regardless of its content.
	maxBurst = 4 * irrelay.FrameSize
)

// Transport implements irrelay.Bus and irrelay.FrameWriter over a serial port.
type Transport struct {
	port     serial.Port
	portName string
	idleGap  time.Duration
	writeMu  syncutil.Mutex
	closed   atomic.Bool
}

// Option configures a Transport.
type Option func(*options)

type options struct {
	baudRate int
	idleGap  time.Duration
}

// WithBaudRate sets the line speed.
func WithBaudRate(baud int) Option {
	return func(o *options) {
		if baud > 0 {
			o.baudRate = baud
		}
	}
}

// WithIdleGap sets how long the line must stay quiet to end a transfer.
func WithIdleGap(gap time.Duration) Option {
	return func(o *options) {
		if gap > 0 {
			o.idleGap = gap
		}
	}
}

// New opens portName at 8N1.
func New(portName string, opts ...Option) (*Transport, error) {
	o := options{baudRate: DefaultBaudRate, idleGap: DefaultIdleGap}
	for _, opt := range opts {
		opt(&o)
	}

	port, err := serial.Open(portName, &serial.Mode{
		BaudRate: o.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open UART port %s: %w", portName, err)
	}

	t, err := newWithPort(port, portName, o.idleGap)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	return t, nil
}

func newWithPort(port serial.Port, portName string, idleGap time.Duration) (*Transport, error) {
	if err := port.SetReadTimeout(idleGap); err != nil {
		return nil, fmt.Errorf("failed to set UART read timeout: %w", err)
	}
	return &Transport{
		port:     port,
		portName: portName,
		idleGap:  idleGap,
	}, nil
}

// Receive reads bursts until ctx is done or the port fails, calling handle
// once per burst. handle runs on this goroutine.
func (t *Transport) Receive(ctx context.Context, handle func(p []byte)) error {
	buf := make([]byte, 64)
	burst := make([]byte, 0, maxBurst)
	overflow := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := t.port.Read(buf)
		if err != nil {
			if t.closed.Load() {
				return irrelay.ErrTransportClosed
			}
			return irrelay.NewTransportError("Receive", t.portName,
				fmt.Errorf("%w: %w", irrelay.ErrTransportRead, err))
		}

		if n > 0 {
			room := maxBurst - len(burst)
			if n > room {
				overflow += n - room
				n = room
			}
			burst = append(burst, buf[:n]...)
			continue
		}

		// Read timed out: the line went idle and the transfer is complete.
		if len(burst) > 0 {
			if overflow > 0 {
				irrelay.Debugf("UART %s: transfer truncated, %d bytes discarded", t.portName, overflow)
			}
			handle(burst)
			burst = burst[:0]
			overflow = 0
		}
	}
}

// WriteFrame sends p as one transfer and holds the line idle long enough for
// the receiver to see the end of it.
func (t *Transport) WriteFrame(ctx context.Context, p []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.closed.Load() {
		return irrelay.ErrTransportClosed
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	for written := 0; written < len(p); {
		n, err := t.port.Write(p[written:])
		if err != nil {
			return irrelay.NewTransportError("WriteFrame", t.portName,
				fmt.Errorf("%w: %w", irrelay.ErrTransportWrite, err))
		}
		written += n
	}
	if err := t.port.Drain(); err != nil {
		return irrelay.NewTransportError("WriteFrame", t.portName,
			fmt.Errorf("%w: drain: %w", irrelay.ErrTransportWrite, err))
	}

	return irrelay.TimerSleeper{}.Sleep(ctx, 2*t.idleGap)
}

// Close closes the port; a blocked Receive returns ErrTransportClosed.
func (t *Transport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := t.port.Close(); err != nil && !errors.Is(err, irrelay.ErrTransportClosed) {
		return fmt.Errorf("failed to close UART port %s: %w", t.portName, err)
	}
	return nil
}

// Type returns the transport type
func (*Transport) Type() irrelay.TransportType {
	return irrelay.TransportUART
}

var (
	_ irrelay.Bus         = (*Transport)(nil)
	_ irrelay.FrameWriter = (*Transport)(nil)
)
