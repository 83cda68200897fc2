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

// Package i2c is the sender side of the I2C link: each frame is written to
// the responder's slave address in a single transaction.
package i2c

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"syscall"

	irrelay "github.com/ZaparooProject/go-irrelay"
	"github.com/ZaparooProject/go-irrelay/internal/syncutil"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// DefaultClockFreq is the standard-mode bus speed.
const DefaultClockFreq = 100 * physic.KiloHertz

// Transport implements irrelay.FrameWriter over an I2C master.
type Transport struct {
	bus     i2c.Bus
	closer  i2c.BusCloser
	dev     *i2c.Dev
	busName string
	mu      syncutil.Mutex
	closed  bool
}

// ParsePath splits "/dev/i2c-1:0x08" into bus name and address. A bare bus
// name yields irrelay.DefaultBusAddress.
func ParsePath(path string) (bus string, addr uint16, err error) {
	bus, rawAddr, found := strings.Cut(path, ":")
	if !found {
		return bus, irrelay.DefaultBusAddress, nil
	}
	v, err := strconv.ParseUint(rawAddr, 0, 7)
	if err != nil {
		return "", 0, fmt.Errorf("invalid I2C address %q: %w", rawAddr, err)
	}
	return bus, uint16(v), nil
}

// New opens the bus named by path (see ParsePath).
func New(path string) (*Transport, error) {
	busName, addr, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %s: %w", busName, err)
	}
	_ = bus.SetSpeed(DefaultClockFreq) // not every adapter supports it

	t := NewWithBus(bus, addr, busName)
	t.closer = bus
	return t, nil
}

// NewWithBus wraps an already open bus. Close leaves bus open.
func NewWithBus(bus i2c.Bus, addr uint16, name string) *Transport {
	return &Transport{
		bus:     bus,
		dev:     &i2c.Dev{Addr: addr, Bus: bus},
		busName: name,
	}
}

// WriteFrame performs one write transaction carrying p.
func (t *Transport) WriteFrame(ctx context.Context, p []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return irrelay.ErrTransportClosed
	}
	if err := t.dev.Tx(p, nil); err != nil {
		te := irrelay.NewTransportError("WriteFrame", t.busName,
			fmt.Errorf("%w: %w", irrelay.ErrTransportWrite, err))
		if isNack(err) {
			te.Type = irrelay.ErrorTypeTransient
			te.Retryable = true
		}
		return te
	}
	irrelay.Debugf("I2C %s: wrote %d bytes to 0x%02X", t.busName, len(p), t.dev.Addr)
	return nil
}

// isNack matches the errnos i2c-dev returns when no device acknowledges the
// address. The responder is still present and may answer the next attempt.
func isNack(err error) bool {
	return errors.Is(err, syscall.ENXIO) || errors.Is(err, syscall.EIO)
}

// Close releases the bus if New opened it.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	if t.closer == nil {
		return nil
	}
	if err := t.closer.Close(); err != nil {
		return fmt.Errorf("failed to close I2C bus %s: %w", t.busName, err)
	}
	return nil
}

// Type returns the transport type
func (*Transport) Type() irrelay.TransportType {
	return irrelay.TransportI2C
}

var _ irrelay.FrameWriter = (*Transport)(nil)
