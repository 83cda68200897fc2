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

package irrelay

import (
	"context"
)

// Bus is the responder side of the byte transport. Receive blocks, calling
// handle once per inbound transfer with the raw bytes of that transfer, until
// ctx is done or the bus fails. handle must not retain p.
//
// Implementations call handle from a single goroutine.
type Bus interface {
	Receive(ctx context.Context, handle func(p []byte)) error
	Close() error
}

// FrameWriter is the sender side of the byte transport: one call, one
// transfer.
type FrameWriter interface {
	WriteFrame(ctx context.Context, p []byte) error
}

// StatusLine drives the single-bit busy/ready output.
type StatusLine interface {
	SetReady(ready bool) error
}

// DefaultBusAddress is the 7-bit I2C address the responder answers on.
const DefaultBusAddress = 0x08

// TransportType represents the type of transport
type TransportType string

const (
	// TransportUART represents UART/serial transport.
	TransportUART TransportType = "uart"
	// TransportI2C represents I2C bus transport.
	TransportI2C TransportType = "i2c"
	// TransportMock represents an in-memory transport for testing
	TransportMock TransportType = "mock"
)

// StatusFunc adapts a function to StatusLine.
type StatusFunc func(ready bool) error

// SetReady implements StatusLine.
func (f StatusFunc) SetReady(ready bool) error {
	return f(ready)
}

type nopStatus struct{}

func (nopStatus) SetReady(bool) error { return nil }
