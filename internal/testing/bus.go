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

// Package testing holds in-memory collaborators for exercising the responder
// without hardware: a bus, recording emitter and dispatcher, a sleeper that
// does not sleep and a recording status line.
package testing

import (
	"context"
	"sync"

	irrelay "github.com/ZaparooProject/go-irrelay"
)

// Bus is an in-memory irrelay.Bus and irrelay.FrameWriter. Every Send or
// WriteFrame is one transfer, handed to Receive in order.
type Bus struct {
	transfers chan []byte
	done      chan struct{}
	failErr   error
	closeOnce sync.Once
	mu        sync.Mutex
	delivered int
}

// NewBus returns a Bus buffering up to 256 pending transfers.
func NewBus() *Bus {
	return &Bus{
		transfers: make(chan []byte, 256),
		done:      make(chan struct{}),
	}
}

// Send queues p as one transfer. It reports false once the bus is closed.
func (b *Bus) Send(p []byte) bool {
	select {
	case <-b.done:
		return false
	default:
	}
	select {
	case b.transfers <- append([]byte(nil), p...):
		return true
	case <-b.done:
		return false
	}
}

// WriteFrame implements irrelay.FrameWriter.
func (b *Bus) WriteFrame(ctx context.Context, p []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !b.Send(p) {
		return irrelay.ErrTransportClosed
	}
	return nil
}

// Receive implements irrelay.Bus. It returns nil after Close, the error
// passed to Fail, or ctx.Err().
func (b *Bus) Receive(ctx context.Context, handle func(p []byte)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.done:
			return b.failErr
		case p := <-b.transfers:
			handle(p)
			b.mu.Lock()
			b.delivered++
			b.mu.Unlock()
		}
	}
}

// Delivered is the number of transfers Receive has handed out.
func (b *Bus) Delivered() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.delivered
}

// Fail stops Receive with err.
func (b *Bus) Fail(err error) {
	b.closeOnce.Do(func() {
		b.failErr = err
		close(b.done)
	})
}

// Close implements irrelay.Bus.
func (b *Bus) Close() error {
	b.Fail(nil)
	return nil
}

// Type returns the transport type
func (*Bus) Type() irrelay.TransportType {
	return irrelay.TransportMock
}

var (
	_ irrelay.Bus         = (*Bus)(nil)
	_ irrelay.FrameWriter = (*Bus)(nil)
)
