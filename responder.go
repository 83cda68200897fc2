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
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Responder wires a Bus, a Queue, a Receiver and an Engine together: the
// transmitting side of the relay.
type Responder struct {
	bus      Bus
	status   StatusLine
	queue    *Queue
	receiver *Receiver
	engine   *Engine
	logger   *slog.Logger
}

// NewResponder creates a responder reading frames from bus and playing them
// through dispatcher. status may be nil when no status line is wired.
func NewResponder(bus Bus, dispatcher Dispatcher, status StatusLine, opts ...Option) (*Responder, error) {
	if bus == nil {
		return nil, errors.New("bus cannot be nil")
	}
	if dispatcher == nil {
		return nil, errors.New("dispatcher cannot be nil")
	}
	if status == nil {
		status = nopStatus{}
	}

	cfg := DefaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("invalid responder option: %w", err)
		}
	}

	queue := NewQueue(cfg.QueueCapacity)
	engine := NewEngine(queue, dispatcher, status, cfg)
	return &Responder{
		bus:      bus,
		status:   status,
		queue:    queue,
		receiver: NewReceiver(queue, engine.Notify),
		engine:   engine,
		logger:   cfg.logger(),
	}, nil
}

// Run reports ready on the status line and serves the bus until ctx is done
// or the bus fails. It returns the bus error, or ctx.Err() on cancellation.
func (r *Responder) Run(ctx context.Context) error {
	if err := r.status.SetReady(true); err != nil {
		return fmt.Errorf("failed to drive status line ready: %w", err)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := r.engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			cancel(err)
		}
	}()
	go func() {
		defer wg.Done()
		err := r.bus.Receive(ctx, r.receiver.HandleTransfer)
		if err == nil {
			err = ErrTransportClosed
		}
		cancel(err)
	}()

	r.logger.Info("responder ready", "capacity", r.queue.Capacity())
	<-ctx.Done()
	wg.Wait()

	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	return context.Canceled
}

// Close closes the bus.
func (r *Responder) Close() error {
	if err := r.bus.Close(); err != nil {
		return fmt.Errorf("failed to close bus: %w", err)
	}
	return nil
}

// State returns the playback engine state.
func (r *Responder) State() State {
	return r.engine.State()
}

// Queue exposes the command queue for inspection.
func (r *Responder) Queue() *Queue {
	return r.queue
}

// HandleTransfer feeds one transfer to the receive handler, bypassing the bus.
func (r *Responder) HandleTransfer(p []byte) {
	r.receiver.HandleTransfer(p)
}

// Stats returns a snapshot of the responder counters.
func (r *Responder) Stats() Stats {
	return r.receiver.Stats().add(r.engine.Stats())
}
