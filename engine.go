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
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/go-irrelay/internal/syncutil"
)

// Dispatcher hands one code word to the encoder for its protocol family and
// blocks until the pulse train has been emitted. Unknown encodings must
// return an error wrapping ErrUnsupportedEncoding without emitting anything.
type Dispatcher interface {
	Send(ctx context.Context, enc Encoding, data uint32, bits uint8) error
}

// DispatchFunc adapts a function to Dispatcher.
type DispatchFunc func(ctx context.Context, enc Encoding, data uint32, bits uint8) error

// Send implements Dispatcher.
func (f DispatchFunc) Send(ctx context.Context, enc Encoding, data uint32, bits uint8) error {
	return f(ctx, enc, data, bits)
}

// Sleeper waits for a fixed duration.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// TimerSleeper sleeps on a real timer and wakes early on cancellation.
type TimerSleeper struct{}

// Sleep implements Sleeper.
func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Engine plays committed batches from a Queue.
//
// Step is the cooperative body: each call performs the Idle to Busy
// transition or plays exactly one button repeat of the current frame. Run
// drives Step from its own goroutine and parks on the batch-ready signal while
// idle. Step and Run must not be called concurrently.
type Engine struct {
	queue      *Queue
	dispatcher Dispatcher
	status     StatusLine
	sleeper    Sleeper
	logger     *slog.Logger
	stats      *counters
	ready      chan struct{}

	progressMu syncutil.RWMutex
	progress   Progress
	state      atomic.Int32
}

// NewEngine creates an idle engine over queue. A nil status line is allowed.
func NewEngine(queue *Queue, dispatcher Dispatcher, status StatusLine, cfg *Config) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if status == nil {
		status = nopStatus{}
	}
	sleeper := cfg.Sleeper
	if sleeper == nil {
		sleeper = TimerSleeper{}
	}
	return &Engine{
		queue:      queue,
		dispatcher: dispatcher,
		status:     status,
		sleeper:    sleeper,
		logger:     cfg.logger(),
		stats:      &counters{},
		ready:      make(chan struct{}, 1),
	}
}

// Notify raises the batch-ready signal. It never blocks and is safe to call
// from the receive handler.
func (e *Engine) Notify() {
	select {
	case e.ready <- struct{}{}:
	default:
	}
}

// State returns the current engine state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Stats returns the engine's playback counters.
func (e *Engine) Stats() Stats {
	return e.stats.snapshot()
}

// Progress returns the engine's cursors.
func (e *Engine) Progress() Progress {
	e.progressMu.RLock()
	defer e.progressMu.RUnlock()
	return e.progress
}

// Run plays batches until ctx is done. A batch in progress is only abandoned
// by cancellation.
func (e *Engine) Run(ctx context.Context) error {
	for {
		if e.State() == StateIdle && !e.queue.Ready() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-e.ready:
			}
			continue
		}
		if err := e.Step(ctx); err != nil {
			return err
		}
	}
}

// Step advances the state machine by one unit of work. It returns an error
// only when ctx is cancelled during a wait or a dispatch.
func (e *Engine) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if e.State() == StateIdle {
		if e.queue.Ready() {
			e.begin()
		}
		return nil
	}

	p := e.Progress()
	if p.FrameIndex >= p.CommittedCount {
		e.finish()
		return nil
	}

	frame, ok := e.queue.FrameAt(p.FrameIndex)
	if !ok {
		// Queue was reset underneath us; nothing left to play.
		e.finish()
		return nil
	}
	if p.ButtonRepeatIndex == 0 {
		if err := frame.Validate(); err != nil {
			e.logger.Debug("playing frame with out-of-range fields",
				"index", p.FrameIndex, "frame", frame.String(), "err", err)
		}
	}

	if err := e.playButtonRepeat(ctx, frame); err != nil {
		return err
	}

	e.progressMu.Lock()
	e.progress.PulseTrainRepeatIndex = 0
	e.progress.ButtonRepeatIndex++
	if e.progress.ButtonRepeatIndex >= repeatCount(frame.ButtonRepeats) {
		e.progress.ButtonRepeatIndex = 0
		e.progress.FrameIndex++
	}
	done := e.progress.FrameIndex >= e.progress.CommittedCount
	e.progressMu.Unlock()

	if done {
		e.finish()
	}
	return nil
}

// begin freezes the queue and drives the status line busy before any
// transmission starts.
func (e *Engine) begin() {
	count := e.queue.Freeze()
	if err := e.status.SetReady(false); err != nil {
		e.logger.Warn("failed to drive status line busy", "err", err)
	}

	e.progressMu.Lock()
	e.progress = Progress{CommittedCount: count}
	e.progressMu.Unlock()

	e.state.Store(int32(StateBusy))
	e.logger.Debug("batch started", "frames", count)
}

// finish resets the queue and only then reports ready.
func (e *Engine) finish() {
	played := e.Progress().CommittedCount
	e.queue.Reset()

	e.progressMu.Lock()
	e.progress = Progress{}
	e.progressMu.Unlock()

	e.state.Store(int32(StateIdle))
	if err := e.status.SetReady(true); err != nil {
		e.logger.Warn("failed to drive status line ready", "err", err)
	}
	e.stats.batches.Add(1)
	e.logger.Debug("batch finished", "frames", played)
}

func (e *Engine) playButtonRepeat(ctx context.Context, frame Frame) error {
	pulses := repeatCount(frame.PulseTrainRepeats)
	for i := range pulses {
		e.progressMu.Lock()
		e.progress.PulseTrainRepeatIndex = i
		e.progressMu.Unlock()

		if err := e.dispatch(ctx, frame); err != nil {
			return err
		}
		if err := e.wait(ctx, uint16(frame.PulseTrainRepeatDelayMs)); err != nil {
			return err
		}
	}
	return e.wait(ctx, frame.ButtonRepeatDelayMs)
}

// dispatch sends one pulse train. Only cancellation is returned; encoder and
// emitter failures are counted and playback carries on.
func (e *Engine) dispatch(ctx context.Context, frame Frame) error {
	e.stats.dispatches.Add(1)
	err := e.dispatcher.Send(ctx, frame.Encoding, frame.Data, frame.BitCount)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, ErrUnsupportedEncoding):
		e.stats.unsupported.Add(1)
		e.logger.Debug("skipping unsupported encoding", "encoding", frame.Encoding.String())
	default:
		e.stats.emitErrors.Add(1)
		e.logger.Warn("pulse train emission failed", "encoding", frame.Encoding.String(), "err", err)
	}
	return nil
}

func (e *Engine) wait(ctx context.Context, ms uint16) error {
	if ms == 0 {
		return nil
	}
	return e.sleeper.Sleep(ctx, time.Duration(ms)*time.Millisecond)
}
