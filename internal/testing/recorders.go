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

package testing

import (
	"context"
	"sync"
	"time"

	irrelay "github.com/ZaparooProject/go-irrelay"
	"github.com/ZaparooProject/go-irrelay/ir"
)

// Dispatch is one call seen by RecordingDispatcher.
type Dispatch struct {
	Encoding irrelay.Encoding
	Data     uint32
	Bits     uint8
}

// RecordingDispatcher records every Send. ErrFor, if set, picks the error
// returned for a call; it is consulted after the call is recorded.
type RecordingDispatcher struct {
	ErrFor func(d Dispatch) error
	calls  []Dispatch
	mu     sync.Mutex
}

// Send implements irrelay.Dispatcher.
func (r *RecordingDispatcher) Send(ctx context.Context, enc irrelay.Encoding, data uint32, bits uint8) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d := Dispatch{Encoding: enc, Data: data, Bits: bits}
	r.mu.Lock()
	r.calls = append(r.calls, d)
	r.mu.Unlock()
	if r.ErrFor != nil {
		return r.ErrFor(d)
	}
	return nil
}

// Calls returns a copy of the recorded calls.
func (r *RecordingDispatcher) Calls() []Dispatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Dispatch(nil), r.calls...)
}

// RecordingEmitter records every emitted train.
type RecordingEmitter struct {
	Err    error
	trains []ir.Train
	mu     sync.Mutex
}

// Emit implements ir.Emitter.
func (r *RecordingEmitter) Emit(ctx context.Context, t ir.Train) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.trains = append(r.trains, t)
	r.mu.Unlock()
	return r.Err
}

// Trains returns a copy of the recorded trains.
func (r *RecordingEmitter) Trains() []ir.Train {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ir.Train(nil), r.trains...)
}

// Sleeper records requested durations and returns immediately. OnSleep runs
// on every call before it returns.
type Sleeper struct {
	OnSleep   func(d time.Duration)
	durations []time.Duration
	mu        sync.Mutex
}

// Sleep implements irrelay.Sleeper.
func (s *Sleeper) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.durations = append(s.durations, d)
	s.mu.Unlock()
	if s.OnSleep != nil {
		s.OnSleep(d)
	}
	return nil
}

// Durations returns a copy of the recorded sleeps.
func (s *Sleeper) Durations() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.durations...)
}

// Total is the sum of all recorded sleeps.
func (s *Sleeper) Total() time.Duration {
	var total time.Duration
	for _, d := range s.Durations() {
		total += d
	}
	return total
}

// StatusLine records every level it is driven to. It also reads back the
// last level, so a sender can use it as its status input.
type StatusLine struct {
	levels []bool
	mu     sync.Mutex
}

// SetReady implements irrelay.StatusLine.
func (s *StatusLine) SetReady(ready bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels = append(s.levels, ready)
	return nil
}

// Ready returns the last level driven, or true if none was.
func (s *StatusLine) Ready() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.levels) == 0 {
		return true, nil
	}
	return s.levels[len(s.levels)-1], nil
}

// Levels returns a copy of the recorded levels.
func (s *StatusLine) Levels() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]bool(nil), s.levels...)
}

var (
	_ irrelay.Dispatcher = (*RecordingDispatcher)(nil)
	_ irrelay.Sleeper    = (*Sleeper)(nil)
	_ irrelay.StatusLine = (*StatusLine)(nil)
	_ ir.Emitter         = (*RecordingEmitter)(nil)
)
