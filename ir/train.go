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

// Package ir turns code words into infrared pulse trains and dispatches them
// by protocol family.
package ir

import (
	"context"
	"time"

	"periph.io/x/conn/v3/physic"
)

// Common carrier frequencies.
const (
	Carrier36kHz = 36 * physic.KiloHertz
	Carrier38kHz = 38 * physic.KiloHertz
	Carrier40kHz = 40 * physic.KiloHertz
)

// Train is one burst of carrier-modulated marks separated by unmodulated
// spaces. Durations alternate mark, space, mark, ... and always start and end
// with a mark, so the length is odd for any non-empty train.
type Train struct {
	Durations []time.Duration
	Carrier   physic.Frequency
}

// Duration returns the total on-air time of the train.
func (t Train) Duration() time.Duration {
	var total time.Duration
	for _, d := range t.Durations {
		total += d
	}
	return total
}

// Marks returns the number of modulated pulses.
func (t Train) Marks() int {
	return (len(t.Durations) + 1) / 2
}

// Encoder converts a code word into a pulse train. bits is the number of
// significant bits in data; values above 32 are clamped.
type Encoder interface {
	Encode(data uint32, bits uint8) Train
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(data uint32, bits uint8) Train

// Encode implements Encoder.
func (f EncoderFunc) Encode(data uint32, bits uint8) Train {
	return f(data, bits)
}

// Emitter puts a pulse train on air and returns once it has been sent.
type Emitter interface {
	Emit(ctx context.Context, t Train) error
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(ctx context.Context, t Train) error

// Emit implements Emitter.
func (f EmitterFunc) Emit(ctx context.Context, t Train) error {
	return f(ctx, t)
}

// trainBuilder accumulates marks and spaces, merging adjacent runs of the
// same level. A leading space is dropped, and build drops a trailing one.
type trainBuilder struct {
	t Train
}

func newTrain(carrier physic.Frequency, sizeHint int) *trainBuilder {
	return &trainBuilder{t: Train{
		Carrier:   carrier,
		Durations: make([]time.Duration, 0, sizeHint),
	}}
}

func (b *trainBuilder) mark(d time.Duration) {
	n := len(b.t.Durations)
	if n%2 == 1 {
		b.t.Durations[n-1] += d
		return
	}
	b.t.Durations = append(b.t.Durations, d)
}

func (b *trainBuilder) space(d time.Duration) {
	n := len(b.t.Durations)
	switch {
	case n == 0:
		return
	case n%2 == 0:
		b.t.Durations[n-1] += d
	default:
		b.t.Durations = append(b.t.Durations, d)
	}
}

func (b *trainBuilder) build() Train {
	if n := len(b.t.Durations); n > 0 && n%2 == 0 {
		b.t.Durations = b.t.Durations[:n-1]
	}
	return b.t
}

func clampBits(bits uint8) int {
	if bits > 32 {
		return 32
	}
	return int(bits)
}

// msbFirst calls fn for the low bits of data, most significant first.
func msbFirst(data uint32, bits int, fn func(i int, one bool)) {
	for i := range bits {
		fn(i, data&(1<<(bits-1-i)) != 0)
	}
}

// lsbFirst calls fn for the low bits of data, least significant first.
func lsbFirst(data uint32, bits int, fn func(i int, one bool)) {
	for i := range bits {
		fn(i, data&(1<<i) != 0)
	}
}
