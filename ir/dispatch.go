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

package ir

import (
	"context"
	"errors"
	"fmt"

	irrelay "github.com/ZaparooProject/go-irrelay"
)

// Dispatcher maps a frame's encoding to its protocol encoder and hands the
// resulting pulse train to an emitter. It implements irrelay.Dispatcher.
type Dispatcher struct {
	emitter  Emitter
	encoders [irrelay.NumEncodings]Encoder
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher) error

// WithEncoder replaces the encoder used for one protocol family.
func WithEncoder(enc irrelay.Encoding, e Encoder) DispatcherOption {
	return func(d *Dispatcher) error {
		if !enc.Known() {
			return fmt.Errorf("%w: %v", irrelay.ErrUnsupportedEncoding, enc)
		}
		if e == nil {
			return errors.New("encoder cannot be nil")
		}
		d.encoders[enc] = e
		return nil
	}
}

// NewDispatcher returns a dispatcher with the standard encoder for every
// family.
func NewDispatcher(emitter Emitter, opts ...DispatcherOption) (*Dispatcher, error) {
	if emitter == nil {
		return nil, errors.New("emitter cannot be nil")
	}
	d := &Dispatcher{emitter: emitter}
	d.encoders[irrelay.EncodingRC6] = RC6{}
	d.encoders[irrelay.EncodingRC5] = RC5{}
	d.encoders[irrelay.EncodingNEC] = NEC{}
	d.encoders[irrelay.EncodingSony] = Sony{}
	d.encoders[irrelay.EncodingSamsung] = Samsung{}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Encoder returns the encoder for enc, or nil for an unknown family.
func (d *Dispatcher) Encoder(enc irrelay.Encoding) Encoder {
	if !enc.Known() {
		return nil
	}
	return d.encoders[enc]
}

// Send encodes data and blocks until the emitter has sent it. An unknown
// encoding emits nothing and returns an error wrapping
// irrelay.ErrUnsupportedEncoding.
func (d *Dispatcher) Send(ctx context.Context, enc irrelay.Encoding, data uint32, bits uint8) error {
	switch enc {
	case irrelay.EncodingRC6, irrelay.EncodingRC5, irrelay.EncodingNEC,
		irrelay.EncodingSony, irrelay.EncodingSamsung:
		train := d.encoders[enc].Encode(data, bits)
		if err := d.emitter.Emit(ctx, train); err != nil {
			return fmt.Errorf("emit %v: %w", enc, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %v", irrelay.ErrUnsupportedEncoding, enc)
	}
}

var _ irrelay.Dispatcher = (*Dispatcher)(nil)
