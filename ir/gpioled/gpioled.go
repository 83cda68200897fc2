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

// Package gpioled emits pulse trains by keying an IR LED from a GPIO pin:
// hardware PWM at the carrier frequency for marks, low for spaces.
package gpioled

import (
	"context"
	"errors"
	"fmt"

	irrelay "github.com/ZaparooProject/go-irrelay"
	"github.com/ZaparooProject/go-irrelay/ir"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// DefaultDuty is the carrier duty cycle used for marks.
const DefaultDuty = gpio.DutyMax / 3

// LED drives an IR LED. It implements ir.Emitter.
type LED struct {
	pin     gpio.PinOut
	sleeper irrelay.Sleeper
	duty    gpio.Duty
}

// Option configures an LED.
type Option func(*LED)

// WithDuty sets the carrier duty cycle used for marks.
func WithDuty(d gpio.Duty) Option {
	return func(l *LED) {
		if d.Valid() && d > 0 {
			l.duty = d
		}
	}
}

// WithSleeper replaces the timer used to hold marks and spaces.
func WithSleeper(s irrelay.Sleeper) Option {
	return func(l *LED) {
		if s != nil {
			l.sleeper = s
		}
	}
}

// New wraps pin and drives it low.
func New(pin gpio.PinOut, opts ...Option) (*LED, error) {
	if pin == nil {
		return nil, errors.New("pin cannot be nil")
	}
	l := &LED{pin: pin, sleeper: irrelay.TimerSleeper{}, duty: DefaultDuty}
	for _, opt := range opts {
		opt(l)
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("failed to drive %s low: %w", pin, err)
	}
	return l, nil
}

// Open initialises the periph host and looks the pin up by name, e.g.
// "GPIO18".
func Open(name string, opts ...Option) (*LED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("unknown GPIO pin %q", name)
	}
	return New(pin, opts...)
}

// Emit plays the train and leaves the LED off. Timing is only as good as the
// host scheduler; use a LIRC device where the kernel does the timing.
func (l *LED) Emit(ctx context.Context, t ir.Train) error {
	defer func() { _ = l.pin.Out(gpio.Low) }()

	for i, d := range t.Durations {
		var err error
		if i%2 == 0 {
			err = l.pin.PWM(l.duty, t.Carrier)
		} else {
			err = l.pin.Out(gpio.Low)
		}
		if err != nil {
			return fmt.Errorf("failed to key %s: %w", l.pin, err)
		}
		if err := l.sleeper.Sleep(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// Halt stops the carrier.
func (l *LED) Halt() error {
	if err := l.pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("failed to halt %s: %w", l.pin, err)
	}
	return nil
}

var _ ir.Emitter = (*LED)(nil)
