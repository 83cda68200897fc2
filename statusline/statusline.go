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

// Package statusline drives and reads the single-bit busy/ready signal
// between the responder and the sender: high means ready, low means busy.
package statusline

import (
	"errors"
	"fmt"

	irrelay "github.com/ZaparooProject/go-irrelay"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Level returns the line level that encodes ready.
func Level(ready bool) gpio.Level {
	if ready {
		return gpio.High
	}
	return gpio.Low
}

// Output is the responder end. It implements irrelay.StatusLine.
type Output struct {
	pin gpio.PinOut
}

// NewOutput wraps pin and drives it busy until the responder reports ready.
func NewOutput(pin gpio.PinOut) (*Output, error) {
	if pin == nil {
		return nil, errors.New("pin cannot be nil")
	}
	o := &Output{pin: pin}
	if err := o.SetReady(false); err != nil {
		return nil, err
	}
	return o, nil
}

// OpenOutput looks the pin up by name after initialising the periph host.
func OpenOutput(name string) (*Output, error) {
	pin, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return NewOutput(pin)
}

// SetReady drives the line.
func (o *Output) SetReady(ready bool) error {
	if err := o.pin.Out(Level(ready)); err != nil {
		return fmt.Errorf("failed to drive status line %s: %w", o.pin, err)
	}
	return nil
}

// Input is the sender end.
type Input struct {
	pin gpio.PinIn
}

// NewInput configures pin as an input with a pull-down, so a disconnected
// responder reads busy.
func NewInput(pin gpio.PinIn) (*Input, error) {
	if pin == nil {
		return nil, errors.New("pin cannot be nil")
	}
	if err := pin.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to configure status input %s: %w", pin, err)
	}
	return &Input{pin: pin}, nil
}

// OpenInput looks the pin up by name after initialising the periph host.
func OpenInput(name string) (*Input, error) {
	pin, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return NewInput(pin)
}

// Ready reads the line.
func (i *Input) Ready() (bool, error) {
	return i.pin.Read() == gpio.High, nil
}

func lookup(name string) (gpio.PinIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("unknown GPIO pin %q", name)
	}
	return pin, nil
}

var _ irrelay.StatusLine = (*Output)(nil)
