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
	"errors"
	"fmt"
	"log/slog"
)

// Config holds responder configuration options
type Config struct {
	// Logger receives engine and handler events. Nil uses the package logger.
	Logger *slog.Logger
	// Sleeper performs the pulse-train and button-repeat waits.
	Sleeper Sleeper
	// QueueCapacity is the number of frames one batch may hold.
	QueueCapacity int
}

// DefaultConfig returns the default responder configuration
func DefaultConfig() *Config {
	return &Config{
		QueueCapacity: DefaultQueueCapacity,
		Sleeper:       TimerSleeper{},
	}
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return Logger()
}

// Option represents a functional option for NewResponder
type Option func(*Config) error

// WithQueueCapacity sets the number of frames the command queue holds.
func WithQueueCapacity(capacity int) Option {
	return func(c *Config) error {
		if capacity < 1 {
			return fmt.Errorf("queue capacity must be at least 1, got %d", capacity)
		}
		if capacity > 255 {
			return fmt.Errorf("queue capacity must be at most 255, got %d", capacity)
		}
		c.QueueCapacity = capacity
		return nil
	}
}

// WithLogger sets the logger for responder events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithSleeper replaces the real-time sleeper, mainly for tests.
func WithSleeper(s Sleeper) Option {
	return func(c *Config) error {
		if s == nil {
			return errors.New("sleeper cannot be nil")
		}
		c.Sleeper = s
		return nil
	}
}
