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

// Package sender is the client side of the relay: it checks the status line,
// frames a batch so that only its last frame is committed, and writes each
// frame as one transfer.
package sender

import (
	"context"
	"errors"
	"fmt"
	"time"

	irrelay "github.com/ZaparooProject/go-irrelay"
)

// DefaultPollInterval is how often WaitReady samples the status line.
const DefaultPollInterval = 10 * time.Millisecond

// ReadyReader reports the responder's status line.
type ReadyReader interface {
	Ready() (bool, error)
}

// Client sends batches to a responder.
type Client struct {
	writer       irrelay.FrameWriter
	status       ReadyReader
	retry        *irrelay.RetryConfig
	pollInterval time.Duration
}

// Option configures a Client.
type Option func(*Client) error

// WithStatus makes SendBatch refuse to send while the responder is busy.
// Without it the client sends blind.
func WithStatus(r ReadyReader) Option {
	return func(c *Client) error {
		if r == nil {
			return errors.New("status reader cannot be nil")
		}
		c.status = r
		return nil
	}
}

// WithRetryConfig replaces the per-frame retry policy.
func WithRetryConfig(cfg *irrelay.RetryConfig) Option {
	return func(c *Client) error {
		c.retry = cfg
		return nil
	}
}

// WithPollInterval sets the WaitReady sampling period.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("poll interval must be positive, got %v", d)
		}
		c.pollInterval = d
		return nil
	}
}

// New returns a Client writing through w.
func New(w irrelay.FrameWriter, opts ...Option) (*Client, error) {
	if w == nil {
		return nil, errors.New("frame writer cannot be nil")
	}
	c := &Client{
		writer:       w,
		retry:        irrelay.DefaultRetryConfig(),
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Ready reports whether the responder can take a batch. A client without a
// status reader always reports ready.
func (c *Client) Ready() (bool, error) {
	if c.status == nil {
		return true, nil
	}
	ready, err := c.status.Ready()
	if err != nil {
		return false, fmt.Errorf("failed to read status line: %w", err)
	}
	return ready, nil
}

// SendBatch writes frames in order. The Committed flag of each frame is
// overwritten: only the last one carries it. Frames are not validated, the
// responder skips what it cannot play.
func (c *Client) SendBatch(ctx context.Context, frames []irrelay.Frame) error {
	if len(frames) == 0 {
		return irrelay.ErrEmptyBatch
	}

	ready, err := c.Ready()
	if err != nil {
		return err
	}
	if !ready {
		return irrelay.ErrBusy
	}

	last := len(frames) - 1
	for i, frame := range frames {
		frame.Committed = i == last
		buf := irrelay.EncodeFrame(frame)

		err := irrelay.RetryWithConfig(ctx, c.retry, func() error {
			return c.writer.WriteFrame(ctx, buf[:])
		})
		if err != nil {
			return fmt.Errorf("failed to send frame %d of %d: %w", i+1, len(frames), err)
		}
		irrelay.Debugf("sent frame %d/%d: %v", i+1, len(frames), frame)
	}
	return nil
}

// Send writes a single committed frame.
func (c *Client) Send(ctx context.Context, frame irrelay.Frame) error {
	return c.SendBatch(ctx, []irrelay.Frame{frame})
}

// WaitReady blocks until the status line reads ready or ctx is done.
func (c *Client) WaitReady(ctx context.Context) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		ready, err := c.Ready()
		if err != nil {
			return err
		}
		if ready {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
