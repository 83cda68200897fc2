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
	"io"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "transport timeout retryable", err: ErrTransportTimeout, want: true},
		{name: "transport read retryable", err: ErrTransportRead, want: true},
		{name: "transport write retryable", err: ErrTransportWrite, want: true},
		{name: "wrapped write retryable", err: fmt.Errorf("frame 1: %w", ErrTransportWrite), want: true},
		{name: "closed not retryable", err: ErrTransportClosed, want: false},
		{name: "busy not retryable", err: ErrBusy, want: false},
		{name: "malformed not retryable", err: ErrMalformedTransfer, want: false},
		{name: "unsupported encoding not retryable", err: ErrUnsupportedEncoding, want: false},
		{name: "plain error not retryable", err: errors.New("x"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestIsFatal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "closed", err: ErrTransportClosed, want: true},
		{name: "eof", err: io.EOF, want: true},
		{name: "closed pipe", err: fmt.Errorf("read: %w", io.ErrClosedPipe), want: true},
		{name: "ENODEV", err: syscall.ENODEV, want: true},
		{name: "ENXIO", err: syscall.ENXIO, want: true},
		{name: "EIO", err: fmt.Errorf("write: %w", syscall.EIO), want: true},
		{name: "EBADF", err: syscall.EBADF, want: true},
		{name: "EAGAIN", err: syscall.EAGAIN, want: false},
		{name: "timeout", err: ErrTransportTimeout, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsFatal(tt.err))
		})
	}
}

func TestNewTransportError(t *testing.T) {
	t.Parallel()

	t.Run("transient", func(t *testing.T) {
		t.Parallel()
		err := NewTransportError("WriteFrame", "/dev/ttyUSB0", ErrTransportWrite)
		assert.Equal(t, ErrorTypeTransient, err.Type)
		assert.True(t, err.Retryable)
		assert.True(t, IsRetryable(err))
		assert.False(t, IsFatal(err))
		assert.Equal(t, "WriteFrame /dev/ttyUSB0: transport write failed", err.Error())
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()
		err := NewTransportError("Receive", "", ErrTransportTimeout)
		assert.Equal(t, ErrorTypeTimeout, err.Type)
		assert.True(t, IsRetryable(err))
		assert.Equal(t, "Receive: transport timeout", err.Error())
	})

	t.Run("device gone", func(t *testing.T) {
		t.Parallel()
		err := NewTransportError("Receive", "/dev/ttyUSB0", fmt.Errorf("read: %w", syscall.ENODEV))
		assert.Equal(t, ErrorTypePermanent, err.Type)
		assert.False(t, IsRetryable(err))
		assert.True(t, IsFatal(err))
		assert.ErrorIs(t, err, syscall.ENODEV)
	})
}

func TestTransportError_Unwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("nack")
	var err error = &TransportError{Op: "WriteFrame", Err: inner}
	assert.ErrorIs(t, fmt.Errorf("outer: %w", err), inner)

	var te *TransportError
	assert.ErrorAs(t, fmt.Errorf("outer: %w", err), &te)
	assert.Equal(t, "WriteFrame", te.Op)
}
