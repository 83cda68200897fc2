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
)

// Error categories for the responder, the transports and the sender client.
var (
	// Transport errors - potentially retryable
	ErrTransportTimeout = errors.New("transport timeout")
	ErrTransportWrite   = errors.New("transport write failed")
	ErrTransportRead    = errors.New("transport read failed")
	ErrTransportClosed  = errors.New("transport is closed")

	// Frame and queue errors - never retryable, handled by omission
	ErrMalformedTransfer   = errors.New("malformed transfer")
	ErrInvalidFrame        = errors.New("invalid frame")
	ErrQueueFull           = errors.New("command queue full")
	ErrQueueFrozen         = errors.New("command queue frozen during playback")
	ErrUnsupportedEncoding = errors.New("unsupported encoding")

	// Sender errors
	ErrBusy       = errors.New("responder busy")
	ErrEmptyBatch = errors.New("empty batch")
)

// ErrorType represents the category of error for retry logic
type ErrorType int

const (
	// ErrorTypeTransient indicates a potentially retryable error
	ErrorTypeTransient ErrorType = iota
	// ErrorTypePermanent indicates a non-retryable error
	ErrorTypePermanent
	// ErrorTypeTimeout indicates a timeout error
	ErrorTypeTimeout
)

// TransportError wraps transport-level errors with additional context
type TransportError struct {
	Err       error     // Underlying error
	Op        string    // Operation that failed
	Port      string    // Port or bus identifier
	Type      ErrorType // Error category
	Retryable bool      // Whether the error is retryable
}

func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError builds a TransportError, classifying err for retries.
func NewTransportError(op, port string, err error) *TransportError {
	te := &TransportError{
		Op:   op,
		Port: port,
		Err:  err,
		Type: GetErrorType(err),
	}
	te.Retryable = te.Type != ErrorTypePermanent
	return te
}

// GetErrorType classifies err into an ErrorType.
func GetErrorType(err error) ErrorType {
	switch {
	case err == nil:
		return ErrorTypeTransient
	case errors.Is(err, ErrTransportTimeout):
		return ErrorTypeTimeout
	case IsFatal(err):
		return ErrorTypePermanent
	default:
		return ErrorTypeTransient
	}
}

// IsRetryable returns true if the error is potentially retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}

	switch {
	case errors.Is(err, ErrTransportTimeout),
		errors.Is(err, ErrTransportRead),
		errors.Is(err, ErrTransportWrite):
		return true
	default:
		return false
	}
}

// IsFatal returns true if the error indicates the bus or device is gone and
// the receive loop should stop entirely.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Type == ErrorTypePermanent
	}

	if isDeviceGoneError(err) {
		return true
	}

	switch {
	case errors.Is(err, ErrTransportClosed),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrClosedPipe):
		return true
	default:
		return false
	}
}

// isDeviceGoneError checks for OS-level errors raised when a USB serial
// adapter or GPIO chip disappears during I/O.
func isDeviceGoneError(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	switch errno {
	case syscall.ENODEV, syscall.ENXIO, syscall.EIO, syscall.EBADF:
		return true
	default:
		return false
	}
}
