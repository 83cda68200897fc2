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

//go:build linux

// Package lircdev emits pulse trains through a Linux LIRC character device
// such as /dev/lirc0, the interface exposed by gpio-ir-tx, pwm-ir-tx and most
// USB IR blasters.
package lircdev

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-irrelay/internal/syncutil"
	"github.com/ZaparooProject/go-irrelay/ir"
	"golang.org/x/sys/unix"
	"periph.io/x/conn/v3/physic"
)

// DefaultPath is the first LIRC device on most systems.
const DefaultPath = "/dev/lirc0"

// ioctl requests and feature bits from <linux/lirc.h>.
const (
	lircGetFeatures         = 0x80046900 // _IOR('i', 0x00, __u32)
	lircSetSendCarrier      = 0x40046913 // _IOW('i', 0x13, __u32)
	lircSetSendDutyCycle    = 0x40046915 // _IOW('i', 0x15, __u32)
	lircCanSendPulse        = 0x00000002
	lircCanSetSendCarrier   = 0x00000100
	lircCanSetSendDutyCycle = 0x00000200
)

// ErrCannotSend is returned when the device has no transmitter.
var ErrCannotSend = errors.New("lirc device cannot send pulses")

// Device is an open LIRC transmitter. It implements ir.Emitter.
type Device struct {
	path     string
	mu       syncutil.Mutex
	fd       int
	features uint32
	carrier  physic.Frequency
	duty     int
}

// Option configures a Device.
type Option func(*Device)

// WithDutyCycle sets the carrier duty cycle in percent (1-99). Devices that
// cannot change it ignore the setting.
func WithDutyCycle(percent int) Option {
	return func(d *Device) {
		if percent > 0 && percent < 100 {
			d.duty = percent
		}
	}
}

// Open opens the LIRC device at path and checks it can transmit.
func Open(path string, opts ...Option) (*Device, error) {
	if path == "" {
		path = DefaultPath
	}
	d := &Device{path: path, fd: -1, duty: 33}
	for _, opt := range opts {
		opt(d)
	}

	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open LIRC device %s: %w", path, err)
	}
	d.fd = fd

	features, err := unix.IoctlGetUint32(fd, lircGetFeatures)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("failed to read LIRC features from %s: %w", path, err)
	}
	if features&lircCanSendPulse == 0 {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("%s: %w", path, ErrCannotSend)
	}
	d.features = features

	if features&lircCanSetSendDutyCycle != 0 {
		if err := unix.IoctlSetPointerInt(fd, lircSetSendDutyCycle, d.duty); err != nil {
			_ = unix.Close(fd)
			return nil, fmt.Errorf("failed to set duty cycle on %s: %w", path, err)
		}
	}
	return d, nil
}

// Emit writes the train to the device. The driver returns once the last
// pulse has been sent.
func (d *Device) Emit(ctx context.Context, t ir.Train) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(t.Durations) == 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.fd < 0 {
		return fmt.Errorf("%s: device closed", d.path)
	}
	if err := d.setCarrier(t.Carrier); err != nil {
		return err
	}

	buf := encodePulses(t)
	for len(buf) > 0 {
		n, err := unix.Write(d.fd, buf)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to write pulses to %s: %w", d.path, err)
		}
		buf = buf[n:]
	}
	return nil
}

func (d *Device) setCarrier(f physic.Frequency) error {
	if f == 0 || f == d.carrier || d.features&lircCanSetSendCarrier == 0 {
		return nil
	}
	if err := unix.IoctlSetPointerInt(d.fd, lircSetSendCarrier, carrierHz(f)); err != nil {
		return fmt.Errorf("failed to set carrier %s on %s: %w", f, d.path, err)
	}
	d.carrier = f
	return nil
}

// Close releases the device.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	if err != nil {
		return fmt.Errorf("failed to close %s: %w", d.path, err)
	}
	return nil
}

// String returns the device path.
func (d *Device) String() string {
	return d.path
}

// encodePulses lays a train out as the kernel expects in LIRC_MODE_PULSE: an
// odd number of native-endian uint32 microsecond values starting with a pulse.
func encodePulses(t ir.Train) []byte {
	buf := make([]byte, 4*len(t.Durations))
	for i, d := range t.Durations {
		us := (d + time.Microsecond/2) / time.Microsecond
		binary.NativeEndian.PutUint32(buf[4*i:], uint32(us))
	}
	return buf
}

func carrierHz(f physic.Frequency) int {
	return int(f / physic.Hertz)
}

var _ ir.Emitter = (*Device)(nil)
