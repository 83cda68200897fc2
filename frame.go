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
	"encoding/binary"
	"fmt"
)

// FrameSize is the exact length of one command frame on the wire.
const FrameSize = 12

// Wire offsets of the frame fields. Multi-byte fields are little endian.
const (
	offEncoding          = 0
	offData              = 1
	offBitCount          = 5
	offPulseTrainRepeats = 6
	offPulseTrainDelay   = 7
	offButtonRepeats     = 8
	offButtonDelay       = 9
	offCommitted         = 11
)

// MaxBitCount is the widest code word a frame can carry.
const MaxBitCount = 32

// Encoding selects the infrared protocol family used to transmit a frame.
type Encoding uint8

// Supported protocol families, in wire order.
const (
	EncodingRC6 Encoding = iota
	EncodingRC5
	EncodingNEC
	EncodingSony
	EncodingSamsung

	// NumEncodings is the number of known families.
	NumEncodings = 5
)

func (e Encoding) String() string {
	switch e {
	case EncodingRC6:
		return "RC6"
	case EncodingRC5:
		return "RC5"
	case EncodingNEC:
		return "NEC"
	case EncodingSony:
		return "Sony"
	case EncodingSamsung:
		return "Samsung"
	default:
		return fmt.Sprintf("Encoding(%d)", uint8(e))
	}
}

// Known reports whether e is one of the supported families.
func (e Encoding) Known() bool {
	return e < NumEncodings
}

// Frame is one simulated key press.
//
// Frames are decoded verbatim: out-of-range values such as a BitCount of 200
// survive the codec and are left for the encoders to deal with.
type Frame struct {
	Data                    uint32
	ButtonRepeatDelayMs     uint16
	Encoding                Encoding
	BitCount                uint8
	PulseTrainRepeats       uint8
	PulseTrainRepeatDelayMs uint8
	ButtonRepeats           uint8
	Committed               bool
}

// DecodeFrame parses a wire frame. It fails only when b is not exactly
// FrameSize bytes long.
func DecodeFrame(b []byte) (Frame, error) {
	var f Frame
	if err := f.UnmarshalBinary(b); err != nil {
		return Frame{}, err
	}
	return f, nil
}

// EncodeFrame returns the wire form of f.
func EncodeFrame(f Frame) [FrameSize]byte {
	var out [FrameSize]byte
	f.put(out[:])
	return out
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (f Frame) MarshalBinary() ([]byte, error) {
	return f.AppendBinary(make([]byte, 0, FrameSize))
}

// AppendBinary appends the wire form of f to b.
func (f Frame) AppendBinary(b []byte) ([]byte, error) {
	var buf [FrameSize]byte
	f.put(buf[:])
	return append(b, buf[:]...), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (f *Frame) UnmarshalBinary(b []byte) error {
	if len(b) != FrameSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedTransfer, len(b), FrameSize)
	}
	*f = Frame{
		Encoding:                Encoding(b[offEncoding]),
		Data:                    binary.LittleEndian.Uint32(b[offData:]),
		BitCount:                b[offBitCount],
		PulseTrainRepeats:       b[offPulseTrainRepeats],
		PulseTrainRepeatDelayMs: b[offPulseTrainDelay],
		ButtonRepeats:           b[offButtonRepeats],
		ButtonRepeatDelayMs:     binary.LittleEndian.Uint16(b[offButtonDelay:]),
		Committed:               b[offCommitted] != 0,
	}
	return nil
}

func (f Frame) put(b []byte) {
	b[offEncoding] = byte(f.Encoding)
	binary.LittleEndian.PutUint32(b[offData:], f.Data)
	b[offBitCount] = f.BitCount
	b[offPulseTrainRepeats] = f.PulseTrainRepeats
	b[offPulseTrainDelay] = f.PulseTrainRepeatDelayMs
	b[offButtonRepeats] = f.ButtonRepeats
	binary.LittleEndian.PutUint16(b[offButtonDelay:], f.ButtonRepeatDelayMs)
	if f.Committed {
		b[offCommitted] = 1
	} else {
		b[offCommitted] = 0
	}
}

// Validate reports semantic problems with f. The playback engine only logs
// them; a frame is never dropped for failing validation.
func (f Frame) Validate() error {
	if !f.Encoding.Known() {
		return fmt.Errorf("%w: %v", ErrInvalidFrame, f.Encoding)
	}
	if f.BitCount == 0 || f.BitCount > MaxBitCount {
		return fmt.Errorf("%w: bit count %d out of range 1-%d", ErrInvalidFrame, f.BitCount, MaxBitCount)
	}
	return nil
}

func (f Frame) String() string {
	return fmt.Sprintf("%v data=0x%X bits=%d pulse=%dx%dms button=%dx%dms committed=%t",
		f.Encoding, f.Data, f.BitCount,
		f.PulseTrainRepeats, f.PulseTrainRepeatDelayMs,
		f.ButtonRepeats, f.ButtonRepeatDelayMs, f.Committed)
}
