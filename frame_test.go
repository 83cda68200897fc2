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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrame_WireLayout(t *testing.T) {
	t.Parallel()

	// encoding, data (LE), bits, pulse repeats, pulse delay, button repeats,
	// button delay (LE), committed
	b := []byte{
		0x02,
		0x01, 0x5C, 0xC0, 0x00,
		24, 2, 124, 3,
		0x90, 0x01,
		1,
	}

	f, err := DecodeFrame(b)
	require.NoError(t, err)
	assert.Equal(t, Frame{
		Encoding:                EncodingNEC,
		Data:                    0xC05C01,
		BitCount:                24,
		PulseTrainRepeats:       2,
		PulseTrainRepeatDelayMs: 124,
		ButtonRepeats:           3,
		ButtonRepeatDelayMs:     400,
		Committed:               true,
	}, f)

	enc := EncodeFrame(f)
	assert.Equal(t, b, enc[:])
}

func TestDecodeFrame_WrongLength(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 11, 13, 24} {
		_, err := DecodeFrame(make([]byte, n))
		require.ErrorIs(t, err, ErrMalformedTransfer, "length %d", n)
	}
}

func TestDecodeFrame_CommittedAnyNonZero(t *testing.T) {
	t.Parallel()

	b := make([]byte, FrameSize)
	b[offCommitted] = 0x80
	f, err := DecodeFrame(b)
	require.NoError(t, err)
	assert.True(t, f.Committed)

	enc := EncodeFrame(f)
	assert.Equal(t, byte(1), enc[offCommitted])
}

func TestDecodeFrame_OutOfRangeFieldsSurvive(t *testing.T) {
	t.Parallel()

	b := make([]byte, FrameSize)
	b[offEncoding] = 9
	b[offBitCount] = 200
	f, err := DecodeFrame(b)
	require.NoError(t, err)
	assert.Equal(t, Encoding(9), f.Encoding)
	assert.Equal(t, uint8(200), f.BitCount)
	require.ErrorIs(t, f.Validate(), ErrInvalidFrame)
}

func TestFrame_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		frame   Frame
		wantErr bool
	}{
		{name: "rc6 24 bits", frame: Frame{Encoding: EncodingRC6, BitCount: 24}},
		{name: "samsung 32 bits", frame: Frame{Encoding: EncodingSamsung, BitCount: 32}},
		{name: "zero bits", frame: Frame{Encoding: EncodingNEC}, wantErr: true},
		{name: "33 bits", frame: Frame{Encoding: EncodingNEC, BitCount: 33}, wantErr: true},
		{name: "unknown encoding", frame: Frame{Encoding: NumEncodings, BitCount: 8}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.frame.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidFrame)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestFrame_MarshalBinary(t *testing.T) {
	t.Parallel()

	f := Frame{Encoding: EncodingSony, Data: 0xA90, BitCount: 12, ButtonRepeatDelayMs: 0xBEEF}
	b, err := f.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, FrameSize)
	assert.Equal(t, uint16(0xBEEF), binary.LittleEndian.Uint16(b[offButtonDelay:]))

	prefixed, err := f.AppendBinary([]byte{0xAA})
	require.NoError(t, err)
	assert.Equal(t, b, prefixed[1:])

	var back Frame
	require.NoError(t, back.UnmarshalBinary(b))
	assert.Equal(t, f, back)
}

func TestEncoding_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "RC6", EncodingRC6.String())
	assert.Equal(t, "Samsung", EncodingSamsung.String())
	assert.Equal(t, "Encoding(7)", Encoding(7).String())
	assert.True(t, EncodingSony.Known())
	assert.False(t, Encoding(5).Known())
}

// FuzzDecodeFrame checks that any input either fails with ErrMalformedTransfer
// or decodes to a frame that encodes back to the same bytes, modulo the
// committed byte being normalised to 0 or 1.
//
// Run with: go test -fuzz=FuzzDecodeFrame -fuzztime=30s .
func FuzzDecodeFrame(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x00})
	f.Add(make([]byte, FrameSize))
	f.Add([]byte{0x00, 0x01, 0x5C, 0xC0, 0x00, 24, 2, 124, 1, 0x90, 0x01, 1})
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	f.Add(make([]byte, FrameSize+1))

	f.Fuzz(func(t *testing.T, b []byte) {
		frame, err := DecodeFrame(b)
		if len(b) != FrameSize {
			if err == nil {
				t.Fatalf("decoded %d bytes without error", len(b))
			}
			return
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		enc := EncodeFrame(frame)
		for i := range FrameSize - 1 {
			if enc[i] != b[i] {
				t.Fatalf("byte %d: got 0x%02X, want 0x%02X", i, enc[i], b[i])
			}
		}
		if (b[offCommitted] != 0) != (enc[offCommitted] == 1) {
			t.Fatalf("committed byte 0x%02X re-encoded as 0x%02X", b[offCommitted], enc[offCommitted])
		}
	})
}
