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

import "time"

// Sony SIRC is pulse-width coded at 40 kHz: the mark length carries the bit
// and every bit is followed by one unit of space. Bits go out least
// significant first; 12, 15 and 20 bit variants differ only in length.
const (
	sonyUnit     = 600 * time.Microsecond
	sonyLeadMark = sonyUnit * 4 // 2.4 ms
	sonyBit0Mark = sonyUnit
	sonyBit1Mark = sonyUnit * 2
	sonyBitSpace = sonyUnit
)

// Sony encodes SIRC frames.
type Sony struct{}

// Encode implements Encoder.
func (Sony) Encode(data uint32, bits uint8) Train {
	n := clampBits(bits)
	b := newTrain(Carrier40kHz, 2*n+1)
	b.mark(sonyLeadMark)
	b.space(sonyBitSpace)
	lsbFirst(data, n, func(_ int, one bool) {
		if one {
			b.mark(sonyBit1Mark)
		} else {
			b.mark(sonyBit0Mark)
		}
		b.space(sonyBitSpace)
	})
	return b.build()
}
