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

// Philips RC5 is bi-phase coded at 36 kHz with 889 us half bits. A one is a
// space then a mark, a zero a mark then a space. Two start bits precede the
// code word, which is sent most significant bit first and normally carries
// the toggle, address and command fields.
const rc5HalfBit = 889 * time.Microsecond

// RC5 encodes RC5 frames.
type RC5 struct{}

// Encode implements Encoder.
func (RC5) Encode(data uint32, bits uint8) Train {
	n := clampBits(bits)
	b := newTrain(Carrier36kHz, 2*n+4)
	bit := func(one bool) {
		if one {
			b.space(rc5HalfBit)
			b.mark(rc5HalfBit)
		} else {
			b.mark(rc5HalfBit)
			b.space(rc5HalfBit)
		}
	}
	bit(true)
	bit(true)
	msbFirst(data, n, func(_ int, one bool) { bit(one) })
	return b.build()
}
