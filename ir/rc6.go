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

// Philips RC6 at 36 kHz: a 6T leader mark and 2T space, a start bit, then the
// code word most significant bit first. RC6 bits are bi-phase with the
// opposite sense to RC5 (a one is mark then space). The fourth code bit is the
// trailer bit and lasts twice as long.
const (
	rc6Unit       = 444 * time.Microsecond
	rc6LeadMark   = rc6Unit * 6
	rc6LeadSpace  = rc6Unit * 2
	rc6TrailerBit = 3
)

// RC6 encodes RC6 frames. Mode 0 uses 20 bits; vendor modes such as the
// 24-bit set-top box codes work the same way with a longer code word.
type RC6 struct{}

// Encode implements Encoder.
func (RC6) Encode(data uint32, bits uint8) Train {
	n := clampBits(bits)
	b := newTrain(Carrier36kHz, 2*n+4)
	b.mark(rc6LeadMark)
	b.space(rc6LeadSpace)

	// start bit
	b.mark(rc6Unit)
	b.space(rc6Unit)

	msbFirst(data, n, func(i int, one bool) {
		t := rc6Unit
		if i == rc6TrailerBit {
			t *= 2
		}
		if one {
			b.mark(t)
			b.space(t)
		} else {
			b.space(t)
			b.mark(t)
		}
	})
	return b.build()
}
