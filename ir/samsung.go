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

// Samsung uses NEC-style pulse distance coding with a shorter, symmetric
// header, and sends the code word most significant bit first.
const (
	samsungUnit      = 560 * time.Microsecond
	samsungLeadMark  = 4500 * time.Microsecond
	samsungLeadSpace = 4500 * time.Microsecond
	samsungBitMark   = samsungUnit
	samsungBit0Space = samsungUnit
	samsungBit1Space = samsungUnit * 3
	samsungTrailMark = samsungUnit
)

// Samsung encodes Samsung32 frames at 38 kHz.
type Samsung struct{}

// Encode implements Encoder.
func (Samsung) Encode(data uint32, bits uint8) Train {
	n := clampBits(bits)
	b := newTrain(Carrier38kHz, 2*n+3)
	b.mark(samsungLeadMark)
	b.space(samsungLeadSpace)
	msbFirst(data, n, func(_ int, one bool) {
		b.mark(samsungBitMark)
		if one {
			b.space(samsungBit1Space)
		} else {
			b.space(samsungBit0Space)
		}
	})
	b.mark(samsungTrailMark)
	return b.build()
}
