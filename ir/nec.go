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

// NEC protocol references
// https://www.sbprojects.net/knowledge/ir/nec.php
// https://techdocs.altium.com/display/FPGA/NEC+Infrared+Transmission+Protocol

const (
	necUnit      = 562_500 * time.Nanosecond // 562.5 us
	necLeadMark  = necUnit * 16              // 9 ms
	necLeadSpace = necUnit * 8               // 4.5 ms
	necBitMark   = necUnit                   // 562.5 us
	necBit0Space = necUnit                   // 562.5 us
	necBit1Space = necUnit * 3               // 1.687 ms
	necTrailMark = necUnit                   // 562.5 us
	necRepeatGap = necUnit * 4               // 2.25 ms
)

// NEC encodes pulse-distance NEC frames at 38 kHz. Bits go out least
// significant first, so a raw 32-bit code laid out as
// {address low, address high, command, ^command} is sent in protocol order.
type NEC struct{}

// Encode implements Encoder.
func (NEC) Encode(data uint32, bits uint8) Train {
	n := clampBits(bits)
	b := newTrain(Carrier38kHz, 2*n+3)
	b.mark(necLeadMark)
	b.space(necLeadSpace)
	lsbFirst(data, n, func(_ int, one bool) {
		b.mark(necBitMark)
		if one {
			b.space(necBit1Space)
		} else {
			b.space(necBit0Space)
		}
	})
	b.mark(necTrailMark)
	return b.build()
}

// NECRepeat returns the short NEC repeat code a receiver reads as "button
// still held".
func NECRepeat() Train {
	b := newTrain(Carrier38kHz, 3)
	b.mark(necLeadMark)
	b.space(necRepeatGap)
	b.mark(necTrailMark)
	return b.build()
}

// MakeRawNECData assembles a raw NEC code from an address and command. Eight
// bit addresses use the inverse address as their high byte.
func MakeRawNECData(address uint16, command byte) uint32 {
	addrLow := byte(address & 0xff)
	addrHigh := byte(address >> 8)
	if addrHigh == 0 {
		addrHigh = ^addrLow
	}
	return uint32(^command)<<24 | uint32(command)<<16 | uint32(addrHigh)<<8 | uint32(addrLow)
}

// SplitRawNECData breaks a raw NEC code into its address and command. valid is
// false when the command and inverse command bytes disagree.
func SplitRawNECData(data uint32) (valid bool, address uint16, command byte) {
	addrLow := byte(data)
	addrHigh := byte(data >> 8)
	command = byte(data >> 16)
	invCmd := byte(data >> 24)

	if addrHigh == ^addrLow {
		address = uint16(addrLow)
	} else {
		address = uint16(addrHigh)<<8 | uint16(addrLow)
	}
	return command == ^invCmd, address, command
}
