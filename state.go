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

// State is the playback engine state.
type State int32

const (
	// StateIdle means no batch is playing; the status line reads ready.
	StateIdle State = iota
	// StateBusy means a batch is playing; the status line reads busy.
	StateBusy
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// Progress is the engine's position inside the batch being played.
type Progress struct {
	FrameIndex            int
	ButtonRepeatIndex     int
	PulseTrainRepeatIndex int
	CommittedCount        int
}

// repeatCount normalises a wire repeat count. Zero is read as a single
// repetition so every queued frame is transmitted at least once.
func repeatCount(n uint8) int {
	if n == 0 {
		return 1
	}
	return int(n)
}
