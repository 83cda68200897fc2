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

import "github.com/ZaparooProject/go-irrelay/internal/syncutil"

// DefaultQueueCapacity is the number of frames a responder can hold.
const DefaultQueueCapacity = 20

// AppendResult describes what Append did with a frame.
type AppendResult int

const (
	// Appended means the frame was stored.
	Appended AppendResult = iota
	// DroppedFull means the queue had no free slot.
	DroppedFull
	// DroppedFrozen means a batch was being played back.
	DroppedFrozen
)

// Err returns ErrQueueFull or ErrQueueFrozen for a dropped frame and nil
// otherwise.
func (r AppendResult) Err() error {
	switch r {
	case DroppedFull:
		return ErrQueueFull
	case DroppedFrozen:
		return ErrQueueFrozen
	default:
		return nil
	}
}

// Queue is a fixed-capacity, ordered buffer of frames shared between the bus
// receive handler (writer) and the playback engine (reader).
//
// Every mutation happens under one mutex and writes a whole frame, so the
// engine never observes a partially written slot. Once frozen, the queue
// refuses new frames until Reset.
type Queue struct {
	mu        syncutil.Mutex
	slots     []Frame
	tail      int
	committed int
	frozen    bool
}

// NewQueue returns an empty queue with the given capacity. A capacity below
// one selects DefaultQueueCapacity.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = DefaultQueueCapacity
	}
	return &Queue{slots: make([]Frame, capacity)}
}

// TryAppend stores f at the tail. It reports false when the frame was dropped.
func (q *Queue) TryAppend(f Frame) bool {
	return q.Append(f) == Appended
}

// Append stores f at the tail and reports what happened.
//
// The committed count is frozen at the first committed frame since the last
// reset. A full queue drops the frame, but a committed frame still closes the
// batch over the frames that were accepted, so an oversized batch plays its
// first Capacity frames instead of wedging the queue.
func (q *Queue) Append(f Frame) AppendResult {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.frozen {
		return DroppedFrozen
	}
	if q.tail >= len(q.slots) {
		if f.Committed && q.committed == 0 {
			q.committed = q.tail
		}
		return DroppedFull
	}

	q.slots[q.tail] = f
	q.tail++
	if f.Committed && q.committed == 0 {
		q.committed = q.tail
	}
	return Appended
}

// Reset empties the queue and lifts the freeze. Only the playback engine
// calls it, after a batch has fully played out.
func (q *Queue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	clear(q.slots)
	q.tail = 0
	q.committed = 0
	q.frozen = false
}

// Freeze stops the queue from accepting frames and returns the number of
// committed frames to play.
func (q *Queue) Freeze() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.frozen = true
	return q.committed
}

// FrameAt returns the frame at index i. It reports false for indexes at or
// beyond the committed count.
func (q *Queue) FrameAt(i int) (Frame, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i < 0 || i >= q.committed {
		return Frame{}, false
	}
	return q.slots[i], true
}

// Frames returns a copy of the committed frames in playback order.
func (q *Queue) Frames() []Frame {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Frame, q.committed)
	copy(out, q.slots[:q.committed])
	return out
}

// Len returns the tail cursor, the number of stored frames.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.tail
}

// CommittedCount returns the number of frames considered valid for playback.
func (q *Queue) CommittedCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.committed
}

// Ready reports whether a committed batch is waiting.
func (q *Queue) Ready() bool {
	return q.CommittedCount() > 0
}

// Frozen reports whether a batch is being played back.
func (q *Queue) Frozen() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.frozen
}

// Capacity returns the fixed number of slots.
func (q *Queue) Capacity() int {
	return len(q.slots)
}
