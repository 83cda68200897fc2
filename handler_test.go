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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encoded(f Frame) []byte {
	b := EncodeFrame(f)
	return b[:]
}

func TestReceiver_MalformedTransfersLeaveQueueUntouched(t *testing.T) {
	t.Parallel()

	q := NewQueue(4)
	notified := 0
	r := NewReceiver(q, func() { notified++ })

	r.HandleTransfer(nil)
	r.HandleTransfer(make([]byte, FrameSize-1))
	r.HandleTransfer(make([]byte, FrameSize+1))

	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, notified)

	stats := r.Stats()
	assert.Equal(t, int64(3), stats.Transfers)
	assert.Equal(t, int64(3), stats.MalformedTransfers)
	assert.Equal(t, int64(0), stats.FramesAccepted)
}

func TestReceiver_NotifiesOnCommit(t *testing.T) {
	t.Parallel()

	q := NewQueue(4)
	notified := 0
	r := NewReceiver(q, func() { notified++ })

	r.HandleTransfer(encoded(numbered(0, false)))
	assert.Equal(t, 0, notified)

	r.HandleTransfer(encoded(numbered(1, true)))
	assert.Equal(t, 1, notified)
	assert.Equal(t, 2, q.CommittedCount())

	stats := r.Stats()
	assert.Equal(t, int64(2), stats.FramesAccepted)
	assert.Equal(t, int64(0), stats.MalformedTransfers)
}

func TestReceiver_CountsDrops(t *testing.T) {
	t.Parallel()

	q := NewQueue(1)
	r := NewReceiver(q, nil)

	r.HandleTransfer(encoded(numbered(0, false)))
	r.HandleTransfer(encoded(numbered(1, false)))
	q.Freeze()
	r.HandleTransfer(encoded(numbered(2, true)))

	stats := r.Stats()
	assert.Equal(t, int64(1), stats.FramesAccepted)
	assert.Equal(t, int64(2), stats.FramesDropped)
}

func TestReceiver_MalformedBetweenValidFrames(t *testing.T) {
	t.Parallel()

	q := NewQueue(4)
	r := NewReceiver(q, nil)

	r.HandleTransfer(encoded(numbered(0, false)))
	r.HandleTransfer([]byte{1, 2, 3})
	r.HandleTransfer(encoded(numbered(1, true)))

	frames := q.Frames()
	require.Len(t, frames, 2)
	assert.Equal(t, uint32(0), frames[0].Data)
	assert.Equal(t, uint32(1), frames[1].Data)
}
