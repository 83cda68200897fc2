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

package main

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	irrelay "github.com/ZaparooProject/go-irrelay"
	testutil "github.com/ZaparooProject/go-irrelay/internal/testing"
	"github.com/ZaparooProject/go-irrelay/sender"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeButton struct {
	edges chan struct{}
}

func (b *fakeButton) WaitForEdge(timeout time.Duration) bool {
	select {
	case <-b.edges:
		return true
	case <-time.After(timeout):
		return false
	}
}

func TestBatchFrames(t *testing.T) {
	t.Parallel()

	frames := batchFrames()
	require.Len(t, frames, 2)
	assert.Equal(t, frames[0], frames[1])
	assert.Equal(t, irrelay.EncodingRC6, frames[0].Encoding)
	assert.Equal(t, uint32(0xC05C01), frames[0].Data)
	require.NoError(t, frames[0].Validate())
}

func TestWatchButton_SendsBatchPerEdge(t *testing.T) {
	t.Parallel()

	bus := testutil.NewBus()
	client, err := sender.New(bus)
	require.NoError(t, err)

	btn := &fakeButton{edges: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		watchButton(ctx, "button1", btn, func(ctx context.Context) error {
			return client.SendBatch(ctx, batchFrames())
		})
	}()

	btn.edges <- struct{}{}

	var got []irrelay.Frame
	ctxRecv, cancelRecv := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelRecv()
	_ = bus.Receive(ctxRecv, func(p []byte) {
		f, err := irrelay.DecodeFrame(p)
		require.NoError(t, err)
		got = append(got, f)
		if len(got) == 2 {
			cancelRecv()
		}
	})

	cancel()
	<-done

	require.Len(t, got, 2)
	assert.False(t, got[0].Committed)
	assert.True(t, got[1].Committed)
}

func TestWatchButton_BusyDoesNotStopWatching(t *testing.T) {
	t.Parallel()

	btn := &fakeButton{edges: make(chan struct{})}
	var presses atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		watchButton(ctx, "button2", btn, func(context.Context) error {
			presses.Add(1)
			return irrelay.ErrBusy
		})
	}()

	btn.edges <- struct{}{}
	btn.edges <- struct{}{}
	cancel()
	<-done

	assert.Equal(t, int32(2), presses.Load())
}
