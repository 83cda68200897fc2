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

package irrelay_test

import (
	"context"
	"errors"
	"testing"
	"time"

	irrelay "github.com/ZaparooProject/go-irrelay"
	testutil "github.com/ZaparooProject/go-irrelay/internal/testing"
	"github.com/ZaparooProject/go-irrelay/sender"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type responderFixture struct {
	responder  *irrelay.Responder
	bus        *testutil.Bus
	dispatcher *testutil.RecordingDispatcher
	status     *testutil.StatusLine
	sleeper    *testutil.Sleeper
}

func newResponderFixture(t *testing.T, opts ...irrelay.Option) *responderFixture {
	t.Helper()
	fx := &responderFixture{
		bus:        testutil.NewBus(),
		dispatcher: &testutil.RecordingDispatcher{},
		status:     &testutil.StatusLine{},
		sleeper:    &testutil.Sleeper{},
	}
	opts = append([]irrelay.Option{
		irrelay.WithLogger(slogt.New(t)),
		irrelay.WithSleeper(fx.sleeper),
	}, opts...)

	r, err := irrelay.NewResponder(fx.bus, fx.dispatcher, fx.status, opts...)
	require.NoError(t, err)
	fx.responder = r
	return fx
}

func (fx *responderFixture) start(t *testing.T) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fx.responder.Run(ctx) }()
	require.Eventually(t, func() bool {
		return len(fx.status.Levels()) > 0
	}, 2*time.Second, time.Millisecond)
	return cancel, done
}

func TestNewResponder_Validation(t *testing.T) {
	t.Parallel()

	_, err := irrelay.NewResponder(nil, &testutil.RecordingDispatcher{}, nil)
	require.Error(t, err)

	_, err = irrelay.NewResponder(testutil.NewBus(), nil, nil)
	require.Error(t, err)

	_, err = irrelay.NewResponder(testutil.NewBus(), &testutil.RecordingDispatcher{}, nil,
		irrelay.WithQueueCapacity(0))
	require.Error(t, err)

	r, err := irrelay.NewResponder(testutil.NewBus(), &testutil.RecordingDispatcher{}, nil,
		irrelay.WithQueueCapacity(3))
	require.NoError(t, err)
	assert.Equal(t, 3, r.Queue().Capacity())
	assert.Equal(t, irrelay.StateIdle, r.State())
}

func TestResponder_PlaysBatchFromBus(t *testing.T) {
	t.Parallel()

	fx := newResponderFixture(t)
	cancel, done := fx.start(t)
	defer cancel()

	client, err := sender.New(fx.bus, sender.WithStatus(fx.status))
	require.NoError(t, err)
	require.NoError(t, client.SendBatch(context.Background(), []irrelay.Frame{demoFrame(false), demoFrame(false)}))

	require.Eventually(t, func() bool {
		return fx.responder.Stats().BatchesPlayed == 1
	}, 2*time.Second, time.Millisecond)

	assert.Len(t, fx.dispatcher.Calls(), 4)
	assert.Equal(t, []bool{true, false, true}, fx.status.Levels())
	assert.Equal(t, 0, fx.responder.Queue().Len())

	stats := fx.responder.Stats()
	assert.Equal(t, int64(2), stats.Transfers)
	assert.Equal(t, int64(2), stats.FramesAccepted)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestResponder_MalformedTransferIgnored(t *testing.T) {
	t.Parallel()

	fx := newResponderFixture(t)
	cancel, done := fx.start(t)
	defer cancel()

	first := irrelay.EncodeFrame(demoFrame(false))
	last := irrelay.EncodeFrame(demoFrame(true))
	require.True(t, fx.bus.Send(first[:]))
	require.True(t, fx.bus.Send([]byte{0xDE, 0xAD}))
	require.True(t, fx.bus.Send(last[:]))

	require.Eventually(t, func() bool {
		return fx.responder.Stats().BatchesPlayed == 1
	}, 2*time.Second, time.Millisecond)

	stats := fx.responder.Stats()
	assert.Equal(t, int64(3), stats.Transfers)
	assert.Equal(t, int64(1), stats.MalformedTransfers)
	assert.Equal(t, int64(4), stats.Dispatches)

	cancel()
	<-done
}

func TestResponder_BusFailureStopsRun(t *testing.T) {
	t.Parallel()

	fx := newResponderFixture(t)
	cancel, done := fx.start(t)
	defer cancel()

	boom := errors.New("adapter unplugged")
	fx.bus.Fail(boom)

	select {
	case err := <-done:
		require.ErrorIs(t, err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after bus failure")
	}
}

func TestResponder_CloseEndsRun(t *testing.T) {
	t.Parallel()

	fx := newResponderFixture(t)
	_, done := fx.start(t)

	require.NoError(t, fx.responder.Close())
	select {
	case err := <-done:
		require.ErrorIs(t, err, irrelay.ErrTransportClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestResponder_HandleTransferBypassesBus(t *testing.T) {
	t.Parallel()

	fx := newResponderFixture(t, irrelay.WithQueueCapacity(2))
	for i := range 3 {
		f := demoFrame(false)
		f.Data = uint32(i)
		b := irrelay.EncodeFrame(f)
		fx.responder.HandleTransfer(b[:])
	}

	assert.Equal(t, 2, fx.responder.Queue().Len())
	assert.Equal(t, int64(1), fx.responder.Stats().FramesDropped)
}
