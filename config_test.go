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
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.Equal(t, DefaultQueueCapacity, cfg.QueueCapacity)
	assert.IsType(t, TimerSleeper{}, cfg.Sleeper)
	assert.Same(t, Logger(), cfg.logger())
}

func TestOptions(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	logger := slogt.New(t)
	require.NoError(t, WithQueueCapacity(1)(cfg))
	require.NoError(t, WithQueueCapacity(255)(cfg))
	require.NoError(t, WithLogger(logger)(cfg))
	assert.Equal(t, 255, cfg.QueueCapacity)
	assert.Same(t, logger, cfg.logger())

	require.Error(t, WithQueueCapacity(0)(cfg))
	require.Error(t, WithQueueCapacity(256)(cfg))
	require.Error(t, WithSleeper(nil)(cfg))
	assert.Equal(t, 255, cfg.QueueCapacity)
}

func TestTimerSleeper(t *testing.T) {
	t.Parallel()

	start := time.Now()
	require.NoError(t, TimerSleeper{}.Sleep(context.Background(), 5*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, TimerSleeper{}.Sleep(ctx, time.Hour), context.Canceled)
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "busy", StateBusy.String())
	assert.Equal(t, "unknown", State(9).String())
	assert.Equal(t, 1, repeatCount(0))
	assert.Equal(t, 255, repeatCount(255))
}

// Debug state is global, so these tests do not run in parallel.

func TestSessionLog_ReceivesDebugOutput(t *testing.T) {
	origEnabled := DebugEnabled()
	t.Cleanup(func() { SetDebugEnabled(origEnabled) })
	SetDebugEnabled(false)

	path, err := InitSessionLog(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, path, SessionLogPath())

	Debugf("test message %d", 42)
	Debugln("second", "line")
	require.NoError(t, CloseSessionLog())
	assert.Empty(t, SessionLogPath())

	data, err := os.ReadFile(filepath.Clean(path))
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "=== IR Relay Debug Session Log ==="))
	assert.Contains(t, content, "test message 42")
	assert.Contains(t, content, "secondline")
	assert.Contains(t, content, "=== Session ended ===")

	// Nothing is written once closed.
	Debugf("after close")
	require.NoError(t, CloseSessionLog())
}

func TestSetLogger_IgnoresNil(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(nil)
	assert.Same(t, orig, Logger())

	l := slogt.New(t)
	SetLogger(l)
	assert.Same(t, l, Logger())
}

func TestDefaultLogger_LevelFollowsDebug(t *testing.T) {
	origEnabled := DebugEnabled()
	t.Cleanup(func() { SetDebugEnabled(origEnabled) })
	ctx := context.Background()

	SetDebugEnabled(false)
	assert.False(t, Logger().Enabled(ctx, slog.LevelDebug))
	assert.True(t, Logger().Enabled(ctx, slog.LevelInfo))

	engine := NewEngine(NewQueue(1), DispatchFunc(func(context.Context, Encoding, uint32, uint8) error {
		return nil
	}), nil, nil)
	assert.False(t, engine.logger.Enabled(ctx, slog.LevelDebug), "engine must not log debug by default")

	SetDebugEnabled(true)
	assert.True(t, Logger().Enabled(ctx, slog.LevelDebug))
	assert.True(t, engine.logger.Enabled(ctx, slog.LevelDebug))
}
