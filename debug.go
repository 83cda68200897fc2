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
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

// debugEnabled controls whether debug logging is active
var debugEnabled atomic.Bool

var defaultLogger atomic.Pointer[slog.Logger]

// defaultLevel is the threshold of the stderr logger installed by init. It
// tracks debugEnabled.
var defaultLevel slog.LevelVar

func init() {
	// Enable debug logging if a DEBUG environment variable is set
	SetDebugEnabled(os.Getenv("IRRELAY_DEBUG") != "" || os.Getenv("DEBUG") != "")
	defaultLogger.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: &defaultLevel,
	})))
}

// Logger returns the package logger used when no logger is configured.
func Logger() *slog.Logger {
	return defaultLogger.Load()
}

// SetLogger replaces the package logger. A nil logger is ignored.
func SetLogger(l *slog.Logger) {
	if l != nil {
		defaultLogger.Store(l)
	}
}

// Debugf logs a formatted debug message when debug mode is enabled. An open
// session log receives it either way.
func Debugf(format string, args ...any) {
	session := sessionLogger.Load()
	enabled := debugEnabled.Load()
	if !enabled && session == nil {
		return
	}
	debugMessage(enabled, session, fmt.Sprintf(format, args...))
}

// Debugln logs its operands when debug mode is enabled.
func Debugln(args ...any) {
	session := sessionLogger.Load()
	enabled := debugEnabled.Load()
	if !enabled && session == nil {
		return
	}
	debugMessage(enabled, session, fmt.Sprint(args...))
}

func debugMessage(enabled bool, session *slog.Logger, msg string) {
	if enabled {
		Logger().Debug(msg)
	}
	if session != nil {
		session.Debug(msg)
	}
}

// SetDebugEnabled allows programmatic control of debug logging. It also
// moves the default logger between Info and Debug; a logger installed with
// SetLogger keeps its own level.
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
	if enabled {
		defaultLevel.Set(slog.LevelDebug)
	} else {
		defaultLevel.Set(slog.LevelInfo)
	}
}

// DebugEnabled reports whether debug logging is on.
func DebugEnabled() bool {
	return debugEnabled.Load()
}
