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
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Session log state
var (
	sessionMu     sync.Mutex
	sessionFile   *os.File
	sessionPath   string
	sessionLogger atomic.Pointer[slog.Logger]
)

// InitSessionLog creates a timestamped log file in dir that receives every
// debug message until CloseSessionLog, whether or not debug output is enabled.
// Returns the log file path for display to the user.
func InitSessionLog(dir string) (string, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if sessionFile != nil {
		return sessionPath, nil
	}

	filename := filepath.Join(dir, fmt.Sprintf("irrelay_%s.log", time.Now().Format("20060102_150405")))
	logFile, err := os.Create(filename) //nolint:gosec // filename is built from a timestamp
	if err != nil {
		return "", fmt.Errorf("failed to create session log: %w", err)
	}

	writeSessionHeader(logFile)
	sessionFile = logFile
	sessionPath = filename
	sessionLogger.Store(newSessionLogger(logFile))
	return filename, nil
}

// CloseSessionLog closes the current session log file.
func CloseSessionLog() error {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if sessionFile == nil {
		return nil
	}
	sessionLogger.Store(nil)
	_, _ = fmt.Fprintf(sessionFile, "\n%s === Session ended ===\n", time.Now().Format("15:04:05.000"))

	err := sessionFile.Close()
	sessionFile = nil
	sessionPath = ""
	if err != nil {
		return fmt.Errorf("failed to close session log: %w", err)
	}
	return nil
}

// SessionLogPath returns the current session log file path.
func SessionLogPath() string {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	return sessionPath
}

func newSessionLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// writeSessionHeader writes metadata about the session to the log file.
func writeSessionHeader(w io.Writer) {
	_, _ = fmt.Fprint(w, "=== IR Relay Debug Session Log ===\n")
	_, _ = fmt.Fprintf(w, "Started: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(w, "PID: %d\n", os.Getpid())
	_, _ = fmt.Fprintf(w, "OS: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	_, _ = fmt.Fprintf(w, "Go Version: %s\n", runtime.Version())
	_, _ = fmt.Fprintf(w, "Command Line: %s\n", strings.Join(os.Args, " "))
	_, _ = fmt.Fprint(w, "===================================\n\n")
}
