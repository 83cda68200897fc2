//go:build deadlock

// Package syncutil provides the mutex types guarding the command queue and
// engine cursors. This file is compiled with -tags=deadlock and reports
// locks held longer than Opts.DeadlockTimeout.
package syncutil

import (
	"time"

	deadlock "github.com/sasha-s/go-deadlock"
)

func init() {
	// The engine holds no lock across a wait, so anything near a second is a bug.
	deadlock.Opts.DeadlockTimeout = 2 * time.Second
}

// Mutex wraps deadlock.Mutex for deadlock detection.
type Mutex struct {
	deadlock.Mutex
}

// RWMutex wraps deadlock.RWMutex for deadlock detection.
type RWMutex struct {
	deadlock.RWMutex
}
