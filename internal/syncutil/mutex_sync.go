//go:build !deadlock

// Package syncutil provides the mutex types guarding the command queue and
// engine cursors. Release builds use sync directly; build with -tags=deadlock
// to swap in github.com/sasha-s/go-deadlock while chasing lock ordering bugs
// between the receive handler and the playback engine.
package syncutil

import "sync"

// Mutex wraps sync.Mutex.
//
//nolint:gocritic // Embedding sync.Mutex to expose Lock/Unlock directly
type Mutex struct {
	sync.Mutex
}

// RWMutex wraps sync.RWMutex.
//
//nolint:gocritic // Embedding sync.RWMutex to expose its interface directly
type RWMutex struct {
	sync.RWMutex
}
