//go:build !deadlock

// Package syncutil provides the mutex types guarding state shared
// with interrupt-style callback contexts (byte-exchange, edge
// capture, counter overflow). By default they are plain sync
// mutexes with zero overhead; build with -tags=deadlock to enable
// lock-order checking via github.com/sasha-s/go-deadlock.
package syncutil

import "sync"

// Mutex wraps sync.Mutex. Build with -tags=deadlock for deadlock detection.
type Mutex struct {
	sync.Mutex
}

// RWMutex wraps sync.RWMutex. Build with -tags=deadlock for deadlock detection.
type RWMutex struct {
	sync.RWMutex
}
