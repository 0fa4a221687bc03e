package service

import (
	"bytes"
	"sync"

	"github.com/google/uuid"
)

// AreaLocks serializes writers per area. The admin-count and no-overlap
// invariants are check-then-act, so every mutation of one area's
// administrator set, super-area pointer, or reservations must hold that
// area's lock. One shared registry is wired into every service that mutates
// areas.
//
// Locks are created on first use and never released from the map; the id
// space is the set of areas, which is small and long-lived.
type AreaLocks struct {
	mu sync.Mutex
	m  map[uuid.UUID]*sync.Mutex
}

// NewAreaLocks returns an empty lock registry.
func NewAreaLocks() *AreaLocks {
	return &AreaLocks{m: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *AreaLocks) get(id uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.m[id]
	if !ok {
		m = &sync.Mutex{}
		l.m[id] = m
	}
	return m
}

// Lock acquires the lock for one area and returns the unlock function.
func (l *AreaLocks) Lock(id uuid.UUID) func() {
	m := l.get(id)
	m.Lock()
	return m.Unlock
}

// LockPair acquires the locks for two areas in ascending id order, so two
// cross-area operations (e.g. reparenting) touching the same pair can never
// deadlock. Returns the unlock function for both.
func (l *AreaLocks) LockPair(a, b uuid.UUID) func() {
	if a == b {
		return l.Lock(a)
	}
	first, second := a, b
	if bytes.Compare(first[:], second[:]) > 0 {
		first, second = second, first
	}
	m1 := l.get(first)
	m2 := l.get(second)
	m1.Lock()
	m2.Lock()
	return func() {
		m2.Unlock()
		m1.Unlock()
	}
}
