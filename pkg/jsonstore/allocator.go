package jsonstore

import "sync"

// Allocator hands out strictly increasing identifiers, one counter per entity kind.
// Counters only move forward: deleting the newest record never makes its id available again.
type Allocator struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewAllocator creates an allocator with no counters.
func NewAllocator() *Allocator {
	return &Allocator{counters: make(map[string]int64)}
}

// Next returns the next id for kind. floor is the highest id known to exist in durable
// storage and seeds the counter on the first call for a kind; callers pass 0 once
// Current reports a counter. A floor above the counter still moves it forward.
func (a *Allocator) Next(kind string, floor int64) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	current := a.counters[kind]
	if floor > current {
		current = floor
	}
	current++
	a.counters[kind] = current
	return current
}

// Current reports the last id handed out for kind.
func (a *Allocator) Current(kind string) (int64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id, ok := a.counters[kind]
	return id, ok
}
