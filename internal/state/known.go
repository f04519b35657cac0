// Package state holds the process-lifetime mutable aggregates shared by the
// discovery loop and the deferred sell tasks: the known-token set, the owner
// blacklist, the running trade statistics and the bounded trade log. Each is
// an explicitly owned, mutex-guarded container injected where needed so
// tests can construct isolated instances.
package state

import "sync"

// KnownTokens is the append-only set of token IDs already considered for
// trading. An ID enters the set exactly once, at first observation, before
// any trading decision is made for it.
type KnownTokens struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewKnownTokens creates an empty known-token set.
func NewKnownTokens() *KnownTokens {
	return &KnownTokens{ids: make(map[string]struct{})}
}

// Add registers an ID. Adding an already-known ID is a no-op.
func (k *KnownTokens) Add(id string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.ids[id] = struct{}{}
}

// Seen reports whether the ID has been observed before.
func (k *KnownTokens) Seen(id string) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	_, ok := k.ids[id]
	return ok
}

// Len returns the number of known IDs.
func (k *KnownTokens) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.ids)
}
