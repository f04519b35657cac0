package state

import "sync"

// OwnerBlacklist is the append-only set of deployer addresses whose trades
// previously failed to close. An owner is added only after a confirmed sell
// failure, never on a failed buy.
type OwnerBlacklist struct {
	mu     sync.RWMutex
	owners map[string]struct{}
}

// NewOwnerBlacklist creates an empty blacklist.
func NewOwnerBlacklist() *OwnerBlacklist {
	return &OwnerBlacklist{owners: make(map[string]struct{})}
}

// Add registers an owner. Empty owners are ignored.
func (b *OwnerBlacklist) Add(owner string) {
	if owner == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.owners[owner] = struct{}{}
}

// Contains reports whether the owner is blacklisted.
func (b *OwnerBlacklist) Contains(owner string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.owners[owner]
	return ok
}

// Len returns the number of blacklisted owners.
func (b *OwnerBlacklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.owners)
}
