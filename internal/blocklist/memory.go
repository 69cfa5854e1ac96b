package blocklist

import (
	"context"
	"sync"
	"time"
)

// MemoryBlocklist is a process-local Blocklist used by tests. Revocations are
// not visible across instances, so it is unsuitable for production.
type MemoryBlocklist struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]time.Time
}

func NewMemory(ttl time.Duration) *MemoryBlocklist {
	return &MemoryBlocklist{
		ttl:     ttl,
		entries: map[string]time.Time{},
	}
}

func (b *MemoryBlocklist) Revoke(_ context.Context, tokenID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[tokenID] = time.Now().Add(b.ttl)
	return nil
}

func (b *MemoryBlocklist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	expiry, exists := b.entries[tokenID]
	if !exists {
		return false, nil
	}

	if time.Now().After(expiry) {
		delete(b.entries, tokenID)
		return false, nil
	}

	return true, nil
}

func (b *MemoryBlocklist) Close() error {
	return nil
}
