package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Memory is an in-process Cache. Expired entries are dropped lazily on read
// and by a background sweep.
type Memory struct {
	items     map[string]memoryEntry
	mu        sync.RWMutex
	stopClean chan struct{}
	closeOnce sync.Once
	now       func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemory starts a memory cache that sweeps expired entries every interval.
// A non-positive interval defaults to one minute.
func NewMemory(interval time.Duration) *Memory {
	if interval <= 0 {
		interval = time.Minute
	}
	m := &Memory{
		items:     make(map[string]memoryEntry),
		stopClean: make(chan struct{}),
		now:       time.Now,
	}
	go m.cleanupLoop(interval)
	return m
}

func (m *Memory) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopClean:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

func (m *Memory) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, v := range m.items {
		if v.expired(now) {
			delete(m.items, k)
		}
	}
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	entry, found := m.items[key]
	m.mu.RUnlock()

	if !found {
		return nil, nil
	}
	if entry.expired(m.now()) {
		m.mu.Lock()
		if cur, ok := m.items[key]; ok && cur.expired(m.now()) {
			delete(m.items, key)
		}
		m.mu.Unlock()
		return nil, nil
	}
	return entry.data, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{data: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.items[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			delete(m.items, k)
		}
	}
	return nil
}

// Len reports the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Close stops the sweep. It is safe to call more than once.
func (m *Memory) Close() error {
	m.closeOnce.Do(func() { close(m.stopClean) })
	return nil
}
