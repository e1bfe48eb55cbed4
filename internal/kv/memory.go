package kv

import (
	"context"
	"sync"

	"storefront/internal/domain"
)

// Memory is an in-process Store. It backs unit tests and the default dev
// mode, where losing state on restart is acceptable.
type Memory struct {
	mu      sync.RWMutex
	records map[string]string
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.records[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

func (m *Memory) Ping(_ context.Context) error {
	return nil
}
