package storage

import (
	"context"
	"sync"
)

// MemoryStorage guarda os valores em memória e entrega o sinal de alteração de forma síncrona
type MemoryStorage struct {
	mu       sync.RWMutex
	values   map[string]string
	watchers *watcherRegistry
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		values:   make(map[string]string),
		watchers: newWatcherRegistry(),
	}
}

func (m *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, found := m.values[key]
	return value, found, nil
}

func (m *MemoryStorage) Set(_ context.Context, key, value, origin string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()

	m.watchers.dispatch(key, origin)
	return nil
}

func (m *MemoryStorage) Watch(key string, fn ChangeFunc) func() {
	return m.watchers.add(key, fn)
}

// SetRaw grava sem disparar sinal; usado para simular dados corrompidos
func (m *MemoryStorage) SetRaw(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// WatchedKeys conta as chaves com pelo menos um observador
func (m *MemoryStorage) WatchedKeys() int {
	return m.watchers.size()
}

func (m *MemoryStorage) watcherCount(key string) int {
	return m.watchers.count(key)
}
