package storage

import "sync"

type watcher struct {
	id uint64
	fn ChangeFunc
}

// watcherRegistry guarda os observadores por chave; chave sem observadores sai do mapa
type watcherRegistry struct {
	mu     sync.RWMutex
	byKey  map[string][]watcher
	nextID uint64
}

func newWatcherRegistry() *watcherRegistry {
	return &watcherRegistry{byKey: make(map[string][]watcher)}
}

func (r *watcherRegistry) add(key string, fn ChangeFunc) func() {
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.byKey[key] = append(r.byKey[key], watcher{id: id, fn: fn})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(key, id) })
	}
}

func (r *watcherRegistry) remove(key string, id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.byKey[key]
	for i, w := range current {
		if w.id == id {
			current = append(current[:i:i], current[i+1:]...)
			break
		}
	}

	if len(current) == 0 {
		delete(r.byKey, key)
		return
	}
	r.byKey[key] = current
}

// dispatch chama os observadores da chave fora do lock
func (r *watcherRegistry) dispatch(key, origin string) {
	r.mu.RLock()
	targets := make([]watcher, len(r.byKey[key]))
	copy(targets, r.byKey[key])
	r.mu.RUnlock()

	for _, w := range targets {
		w.fn(key, origin)
	}
}

func (r *watcherRegistry) keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.byKey))
	for key := range r.byKey {
		keys = append(keys, key)
	}
	return keys
}

func (r *watcherRegistry) count(key string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKey[key])
}

func (r *watcherRegistry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKey)
}
