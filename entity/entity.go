// Package entity resolves entity hashes back to their human-readable names.
package entity

import "sync"

// Mapping looks up the name behind an entity hash.
type Mapping interface {
	Lookup(hash int64) (string, bool)
}

// Registry is a concurrency-safe in-memory Mapping.
type Registry struct {
	mu    sync.RWMutex
	names map[int64]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[int64]string)}
}

// Put records name under hash. The first name recorded for a hash wins.
func (r *Registry) Put(hash int64, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.names[hash]; !ok {
		r.names[hash] = name
	}
}

// Lookup implements Mapping.
func (r *Registry) Lookup(hash int64) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.names[hash]
	return name, ok
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}
