package memory

import (
	"sync"

	"github.com/yndnr/nskv/internal/core/domain"
)

// Namespace is the key-value map owned by one identity.
type Namespace struct {
	owner domain.Identity

	mu    sync.RWMutex
	items map[string]string
}

func newNamespace(owner domain.Identity) *Namespace {
	return &Namespace{
		owner: owner,
		items: make(map[string]string),
	}
}

// Owner returns the identity the namespace belongs to.
func (ns *Namespace) Owner() domain.Identity {
	return ns.owner
}

// Get returns the value stored under key.
func (ns *Namespace) Get(key string) (string, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	v, ok := ns.items[key]
	return v, ok
}

// Put stores value under key, replacing any previous value.
func (ns *Namespace) Put(key, value string) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.items[key] = value
}

// Len returns the number of keys in the namespace.
func (ns *Namespace) Len() int {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return len(ns.items)
}
