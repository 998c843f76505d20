package memory

import (
	"github.com/yndnr/nskv/internal/core/domain"
	"github.com/yndnr/nskv/pkg/cmap"
)

// Registry maps client identities to their namespaces.
//
// A Registry is constructed once per process and shared by every
// connection handler.
type Registry struct {
	namespaces *cmap.Map[*Namespace]
}

// Option configures the Registry.
type Option func(*registryOptions)

type registryOptions struct {
	shards int
}

// WithShards sets the number of registry shards (power of 2).
func WithShards(n int) Option {
	return func(o *registryOptions) {
		o.shards = n
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	o := registryOptions{shards: cmap.DefaultShardCount}
	for _, opt := range opts {
		opt(&o)
	}

	return &Registry{
		namespaces: cmap.NewWithShards[*Namespace](o.shards),
	}
}

// GetOrCreate returns the namespace of id, creating an empty one if id has
// never been seen. It never fails.
func (r *Registry) GetOrCreate(id domain.Identity) *Namespace {
	ns, _ := r.namespaces.GetOrCreate(id.String(), func() *Namespace {
		return newNamespace(id)
	})
	return ns
}

// Lookup returns the namespace of id without creating it. It reports false
// for identities that have never issued a PUT or GET.
func (r *Registry) Lookup(id domain.Identity) (*Namespace, bool) {
	return r.namespaces.Get(id.String())
}

// Len returns the number of namespaces.
func (r *Registry) Len() int {
	return r.namespaces.Count()
}

// Identities returns all known identities in unspecified order.
func (r *Registry) Identities() []domain.Identity {
	keys := r.namespaces.Keys()
	ids := make([]domain.Identity, len(keys))
	for i, k := range keys {
		ids[i] = domain.Identity(k)
	}
	return ids
}
