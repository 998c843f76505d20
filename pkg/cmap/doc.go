// Package cmap provides a concurrent-safe sharded map keyed by strings.
//
// Keys are routed to shards with murmur3, and every shard owns its own
// RWMutex. GetOrCreate runs the existence check and the insertion inside
// one exclusive critical section, so two goroutines racing on the same
// absent key always observe the same value.
package cmap
