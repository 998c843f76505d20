// Package memory provides the in-memory namespace registry for nskv.
//
// Every client identity owns exactly one Namespace, created lazily on its
// first access and kept for the lifetime of the process.
//
// Thread Safety:
//
// The registry routes identities through a sharded map whose
// get-or-create step runs under an exclusive shard lock, so two
// connections touching a new identity at the same time share one
// Namespace. Each Namespace guards its own key-value map with an RWMutex:
// concurrent connections from the same identity never tear a write.
package memory
