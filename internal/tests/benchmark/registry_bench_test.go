package benchmark

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/yndnr/nskv/internal/storage/memory"
)

// BenchmarkRegistryCreate measures namespace creation for new identities.
func BenchmarkRegistryCreate(b *testing.B) {
	reg := memory.NewRegistry()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		reg.GetOrCreate(identityFor(i))
	}

	b.StopTimer()
	reportMemory(b, "mem")
}

// BenchmarkRegistryGetOrCreate measures the hot path for existing identities.
func BenchmarkRegistryGetOrCreate(b *testing.B) {
	runWithNamespaceCounts(b, NamespaceCounts, func(b *testing.B, count int) {
		reg, ids := prefillRegistry(count, 0)
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			reg.GetOrCreate(ids[i%len(ids)])
		}
	})
}

// BenchmarkRegistryGetOrCreateParallel measures shard lock contention.
func BenchmarkRegistryGetOrCreateParallel(b *testing.B) {
	runWithNamespaceCounts(b, NamespaceCounts, func(b *testing.B, count int) {
		reg, ids := prefillRegistry(count, 0)
		var next atomic.Uint64
		b.ReportAllocs()
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				reg.GetOrCreate(ids[int(next.Add(1))%len(ids)])
			}
		})
	})
}

// BenchmarkRegistryLookup measures the Manager cross-namespace read path.
func BenchmarkRegistryLookup(b *testing.B) {
	runWithNamespaceCounts(b, NamespaceCounts, func(b *testing.B, count int) {
		reg, ids := prefillRegistry(count, 1)
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			ns, ok := reg.Lookup(ids[i%len(ids)])
			if !ok {
				b.Fatal("namespace missing")
			}
			ns.Get("key-0")
		}
	})
}

// BenchmarkNamespacePut measures writes into one namespace.
func BenchmarkNamespacePut(b *testing.B) {
	reg := memory.NewRegistry()
	ns := reg.GetOrCreate(identityFor(1))
	keys := make([]string, 1024)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
	}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		ns.Put(keys[i%len(keys)], "value")
	}
}

// BenchmarkNamespaceMixedParallel runs 90% reads and 10% writes against
// a single namespace from many goroutines.
func BenchmarkNamespaceMixedParallel(b *testing.B) {
	reg, ids := prefillRegistry(1, 1024)
	ns := reg.GetOrCreate(ids[0])
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			key := fmt.Sprintf("key-%d", i%1024)
			if i%10 == 0 {
				ns.Put(key, "updated")
			} else {
				ns.Get(key)
			}
			i++
		}
	})
}
