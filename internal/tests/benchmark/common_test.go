package benchmark

import (
	"fmt"
	"net"
	"runtime"
	"testing"

	"github.com/yndnr/nskv/internal/core/domain"
	"github.com/yndnr/nskv/internal/storage/memory"
)

// NamespaceCounts defines the registry sizes for benchmarking.
var NamespaceCounts = []int{100, 1000, 10000}

// identityFor returns a distinct IPv4 identity for i.
func identityFor(i int) domain.Identity {
	return domain.Identity(net.IPv4(10, byte(i>>16), byte(i>>8), byte(i)).String())
}

// prefillRegistry creates count namespaces holding keysPer keys each.
func prefillRegistry(count, keysPer int) (*memory.Registry, []domain.Identity) {
	reg := memory.NewRegistry()
	ids := make([]domain.Identity, count)
	for i := 0; i < count; i++ {
		ids[i] = identityFor(i)
		ns := reg.GetOrCreate(ids[i])
		for k := 0; k < keysPer; k++ {
			ns.Put(fmt.Sprintf("key-%d", k), "value")
		}
	}
	return reg, ids
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithNamespaceCounts runs benchFn once per registry size.
func runWithNamespaceCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("namespaces_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
