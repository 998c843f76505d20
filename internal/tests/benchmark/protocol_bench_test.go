package benchmark

import (
	"bufio"
	"net"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/yndnr/nskv/internal/core/service"
	"github.com/yndnr/nskv/internal/server/kvserver"
	"github.com/yndnr/nskv/internal/storage/memory"
	"github.com/yndnr/nskv/internal/telemetry/logger"
)

func newBenchHandler(b *testing.B, limit int) *kvserver.CommandHandler {
	b.Helper()
	auth, err := service.NewAuthenticator("admin123")
	if err != nil {
		b.Fatalf("NewAuthenticator() error = %v", err)
	}
	return kvserver.NewCommandHandler(memory.NewRegistry(), auth,
		kvserver.WithRateLimiter(service.NewRateLimiterRegistry(limit)),
		kvserver.WithLogger(logger.NewNop()))
}

// BenchmarkParseLine measures request tokenisation.
func BenchmarkParseLine(b *testing.B) {
	lines := []string{
		"put city Kolkata",
		"GET city",
		"get 192.168.1.20:city",
		"  put   spaced    value  ",
	}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		kvserver.ParseLine(lines[i%len(lines)])
	}
}

// BenchmarkReadLine measures framing a stream of CRLF request lines.
func BenchmarkReadLine(b *testing.B) {
	stream := strings.Repeat("put city Kolkata\r\n", 1024)
	b.SetBytes(int64(len("put city Kolkata\r\n")))
	b.ReportAllocs()
	b.ResetTimer()

	var br *bufio.Reader
	for i := 0; i < b.N; i++ {
		if i%1024 == 0 {
			br = bufio.NewReader(strings.NewReader(stream))
		}
		if _, err := kvserver.ReadLine(br, kvserver.MaxLineLen); err != nil {
			b.Fatalf("ReadLine() error = %v", err)
		}
	}
}

// BenchmarkHandle measures command dispatch without the network.
func BenchmarkHandle(b *testing.B) {
	cases := []struct {
		name  string
		limit int
	}{
		{"unlimited", 0},
		{"rate_limited", 1 << 30},
	}
	for _, tc := range cases {
		b.Run(tc.name, func(b *testing.B) {
			h := newBenchHandler(b, tc.limit)
			sess := kvserver.NewSession(&net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 50000})
			put, _ := kvserver.ParseLine("put city Kolkata")
			get, _ := kvserver.ParseLine("get city")
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if i%2 == 0 {
					h.Handle(sess, put)
				} else {
					h.Handle(sess, get)
				}
			}
		})
	}
}

// BenchmarkHandleParallel simulates many clients, one identity each.
func BenchmarkHandleParallel(b *testing.B) {
	h := newBenchHandler(b, 0)
	get, _ := kvserver.ParseLine("get city")
	put, _ := kvserver.ParseLine("put city Kolkata")
	b.ReportAllocs()
	b.ResetTimer()

	var seq atomic.Int32
	b.RunParallel(func(pb *testing.PB) {
		n := int(seq.Add(1))
		sess := kvserver.NewSession(&net.TCPAddr{IP: net.IPv4(10, 0, byte(n>>8), byte(n)), Port: 40000})
		h.Handle(sess, put)
		for pb.Next() {
			h.Handle(sess, get)
		}
	})
}
