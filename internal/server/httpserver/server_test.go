package httpserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s := New(":8080", handler)
	if s == nil {
		t.Fatal("New returned nil")
	}
	if s.httpServer == nil {
		t.Error("httpServer is nil")
	}
	if s.Addr() != nil {
		t.Error("Addr() before Start should be nil")
	}
}

func TestServer_StartShutdown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})

	s := New("127.0.0.1:0", handler)
	errs := make(chan error, 1)
	if err := s.Start(func(err error) { errs <- err }); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	resp, err := http.Get("http://" + s.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "pong" {
		t.Errorf("body = %q, want pong", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown error: %v", err)
	}

	select {
	case err := <-errs:
		t.Errorf("unexpected serve error: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestServer_StartBindError(t *testing.T) {
	first := New("127.0.0.1:0", http.NotFoundHandler())
	if err := first.Start(nil); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer first.Shutdown(context.Background())

	second := New(first.Addr().String(), http.NotFoundHandler())
	if err := second.Start(nil); err == nil {
		second.Shutdown(context.Background())
		t.Fatal("Start() on a bound port succeeded")
	}
}

func TestServer_StartTLS(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "secure")
	})

	// Borrow the test certificate from httptest and a client that trusts it.
	ref := httptest.NewUnstartedServer(handler)
	ref.StartTLS()
	tlsCfg := ref.TLS.Clone()
	client := ref.Client()
	ref.Close()

	s := New("127.0.0.1:0", handler, WithTLSConfig(tlsCfg))
	if !s.TLS() {
		t.Fatal("TLS() = false with a TLS config")
	}
	if err := s.Start(nil); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Shutdown(context.Background())

	resp, err := client.Get("https://" + s.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "secure" {
		t.Errorf("body = %q, want secure", body)
	}

	if resp, err := http.Get("http://" + s.Addr().String() + "/"); err == nil {
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("plain HTTP status = %d, want 400", resp.StatusCode)
		}
	}
}
