package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomz197/ballrush/internal/store"
)

func TestRecordsFallBackToMemory(t *testing.T) {
	t.Setenv("PG_DSN", "")
	sp := NewServiceProvider("test")

	recs := sp.Records(context.Background())
	if _, ok := recs.(*store.Memory); !ok {
		t.Fatalf("records = %T, want *store.Memory", recs)
	}
	if sp.Records(context.Background()) != recs {
		t.Fatalf("Records built twice")
	}
	if sp.GameServer(context.Background()) == nil || sp.Router(context.Background()) == nil {
		t.Fatalf("wiring incomplete")
	}
}

func TestTuningFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("round_seconds: 45\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TUNING_FILE", path)

	if got := NewServiceProvider("test").Tuning().RoundSeconds; got != 45 {
		t.Fatalf("RoundSeconds = %d, want 45", got)
	}
}

func TestBadTuningPanics(t *testing.T) {
	t.Setenv("TUNING_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	defer func() {
		if recover() == nil {
			t.Fatalf("missing tuning file did not panic")
		}
	}()
	NewServiceProvider("test").Tuning()
}

func TestHTTPServerFromEnv(t *testing.T) {
	t.Setenv("PG_DSN", "")
	t.Setenv("WEB_HOST", "127.0.0.1")
	t.Setenv("WEB_PORT", "9099")
	t.Setenv("HTTP_READ_HEADER_TIMEOUT", "3s")
	t.Setenv("HTTP_MAX_HEADER_BYTES", "4096")

	srv := NewServiceProvider("test").HTTPServer(context.Background())
	if srv.Addr != "127.0.0.1:9099" {
		t.Fatalf("Addr = %q", srv.Addr)
	}
	if srv.ReadHeaderTimeout != 3*time.Second || srv.MaxHeaderBytes != 4096 {
		t.Fatalf("timeouts = %v / %d", srv.ReadHeaderTimeout, srv.MaxHeaderBytes)
	}
	if srv.Handler == nil {
		t.Fatalf("no handler")
	}
}

func TestShutdownTimeout(t *testing.T) {
	tests := []struct {
		env  string
		want time.Duration
	}{
		{"", 15 * time.Second},
		{"2s", 2 * time.Second},
		{"soon", 15 * time.Second},
		{"-1s", 15 * time.Second},
	}
	for _, tt := range tests {
		t.Setenv("SHUTDOWN_TIMEOUT", tt.env)
		if got := NewServiceProvider("test").ShutdownTimeout(15 * time.Second); got != tt.want {
			t.Errorf("SHUTDOWN_TIMEOUT=%q: got %v, want %v", tt.env, got, tt.want)
		}
	}
}
