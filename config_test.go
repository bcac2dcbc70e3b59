package research

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "research.yaml")
	data := `base_url: https://research.example.com
max_retries: 4
min_backoff: 100ms
max_backoff: 2s
headers:
  X-Api-Key: secret
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := ConfigFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BaseURL != "https://research.example.com" {
		t.Fatalf("base url=%q", cfg.BaseURL)
	}
	if cfg.MaxRetries != 4 {
		t.Fatalf("max retries=%d", cfg.MaxRetries)
	}
	if cfg.MinBackoff != 100*time.Millisecond || cfg.MaxBackoff != 2*time.Second {
		t.Fatalf("backoff=%v/%v", cfg.MinBackoff, cfg.MaxBackoff)
	}
	if cfg.Headers["X-Api-Key"] != "secret" {
		t.Fatalf("headers=%v", cfg.Headers)
	}
}

func TestConfigFromFileBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "research.yaml")
	if err := os.WriteFile(path, []byte("min_backoff: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ConfigFromFile(path); err == nil {
		t.Fatalf("expected error")
	}
}

func TestConfigFromFileMissing(t *testing.T) {
	if _, err := ConfigFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}
