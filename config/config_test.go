package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Namespace != "movie" {
		t.Errorf("Namespace = %q, want movie", cfg.Namespace)
	}
	if cfg.NearestNeighbors != 5 {
		t.Errorf("NearestNeighbors = %d, want 5", cfg.NearestNeighbors)
	}
	if cfg.NumOfRecsStore != 30 {
		t.Errorf("NumOfRecsStore = %d, want 30", cfg.NumOfRecsStore)
	}
	if cfg.FactorLeastSimilarLeastLiked {
		t.Error("FactorLeastSimilarLeastLiked should default to false")
	}
	if cfg.WilsonZ != 1.96 {
		t.Errorf("WilsonZ = %v, want 1.96", cfg.WilsonZ)
	}
	if got := cfg.Redis.Addr(); got != "127.0.0.1:6379" {
		t.Errorf("Redis.Addr() = %q", got)
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "procyon.yaml")
	content := []byte(`
namespace: books
nearest_neighbors: 10
redis:
  host: redis.internal
  port: 6380
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML error: %v", err)
	}
	if cfg.Namespace != "books" {
		t.Errorf("Namespace = %q, want books", cfg.Namespace)
	}
	if cfg.NearestNeighbors != 10 {
		t.Errorf("NearestNeighbors = %d, want 10", cfg.NearestNeighbors)
	}
	// 未出现的字段保留默认值
	if cfg.NumOfRecsStore != 30 {
		t.Errorf("NumOfRecsStore = %d, want default 30", cfg.NumOfRecsStore)
	}
	if got := cfg.Redis.Addr(); got != "redis.internal:6380" {
		t.Errorf("Redis.Addr() = %q", got)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PROCYON_REDIS_URL", "10.0.0.9")
	t.Setenv("PROCYON_REDIS_PORT", "7000")
	t.Setenv("PROCYON_REDIS_AUTH", "secret")

	cfg := Default()
	cfg.ApplyEnv()

	if got := cfg.Redis.Addr(); got != "10.0.0.9:7000" {
		t.Errorf("Redis.Addr() = %q", got)
	}
	if cfg.Redis.Auth != "secret" {
		t.Errorf("Redis.Auth = %q", cfg.Redis.Auth)
	}
}
