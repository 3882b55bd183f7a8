// ABOUTME: Tests for bandwidth configuration loading and backend factories.
// ABOUTME: Covers defaults, YAML files, env overrides, path expansion, and kinds.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/bandwidth/internal/biometrics"
	"github.com/harperreed/bandwidth/internal/cache"
	"github.com/harperreed/bandwidth/internal/notify"
	"github.com/harperreed/bandwidth/internal/storage"
	"github.com/redis/go-redis/v9"
)

func TestGetBackendDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetBackend(); got != BackendSQLite {
		t.Errorf("GetBackend() = %q, want %q", got, BackendSQLite)
	}
}

func TestGetBackendExplicit(t *testing.T) {
	cfg := &Config{Backend: "Redis"}
	if got := cfg.GetBackend(); got != BackendRedis {
		t.Errorf("GetBackend() = %q, want %q", got, BackendRedis)
	}
}

func TestGetDataDirDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetDataDir(); got != storage.DataDir() {
		t.Errorf("GetDataDir() = %q, want %q", got, storage.DataDir())
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/bandwidth-data"}
	want := filepath.Join(home, "bandwidth-data")
	if got := cfg.GetDataDir(); got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
	if got := cfg.DBPath(); got != filepath.Join(want, "bandwidth.db") {
		t.Errorf("DBPath() = %q", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/bandwidth", filepath.Join(home, "data/bandwidth")},
		{"data/bandwidth", "data/bandwidth"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ExpandPath(tt.in); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := &Config{Timezone: "Local"}
	loc, err := cfg.Location()
	if err != nil || loc != time.Local {
		t.Fatalf("Location() = %v, %v; want Local", loc, err)
	}

	cfg.Timezone = "America/Chicago"
	loc, err = cfg.Location()
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	if loc.String() != "America/Chicago" {
		t.Errorf("Location() = %q", loc)
	}

	cfg.Timezone = "Not/AZone"
	if _, err := cfg.Location(); err == nil {
		t.Error("expected error for unknown zone")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.GetBackend() != BackendSQLite {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "console" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Redis.Channel != "bandwidth:notifications" {
		t.Errorf("Redis.Channel = %q", cfg.Redis.Channel)
	}
	if cfg.Source.Kind != SourceLocal || cfg.Source.Timeout != 10*time.Second || cfg.Source.Retries != 2 {
		t.Errorf("Source = %+v", cfg.Source)
	}
	if cfg.Notify.Kind != NotifyLog {
		t.Errorf("Notify.Kind = %q", cfg.Notify.Kind)
	}
	if cfg.Tasks.PollInterval != 30*time.Second {
		t.Errorf("Tasks.PollInterval = %v", cfg.Tasks.PollInterval)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("BANDWIDTH_USER_ID", "env-user")

	content := `backend: redis
user_id: file-user
timezone: UTC
source:
  kind: http
  base_url: https://health.example.com
  timeout: 3s
tasks:
  poll_interval: 1m
`
	if err := os.MkdirAll(filepath.Join(dir, "bandwidth"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(GetConfigPath(), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend != BackendRedis {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.UserID != "env-user" {
		t.Errorf("UserID = %q, want env override", cfg.UserID)
	}
	if cfg.Source.BaseURL != "https://health.example.com" || cfg.Source.Timeout != 3*time.Second {
		t.Errorf("Source = %+v", cfg.Source)
	}
	if cfg.Tasks.PollInterval != time.Minute {
		t.Errorf("PollInterval = %v", cfg.Tasks.PollInterval)
	}
}

func TestLoadExplicitFileError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("backend: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestOpenMetricStore(t *testing.T) {
	cfg := &Config{DataDir: t.TempDir(), UserID: "u1"}
	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()

	ms, err := cfg.OpenMetricStore(repo, nil)
	if err != nil {
		t.Fatalf("OpenMetricStore() error = %v", err)
	}
	if _, ok := ms.Store.(*cache.DocumentStore); !ok {
		t.Errorf("Store = %T, want *cache.DocumentStore", ms.Store)
	}
	if err := ms.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	ms, err = (&Config{Backend: BackendRedis, Redis: RedisConfig{Addr: "localhost:0"}}).OpenMetricStore(repo, nil)
	if err != nil {
		t.Fatalf("redis OpenMetricStore() error = %v", err)
	}
	if _, ok := ms.Store.(*cache.RedisStore); !ok {
		t.Errorf("Store = %T, want *cache.RedisStore", ms.Store)
	}
	_ = ms.Close()

	if _, err := (&Config{Backend: "markdown"}).OpenMetricStore(repo, nil); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestOpenSourceAndSender(t *testing.T) {
	cfg := &Config{}
	src, err := cfg.OpenSource(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(*biometrics.LocalSource); !ok {
		t.Errorf("source = %T", src)
	}

	if _, err := (&Config{Source: SourceConfig{Kind: SourceHTTP}}).OpenSource(nil, nil); err == nil {
		t.Error("expected error without base_url")
	}
	src, err = (&Config{Source: SourceConfig{Kind: SourceHTTP, BaseURL: "http://localhost"}}).OpenSource(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(*biometrics.HTTPSource); !ok {
		t.Errorf("source = %T", src)
	}

	sender, err := cfg.OpenSender(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := sender.Sender.(*notify.LogSender); !ok {
		t.Errorf("sender = %T", sender)
	}
	if _, err := (&Config{Notify: NotifyConfig{Kind: "pigeon"}}).OpenSender(nil); err == nil {
		t.Error("expected error for unknown notifier")
	}
}

func TestOpenSenderRedisClosesClient(t *testing.T) {
	cfg := &Config{
		Notify: NotifyConfig{Kind: NotifyRedis},
		Redis:  RedisConfig{Addr: "localhost:0", Channel: "bandwidth:test"},
	}
	sender, err := cfg.OpenSender(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := sender.Sender.(*notify.RedisSender); !ok {
		t.Errorf("sender = %T", sender.Sender)
	}
	if err := sender.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := sender.Close(); !errors.Is(err, redis.ErrClosed) {
		t.Errorf("second Close() = %v, want redis.ErrClosed", err)
	}

	logSender, err := (&Config{}).OpenSender(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := logSender.Close(); err != nil {
		t.Errorf("log sender Close() = %v", err)
	}
}
