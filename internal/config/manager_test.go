package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return p
}

func TestParseStrictJSON(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "minimal valid",
			body: `{"farm":{"id":"12345","api_key":"k"},"telegram":{"token":"t","chat_id":1}}`,
		},
		{
			name:    "unknown top-level field",
			body:    `{"farm":{"id":"1","api_key":"k"},"telegram":{"token":"t","chat_id":1},"bogus":true}`,
			wantErr: true,
		},
		{
			name:    "unknown nested field",
			body:    `{"farm":{"id":"1","api_key":"k","region":"eu"},"telegram":{"token":"t","chat_id":1}}`,
			wantErr: true,
		},
		{
			name:    "trailing data",
			body:    `{"farm":{"id":"1","api_key":"k"},"telegram":{"token":"t","chat_id":1}}{}`,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := NewManager(writeTemp(t, "config.json", tc.body))
			_, err := m.Parse()
			if tc.wantErr && err == nil {
				t.Fatalf("expected parse error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected parse error: %v", err)
			}
		})
	}
}

func TestParseYAML(t *testing.T) {
	t.Parallel()

	body := `
farm:
  id: "4242"
  api_key: secret
poll:
  interval: 2m
  cache_window: 45s
telegram:
  token: tok
  chat_id: 99
features:
  pets: false
`
	m := NewManager(writeTemp(t, "config.yaml", body))
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Farm.ID != "4242" {
		t.Fatalf("farm.id = %q, want 4242", cfg.Farm.ID)
	}
	if got := cfg.PollInterval(); got != 2*time.Minute {
		t.Fatalf("poll interval = %v, want 2m", got)
	}
	if got := cfg.CacheWindow(); got != 45*time.Second {
		t.Fatalf("cache window = %v, want 45s", got)
	}
	if cfg.Features.PetsEnabled() {
		t.Fatalf("features.pets should be disabled")
	}
	if !cfg.Features.AuctionsEnabled() {
		t.Fatalf("features.auctions should default to enabled")
	}
}

func TestDurationDefaults(t *testing.T) {
	t.Parallel()

	var cfg Config
	if got := cfg.PollInterval(); got != 5*time.Minute {
		t.Fatalf("default poll interval = %v", got)
	}
	if got := cfg.CacheWindow(); got != 30*time.Second {
		t.Fatalf("default cache window = %v", got)
	}
	if got := cfg.FetchTimeout(); got != 20*time.Second {
		t.Fatalf("default fetch timeout = %v", got)
	}
	if got := cfg.SweepInterval(); got != 30*time.Second {
		t.Fatalf("default sweep interval = %v", got)
	}
	if !cfg.Alarms.ExactEnabled() {
		t.Fatalf("alarms.exact should default to enabled")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing farm id", mutate: func(c *Config) { c.Farm.ID = " " }, wantErr: true},
		{name: "bad interval", mutate: func(c *Config) { c.Poll.Interval = "soon" }, wantErr: true},
		{name: "negative interval", mutate: func(c *Config) { c.Poll.Interval = "-5s" }, wantErr: true},
		{name: "unknown storage driver", mutate: func(c *Config) {
			c.Storage = &StorageConfig{Driver: "redis"}
		}, wantErr: true},
		{name: "sqlite driver", mutate: func(c *Config) {
			c.Storage = &StorageConfig{Driver: "sqlite", Path: "x.db"}
		}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := Config{
				Farm:     FarmConfig{ID: "1", APIKey: "k"},
				Telegram: TelegramConfig{Token: "t", ChatID: 1},
			}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSummarizeChangeNeverLeaksSecrets(t *testing.T) {
	t.Parallel()

	oldCfg := &Config{Farm: FarmConfig{ID: "1", APIKey: "old"}}
	newCfg := &Config{Farm: FarmConfig{ID: "2", APIKey: "new"}, Telegram: TelegramConfig{Token: "tok", ChatID: 5}}

	changed, _ := SummarizeChange(oldCfg, newCfg)
	want := map[string]bool{"farm": true, "telegram": true}
	for _, c := range changed {
		if !want[c] {
			t.Fatalf("unexpected changed section %q (all: %v)", c, changed)
		}
		delete(want, c)
	}
	if len(want) != 0 {
		t.Fatalf("missing changed sections: %v", want)
	}
}
