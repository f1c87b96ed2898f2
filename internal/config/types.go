package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Farm     FarmConfig     `json:"farm"`
	Poll     PollConfig     `json:"poll"`
	Telegram TelegramConfig `json:"telegram"`
	Alarms   AlarmsConfig   `json:"alarms"`
	Storage  *StorageConfig `json:"storage,omitempty"`
	Features FeaturesConfig `json:"features"`
	Logging  LoggingConfig  `json:"logging"`
}

// FarmConfig identifies the farm to poll.
//
// APIBase defaults to the public API root when omitted. APIKey is sent as the
// x-api-key header on every fetch (do not log).
type FarmConfig struct {
	ID      string `json:"id"`
	APIBase string `json:"api_base,omitempty"`
	APIKey  string `json:"api_key"`
}

// PollConfig controls the periodic pipeline trigger.
//
// All durations are Go duration strings (e.g. "30s", "5m").
//
// Defaults (when fields are omitted/zero):
//   - interval: "5m"
//   - cache_window: "30s"
//   - timeout: "20s"
//   - rate_per_sec: 1
type PollConfig struct {
	Interval    string `json:"interval,omitempty"`
	CacheWindow string `json:"cache_window,omitempty"`
	Timeout     string `json:"timeout,omitempty"`
	RatePerSec  int    `json:"rate_per_sec,omitempty"`
}

type TelegramConfig struct {
	Token    string `json:"token"`
	ChatID   int64  `json:"chat_id"`
	ThreadID int    `json:"thread_id,omitempty"`
}

// AlarmsConfig controls the in-process alarm service.
//
// Exact is a pointer so "omitted" (default true) is distinguishable from an
// explicit false. With exact timers disabled every registration goes through
// the coarse sweeper instead.
type AlarmsConfig struct {
	Exact         *bool  `json:"exact,omitempty"`
	SweepInterval string `json:"sweep_interval,omitempty"` // default: "30s"
}

// StorageConfig controls the persistence layer.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./farmwatch_store" }
//
// Nil (section omitted) means in-memory: state is lost on restart but the
// process still behaves correctly while it runs.
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// FeaturesConfig toggles notification categories.
//
// All flags are pointers so that an omitted flag keeps its default:
// every category defaults to enabled except cooking_by_building, which
// changes cooking clustering from per-dish to per-building.
type FeaturesConfig struct {
	Greenhouse        *bool `json:"greenhouse,omitempty"`
	Skills            *bool `json:"skills,omitempty"`
	DailyReset        *bool `json:"daily_reset,omitempty"`
	Marketplace       *bool `json:"marketplace,omitempty"`
	FloatingIsland    *bool `json:"floating_island,omitempty"`
	Auctions          *bool `json:"auctions,omitempty"`
	Pets              *bool `json:"pets,omitempty"`
	CookingByBuilding *bool `json:"cooking_by_building,omitempty"`
}

type LoggingConfig struct {
	Level    string          `json:"level"`
	Console  bool            `json:"console"`
	File     LoggingFile     `json:"file"`
	Telegram LoggingTelegram `json:"telegram"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type LoggingTelegram struct {
	Enabled    bool   `json:"enabled"`
	ThreadID   int    `json:"thread_id"`
	MinLevel   string `json:"min_level"`
	RatePerSec int    `json:"rate_per_sec"`
}

func flag(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func (f FeaturesConfig) GreenhouseEnabled() bool     { return flag(f.Greenhouse, true) }
func (f FeaturesConfig) SkillsEnabled() bool         { return flag(f.Skills, true) }
func (f FeaturesConfig) DailyResetEnabled() bool     { return flag(f.DailyReset, true) }
func (f FeaturesConfig) MarketplaceEnabled() bool    { return flag(f.Marketplace, true) }
func (f FeaturesConfig) FloatingIslandEnabled() bool { return flag(f.FloatingIsland, true) }
func (f FeaturesConfig) AuctionsEnabled() bool       { return flag(f.Auctions, true) }
func (f FeaturesConfig) PetsEnabled() bool           { return flag(f.Pets, true) }
func (f FeaturesConfig) CookingByBuildingEnabled() bool {
	return flag(f.CookingByBuilding, false)
}

func (a AlarmsConfig) ExactEnabled() bool { return flag(a.Exact, true) }

func (c *Config) PollInterval() time.Duration {
	d, err := ParseDurationOrDefault("poll.interval", c.Poll.Interval, 5*time.Minute)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

func (c *Config) CacheWindow() time.Duration {
	d, err := ParseDurationOrDefault("poll.cache_window", c.Poll.CacheWindow, 30*time.Second)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

func (c *Config) FetchTimeout() time.Duration {
	d, err := ParseDurationOrDefault("poll.timeout", c.Poll.Timeout, 20*time.Second)
	if err != nil {
		return 20 * time.Second
	}
	return d
}

func (c *Config) SweepInterval() time.Duration {
	d, err := ParseDurationOrDefault("alarms.sweep_interval", c.Alarms.SweepInterval, 30*time.Second)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// Validate checks fields that would make the daemon useless at runtime.
// Called on load and before every hot-reload commit.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Farm.ID) == "" {
		return fmt.Errorf("farm.id is required")
	}
	for _, f := range []struct{ path, raw string }{
		{"poll.interval", c.Poll.Interval},
		{"poll.cache_window", c.Poll.CacheWindow},
		{"poll.timeout", c.Poll.Timeout},
		{"alarms.sweep_interval", c.Alarms.SweepInterval},
	} {
		if _, err := ParseDurationField(f.path, f.raw); err != nil {
			return err
		}
	}
	if c.Storage != nil {
		switch strings.TrimSpace(c.Storage.Driver) {
		case "", "file", "sqlite":
		default:
			return fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver)
		}
		if _, err := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout); err != nil {
			return err
		}
	}
	return nil
}
