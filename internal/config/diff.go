package config

import (
	"reflect"
	"sort"
	"strings"

	logx "farmwatch/pkg/logx"
)

// SummarizeChange returns a compact list of changed sections plus safe
// structured attrs for logging. Secrets (api key, bot token) never appear in
// the attrs, only whether they are set.
func SummarizeChange(oldCfg, newCfg *Config) ([]string, []logx.Field) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 7)
	attrs := make([]logx.Field, 0, 16)

	if strings.TrimSpace(oldCfg.Farm.ID) != strings.TrimSpace(newCfg.Farm.ID) ||
		strings.TrimSpace(oldCfg.Farm.APIBase) != strings.TrimSpace(newCfg.Farm.APIBase) ||
		(strings.TrimSpace(oldCfg.Farm.APIKey) != "") != (strings.TrimSpace(newCfg.Farm.APIKey) != "") {
		changed = append(changed, "farm")
		attrs = append(attrs,
			logx.String("farm.id", strings.TrimSpace(newCfg.Farm.ID)),
			logx.Bool("farm.api_key_set", strings.TrimSpace(newCfg.Farm.APIKey) != ""),
		)
	}

	if oldCfg.Poll != newCfg.Poll {
		changed = append(changed, "poll")
		attrs = append(attrs,
			logx.Duration("poll.interval", newCfg.PollInterval()),
			logx.Duration("poll.cache_window", newCfg.CacheWindow()),
			logx.Duration("poll.timeout", newCfg.FetchTimeout()),
		)
	}

	// Telegram (never log token)
	if (strings.TrimSpace(oldCfg.Telegram.Token) != "") != (strings.TrimSpace(newCfg.Telegram.Token) != "") ||
		oldCfg.Telegram.ChatID != newCfg.Telegram.ChatID ||
		oldCfg.Telegram.ThreadID != newCfg.Telegram.ThreadID {
		changed = append(changed, "telegram")
		attrs = append(attrs,
			logx.Bool("telegram.token_set", strings.TrimSpace(newCfg.Telegram.Token) != ""),
			logx.Bool("telegram.chat_set", newCfg.Telegram.ChatID != 0),
		)
	}

	if !reflect.DeepEqual(oldCfg.Alarms, newCfg.Alarms) {
		changed = append(changed, "alarms")
		attrs = append(attrs,
			logx.Bool("alarms.exact", newCfg.Alarms.ExactEnabled()),
			logx.Duration("alarms.sweep_interval", newCfg.SweepInterval()),
		)
	}

	// Storage: nil means in-memory.
	var oDriver, nDriver string
	var oPathSet, nPathSet bool
	if oldCfg.Storage != nil {
		oDriver = strings.TrimSpace(oldCfg.Storage.Driver)
		oPathSet = strings.TrimSpace(oldCfg.Storage.Path) != ""
	}
	if newCfg.Storage != nil {
		nDriver = strings.TrimSpace(newCfg.Storage.Driver)
		nPathSet = strings.TrimSpace(newCfg.Storage.Path) != ""
	}
	if oDriver != nDriver || oPathSet != nPathSet {
		changed = append(changed, "storage")
		attrs = append(attrs,
			logx.String("storage.driver", nDriver),
			logx.Bool("storage.path_set", nPathSet),
		)
	}

	if !reflect.DeepEqual(oldCfg.Features, newCfg.Features) {
		changed = append(changed, "features")
		attrs = append(attrs,
			logx.Bool("features.greenhouse", newCfg.Features.GreenhouseEnabled()),
			logx.Bool("features.skills", newCfg.Features.SkillsEnabled()),
			logx.Bool("features.daily_reset", newCfg.Features.DailyResetEnabled()),
			logx.Bool("features.marketplace", newCfg.Features.MarketplaceEnabled()),
			logx.Bool("features.floating_island", newCfg.Features.FloatingIslandEnabled()),
			logx.Bool("features.auctions", newCfg.Features.AuctionsEnabled()),
			logx.Bool("features.pets", newCfg.Features.PetsEnabled()),
			logx.Bool("features.cooking_by_building", newCfg.Features.CookingByBuildingEnabled()),
		)
	}

	if !reflect.DeepEqual(oldCfg.Logging, newCfg.Logging) {
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logx.level", newCfg.Logging.Level),
			logx.Bool("logx.console", newCfg.Logging.Console),
			logx.Bool("logx.file_enabled", newCfg.Logging.File.Enabled),
			logx.Bool("logx.telegram_enabled", newCfg.Logging.Telegram.Enabled),
		)
	}

	sort.Strings(changed)
	return changed, attrs
}
