// Package delivery renders notification groups into messages and pushes them
// through the Telegram adapter. It keeps a small in-memory history and a
// rolling on-disk summary of every pipeline run.
package delivery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"farmwatch/internal/farm"
	"farmwatch/internal/transport"
	logx "farmwatch/pkg/logx"
)

type Config struct {
	Chat transport.ChatTarget
	// HistorySize caps the in-memory delivery history. Defaults to 100.
	HistorySize int
	// SummaryPath is the run summary log. Empty disables it.
	SummaryPath string
	// SummaryMaxBytes rolls the summary file when it grows past this.
	// Defaults to 512 KiB.
	SummaryMaxBytes int64
}

type Record struct {
	At      time.Time
	GroupID string
	Text    string
	Err     string
}

type Service struct {
	log     logx.Logger
	adapter transport.Adapter

	mu      sync.Mutex
	cfg     Config
	history []Record
}

func New(cfg Config, adapter transport.Adapter, log logx.Logger) *Service {
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 100
	}
	if cfg.SummaryMaxBytes <= 0 {
		cfg.SummaryMaxBytes = 512 << 10
	}
	return &Service{log: log, adapter: adapter, cfg: cfg}
}

// SetChat retargets deliveries, for config reloads.
func (s *Service) SetChat(chat transport.ChatTarget) {
	s.mu.Lock()
	s.cfg.Chat = chat
	s.mu.Unlock()
}

// Deliver renders and sends one group. Send failures are logged and recorded,
// never propagated: a missed message must not stall the alarm service.
func (s *Service) Deliver(ctx context.Context, group farm.NotificationGroup) {
	text := Render(group)

	s.mu.Lock()
	chat := s.cfg.Chat
	s.mu.Unlock()

	rec := Record{At: time.Now(), GroupID: group.GroupID, Text: text}
	_, err := s.adapter.SendText(ctx, chat, text, &transport.SendOptions{DisablePreview: true})
	if err != nil {
		rec.Err = err.Error()
		s.log.Error("notification send failed",
			logx.String("group", group.GroupID),
			logx.Err(err))
	} else {
		s.log.Info("notification sent",
			logx.String("group", group.GroupID),
			logx.Int("quantity", group.Quantity))
	}

	s.mu.Lock()
	s.history = append(s.history, rec)
	if len(s.history) > s.cfg.HistorySize {
		s.history = s.history[len(s.history)-s.cfg.HistorySize:]
	}
	s.mu.Unlock()
}

// History returns a copy of the recent deliveries, newest last.
func (s *Service) History() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.history))
	copy(out, s.history)
	return out
}

var categoryTitles = map[string]string{
	farm.CategoryCrops:          "🌾 Crops ready",
	farm.CategoryFruits:         "🍊 Fruit ready",
	farm.CategoryGreenhouse:     "🏡 Greenhouse ready",
	farm.CategoryResources:      "⛏️ Resources replenished",
	farm.CategoryAnimals:        "🐔 Animals awake",
	farm.CategoryAnimalsLove:    "❤️ Animals want love",
	farm.CategoryAnimalSick:     "🤒 Animals are sick",
	farm.CategoryCooking:        "🍳 Food ready",
	farm.CategoryComposters:     "🪱 Compost ready",
	farm.CategoryFlowers:        "🌸 Flowers ready",
	farm.CategoryCraftingBox:    "🔨 Crafting done",
	farm.CategoryBeehives:       "🍯 Beehive full",
	farm.CategoryBeehiveSwarm:   "🐝 Bee swarm!",
	farm.CategoryCropMachine:    "🤖 Crop machine done",
	farm.CategorySunstones:      "💎 Sunstone ready",
	farm.CategorySkills:         "✨ Skill off cooldown",
	farm.CategoryDailyReset:     "🌅 Daily reset",
	farm.CategoryMarketplace:    "💰 Listing sold",
	farm.CategoryFloatingIsland: "🏝️ Floating Island arriving",
	farm.CategoryIslandShop:     "🛒 Love Island Shop restocked",
	farm.CategoryAuctions:       "🔨 Auction starting",
	farm.CategoryPets:           "🐾 Pet bedtime",
}

// Render formats one group as a plain-text message.
func Render(group farm.NotificationGroup) string {
	title := categoryTitles[group.Category]
	if title == "" {
		title = group.Category
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	if group.Quantity > 1 {
		fmt.Fprintf(&b, "%s x%d", group.DisplayName, group.Quantity)
	} else {
		b.WriteString(group.DisplayName)
	}
	if a := group.Auction; a != nil {
		fmt.Fprintf(&b, "\nstarts %s", a.StartAt.UTC().Format("Jan 2 15:04 MST"))
		if a.SFL > 0 {
			fmt.Fprintf(&b, "\n%g SFL", a.SFL)
		}
		if len(a.Ingredients) > 0 {
			b.WriteString("\n")
			b.WriteString(formatIngredients(a.Ingredients))
		}
	}
	if group.Detail != "" {
		b.WriteString("\n")
		b.WriteString(group.Detail)
	}
	return b.String()
}

func formatIngredients(ingredients map[string]float64) string {
	names := make([]string, 0, len(ingredients))
	for name := range ingredients {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%g %s", ingredients[name], name))
	}
	return strings.Join(parts, ", ")
}
