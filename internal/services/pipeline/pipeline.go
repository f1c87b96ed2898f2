// Package pipeline is one full notification pass: fetch a snapshot, extract
// every enabled category, run the differential trackers, cluster, and hand
// the groups to the scheduling state machine.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"farmwatch/internal/farm"
	"farmwatch/internal/farm/cluster"
	"farmwatch/internal/farm/extract"
	"farmwatch/internal/farm/schedule"
	"farmwatch/internal/farm/track"
	"farmwatch/internal/storage"
	logx "farmwatch/pkg/logx"
)

// Fetcher supplies raw snapshot documents.
type Fetcher interface {
	Snapshot(ctx context.Context) ([]byte, error)
}

// Features are the per-category toggles, applied live on config reload.
type Features struct {
	Greenhouse        bool
	Skills            bool
	DailyReset        bool
	Marketplace       bool
	FloatingIsland    bool
	Auctions          bool
	Pets              bool
	CookingByBuilding bool
}

type Config struct {
	// CacheWindow short-circuits a run when the previous one finished
	// this recently. Defaults to 30s.
	CacheWindow time.Duration
	Features    Features
}

type Service struct {
	log     logx.Logger
	fetch   Fetcher
	store   storage.Store
	machine *schedule.Machine
	summary func(groups []farm.NotificationGroup, now time.Time)

	runMu sync.Mutex

	mu      sync.Mutex
	cfg     Config
	lastRun time.Time
}

func New(cfg Config, fetch Fetcher, store storage.Store, machine *schedule.Machine,
	summary func([]farm.NotificationGroup, time.Time), log logx.Logger) *Service {
	if cfg.CacheWindow <= 0 {
		cfg.CacheWindow = 30 * time.Second
	}
	return &Service{
		log:     log,
		fetch:   fetch,
		store:   store,
		machine: machine,
		summary: summary,
		cfg:     cfg,
	}
}

// Apply updates the cache window and feature toggles on a config reload.
func (s *Service) Apply(cfg Config) {
	if cfg.CacheWindow <= 0 {
		cfg.CacheWindow = 30 * time.Second
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// Run executes one pipeline pass. Overlapping triggers are dropped rather
// than queued, a run within the cache window of the previous success is a
// no-op, and a panic anywhere below is converted into an error.
func (s *Service) Run(ctx context.Context) (err error) {
	if !s.runMu.TryLock() {
		s.log.Debug("pipeline already running, trigger dropped")
		return nil
	}
	defer s.runMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic: %v", r)
			s.log.Error("pipeline panicked", logx.Any("panic", r))
		}
	}()

	now := time.Now()
	s.mu.Lock()
	cfg := s.cfg
	fresh := now.Sub(s.lastRun) < cfg.CacheWindow
	s.mu.Unlock()
	if fresh {
		s.log.Debug("snapshot still fresh, run skipped")
		return nil
	}

	raw, err := s.fetch.Snapshot(ctx)
	if err != nil {
		return err
	}
	snap, err := farm.ParseSnapshot(raw)
	if err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}

	groups, pending, err := s.process(ctx, snap, now, cfg)
	if err != nil {
		return err
	}
	if err := s.machine.Apply(ctx, groups, now); err != nil {
		return err
	}
	// Tracker state commits only after scheduling and immediate deliveries
	// succeeded. A run that fails earlier leaves the stores at their pre-run
	// values, so the retry sees the same edges again instead of losing them.
	if err := s.commit(ctx, pending); err != nil {
		return err
	}
	if s.summary != nil {
		s.summary(groups, now)
	}

	s.mu.Lock()
	s.lastRun = now
	s.mu.Unlock()
	return nil
}

// diffWrite is a tracker next-state held back until the run succeeds.
type diffWrite struct {
	name  string
	state map[string]string
}

// pendingState gathers every store write a run wants to make. Nothing is
// persisted until commit.
type pendingState struct {
	diffs   []diffWrite
	auction *farm.AuctionInfo
}

func (s *Service) commit(ctx context.Context, p pendingState) error {
	for _, d := range p.diffs {
		if err := s.store.PutDiffSnapshot(ctx, d.name, d.state); err != nil {
			return fmt.Errorf("save %s state: %w", d.name, err)
		}
	}
	if p.auction != nil {
		if err := s.store.PutAuctionTrack(ctx, p.auction.AuctionID, p.auction.StartAt); err != nil {
			return fmt.Errorf("save auction track: %w", err)
		}
	}
	return nil
}

func (s *Service) process(ctx context.Context, snap *farm.Snapshot, now time.Time, cfg Config) ([]farm.NotificationGroup, pendingState, error) {
	feats := cfg.Features
	var events []farm.ReadyEvent

	add := func(category string, outs []farm.Outcome) {
		events = append(events, extract.Collect(s.log, category, outs)...)
	}

	add(farm.CategoryCrops, extract.Crops(snap, now))
	add(farm.CategoryFruits, extract.Fruits(snap, now))
	if feats.Greenhouse {
		add(farm.CategoryGreenhouse, extract.Greenhouse(snap, now))
	}
	add(farm.CategoryResources, extract.Resources(snap, now))
	add(farm.CategorySunstones, extract.Sunstones(snap, now))
	add(farm.CategoryAnimals, extract.Animals(snap, now))
	add(farm.CategoryCooking, extract.Cooking(snap, now))
	add(farm.CategoryComposters, extract.Composters(snap, now))
	add(farm.CategoryCropMachine, extract.CropMachine(snap, now))
	add(farm.CategoryCraftingBox, extract.CraftingBox(snap, now))

	// Beehive fullness depends on when each flower bed finishes, so the
	// flower pass always runs first.
	flowerOuts, bedFinish := extract.Flowers(snap, now)
	add(farm.CategoryFlowers, flowerOuts)
	add(farm.CategoryBeehives, extract.Beehives(snap, now, bedFinish))

	if feats.Skills {
		add(farm.CategorySkills, extract.Skills(snap, now))
	}
	if feats.DailyReset {
		add(farm.CategoryDailyReset, extract.DailyReset(now))
	}
	if feats.FloatingIsland {
		add(farm.CategoryFloatingIsland, extract.FloatingIsland(snap, now))
	}

	var pending pendingState
	trackerEvents, err := s.runTrackers(ctx, snap, now, feats, &pending)
	if err != nil {
		return nil, pendingState{}, err
	}
	events = append(events, trackerEvents...)

	groups := cluster.Groups(events, cluster.Options{CookingByBuilding: feats.CookingByBuilding})

	if feats.Pets {
		sleeps, skips := extract.Pets(snap, now)
		extract.Collect(s.log, farm.CategoryPets, skips)
		groups = append(groups, cluster.PetSleeps(sleeps, now)...)
	}
	if feats.Auctions {
		auctionGroups, err := s.auction(ctx, snap, now, &pending)
		if err != nil {
			return nil, pendingState{}, err
		}
		groups = append(groups, auctionGroups...)
	}
	return groups, pending, nil
}

func (s *Service) runTrackers(ctx context.Context, snap *farm.Snapshot, now time.Time, feats Features, pending *pendingState) ([]farm.ReadyEvent, error) {
	var events []farm.ReadyEvent

	run := func(name string, detect func(prev map[string]string) ([]farm.ReadyEvent, map[string]string)) error {
		prev, err := s.store.DiffSnapshot(ctx, name)
		if err != nil {
			return fmt.Errorf("load %s state: %w", name, err)
		}
		evs, next := detect(prev)
		pending.diffs = append(pending.diffs, diffWrite{name: name, state: next})
		events = append(events, evs...)
		return nil
	}

	if feats.Marketplace {
		if err := run("marketplace", func(prev map[string]string) ([]farm.ReadyEvent, map[string]string) {
			return track.Marketplace(snap, now, prev)
		}); err != nil {
			return nil, err
		}
	}
	if err := run("animal_health", func(prev map[string]string) ([]farm.ReadyEvent, map[string]string) {
		return track.Sickness(extract.AnimalStates(snap), now, prev)
	}); err != nil {
		return nil, err
	}
	if err := run("beehive_swarm", func(prev map[string]string) ([]farm.ReadyEvent, map[string]string) {
		return track.Swarms(extract.SwarmStates(snap), now, prev)
	}); err != nil {
		return nil, err
	}
	if feats.FloatingIsland {
		if err := run("island_shop", func(prev map[string]string) ([]farm.ReadyEvent, map[string]string) {
			return track.IslandShop(extract.ShopItems(snap), now, prev)
		}); err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (s *Service) auction(ctx context.Context, snap *farm.Snapshot, now time.Time, pending *pendingState) ([]farm.NotificationGroup, error) {
	auctions, skips := extract.Auctions(snap, now)
	extract.Collect(s.log, farm.CategoryAuctions, skips)
	if len(auctions) == 0 {
		return nil, nil
	}

	lastID, lastStart, _, err := s.store.AuctionTrack(ctx)
	if err != nil {
		return nil, fmt.Errorf("load auction track: %w", err)
	}
	group := cluster.Auction(auctions, now, lastID, lastStart)
	if group == nil {
		return nil, nil
	}
	pending.auction = group.Auction
	return []farm.NotificationGroup{*group}, nil
}
