// Package app wires the daemon together: config, logging, storage, the
// Telegram adapter, delivery, alarms, fetch, the pipeline and the trigger
// scheduler.
package app

import (
	"context"
	"fmt"
	"time"

	"farmwatch/internal/config"
	"farmwatch/internal/farm/schedule"
	"farmwatch/internal/services/alarms"
	"farmwatch/internal/services/delivery"
	"farmwatch/internal/services/fetch"
	"farmwatch/internal/services/pipeline"
	"farmwatch/internal/services/scheduler"
	"farmwatch/internal/storage"
	"farmwatch/internal/transport"
	"farmwatch/internal/transport/telegram"
	logx "farmwatch/pkg/logx"
)

const defaultAPIBase = "https://api.sunflower-land.com/community/farms"

type App struct {
	cfgMgr *config.Manager
	logSvc *logx.Service
	log    logx.Logger

	store    storage.Store
	adapter  transport.Adapter
	delivery *delivery.Service
	alarms   *alarms.Service
	fetcher  *fetch.Client
	pipe     *pipeline.Service
	sched    *scheduler.Service

	pollID   string
	pollEach time.Duration

	cancel context.CancelFunc
}

func New(cfgPath string) (*App, error) {
	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		return nil, err
	}

	var adapter transport.Adapter = noopAdapter{}
	if cfg.Telegram.Token != "" {
		tg, err := telegram.New(telegram.Config{Token: cfg.Telegram.Token}, logx.Nop())
		if err != nil {
			return nil, fmt.Errorf("telegram: %w", err)
		}
		adapter = tg
	}

	logSvc, log := logx.New(logxConfig(cfg), adapter)
	logSvc.SetTelegramTarget(cfg.Telegram.ChatID, cfg.Logging.Telegram.ThreadID)
	mgr.SetLogger(log.With(logx.String("comp", "config")))
	mgr.SetValidator(func(ctx context.Context, c *config.Config) error { return c.Validate() })

	storeCfg := storage.Config{}
	if cfg.Storage != nil {
		// Validated on load, so the parse cannot fail here.
		busy, _ := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
		storeCfg = storage.Config{Driver: cfg.Storage.Driver, Path: cfg.Storage.Path, BusyTimeout: busy}
	}
	store, err := storage.Open(storeCfg, log.With(logx.String("comp", "storage")))
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	dlv := delivery.New(delivery.Config{
		Chat:        transport.ChatTarget{ChatID: cfg.Telegram.ChatID, ThreadID: cfg.Telegram.ThreadID},
		SummaryPath: "notification_summary.log",
	}, adapter, log.With(logx.String("comp", "delivery")))

	alarmSvc := alarms.New(alarms.Config{
		Exact:         cfg.Alarms.ExactEnabled(),
		SweepInterval: cfg.SweepInterval(),
	}, log.With(logx.String("comp", "alarms")), dlv.Deliver)

	machine := schedule.NewMachine(alarmSvc, dlv.Deliver, store, log.With(logx.String("comp", "schedule")))

	fetcher := fetch.New(fetchConfig(cfg), log.With(logx.String("comp", "fetch")))

	pipe := pipeline.New(pipeline.Config{
		CacheWindow: cfg.CacheWindow(),
		Features:    featureSet(cfg),
	}, fetcher, store, machine, dlv.AppendRunSummary, log.With(logx.String("comp", "pipeline")))

	sched := scheduler.New(scheduler.Config{
		Workers:        2,
		DefaultTimeout: 2 * cfg.FetchTimeout(),
		HistorySize:    50,
	}, log.With(logx.String("comp", "scheduler")))

	return &App{
		cfgMgr:   mgr,
		logSvc:   logSvc,
		log:      log,
		store:    store,
		adapter:  adapter,
		delivery: dlv,
		alarms:   alarmSvc,
		fetcher:  fetcher,
		pipe:     pipe,
		sched:    sched,
		pollEach: cfg.PollInterval(),
	}, nil
}

func (a *App) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	go func() {
		if err := a.cfgMgr.Watch(runCtx); err != nil && runCtx.Err() == nil {
			a.log.Warn("config watch stopped", logx.Err(err))
		}
	}()
	go a.alarms.Run(runCtx)
	a.sched.Start(runCtx)

	id, err := a.sched.AddInterval("pipeline", a.pollEach, 0, a.pipe.Run)
	if err != nil {
		cancel()
		return fmt.Errorf("schedule pipeline: %w", err)
	}
	a.pollID = id

	go a.watchConfig(runCtx)

	// First pass right away instead of waiting a full interval.
	go func() {
		if err := a.pipe.Run(runCtx); err != nil && runCtx.Err() == nil {
			a.log.Warn("initial pipeline run failed", logx.Err(err))
		}
	}()

	a.log.Info("farmwatch started", logx.Duration("poll", a.pollEach))
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}
	a.sched.Stop(ctx)
	a.alarms.CancelAll()
	if err := a.store.Close(); err != nil {
		a.log.Warn("store close failed", logx.Err(err))
	}
	if err := a.adapter.Stop(ctx); err != nil {
		a.log.Warn("telegram stop failed", logx.Err(err))
	}
	a.log.Info("farmwatch stopped")
	return a.logSvc.Close()
}

// watchConfig applies published config updates to the running services.
func (a *App) watchConfig(ctx context.Context) {
	updates := a.cfgMgr.Subscribe(4)
	defer a.cfgMgr.Unsubscribe(updates)
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-updates:
			if !ok {
				return
			}
			a.applyConfig(cfg)
		}
	}
}

func (a *App) applyConfig(cfg *config.Config) {
	a.logSvc.Apply(logxConfig(cfg))
	a.logSvc.SetTelegramTarget(cfg.Telegram.ChatID, cfg.Logging.Telegram.ThreadID)
	a.fetcher.Apply(fetchConfig(cfg))
	a.delivery.SetChat(transport.ChatTarget{ChatID: cfg.Telegram.ChatID, ThreadID: cfg.Telegram.ThreadID})
	a.pipe.Apply(pipeline.Config{CacheWindow: cfg.CacheWindow(), Features: featureSet(cfg)})

	if every := cfg.PollInterval(); every != a.pollEach && a.pollID != "" {
		if err := a.sched.UpdateInterval(a.pollID, every); err != nil {
			a.log.Warn("poll interval update failed", logx.Err(err))
		} else {
			a.pollEach = every
			a.log.Info("poll interval updated", logx.Duration("poll", every))
		}
	}
}

func logxConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
		Telegram: logx.TelegramConfig{
			Enabled:    cfg.Logging.Telegram.Enabled,
			ThreadID:   cfg.Logging.Telegram.ThreadID,
			MinLevel:   cfg.Logging.Telegram.MinLevel,
			RatePerSec: cfg.Logging.Telegram.RatePerSec,
		},
	}
}

func fetchConfig(cfg *config.Config) fetch.Config {
	base := cfg.Farm.APIBase
	if base == "" {
		base = defaultAPIBase
	}
	return fetch.Config{
		BaseURL:    base,
		FarmID:     cfg.Farm.ID,
		APIKey:     cfg.Farm.APIKey,
		Timeout:    cfg.FetchTimeout(),
		RatePerSec: cfg.Poll.RatePerSec,
	}
}

func featureSet(cfg *config.Config) pipeline.Features {
	f := cfg.Features
	return pipeline.Features{
		Greenhouse:        f.GreenhouseEnabled(),
		Skills:            f.SkillsEnabled(),
		DailyReset:        f.DailyResetEnabled(),
		Marketplace:       f.MarketplaceEnabled(),
		FloatingIsland:    f.FloatingIslandEnabled(),
		Auctions:          f.AuctionsEnabled(),
		Pets:              f.PetsEnabled(),
		CookingByBuilding: f.CookingByBuildingEnabled(),
	}
}

// noopAdapter stands in when no Telegram token is configured; the daemon
// still runs, logs and persists, it just cannot send.
type noopAdapter struct{}

func (noopAdapter) SendText(ctx context.Context, to transport.ChatTarget, text string, opt *transport.SendOptions) (transport.MessageRef, error) {
	return transport.MessageRef{}, nil
}

func (noopAdapter) Stop(ctx context.Context) error { return nil }
