// Package alarms is an in-process alarm manager: a fixed range of numbered
// slots, each holding at most one pending notification. Exact alarms get a
// one-shot timer; inexact alarms wait for a periodic sweep. Fired payloads go
// straight to the handler, there is no broadcast layer in between.
package alarms

import (
	"context"
	"errors"
	"sync"
	"time"

	"farmwatch/internal/farm"
	logx "farmwatch/pkg/logx"
)

var (
	ErrExactDisabled = errors.New("exact alarms disabled")
	ErrPastHorizon   = errors.New("fire time past exact horizon")
)

// Handler receives a fired alarm's payload.
type Handler func(ctx context.Context, group farm.NotificationGroup)

type Config struct {
	// Exact enables one-shot timers. When false every Register fails with
	// ErrExactDisabled and callers fall back to RegisterInexact.
	Exact bool
	// ExactHorizon bounds how far ahead an exact timer may be armed.
	// Zero means unbounded.
	ExactHorizon time.Duration
	// SweepInterval is how often the inexact sweeper checks for due
	// payloads. Defaults to 30s.
	SweepInterval time.Duration
}

type entry struct {
	fireAt time.Time
	group  farm.NotificationGroup
	timer  *time.Timer
}

type Service struct {
	cfg     Config
	log     logx.Logger
	handler Handler

	mu    sync.Mutex
	slots map[int]*entry

	runCtx context.Context
}

func New(cfg Config, log logx.Logger, handler Handler) *Service {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 30 * time.Second
	}
	return &Service{
		cfg:     cfg,
		log:     log,
		handler: handler,
		slots:   make(map[int]*entry),
		runCtx:  context.Background(),
	}
}

// Run drives the inexact sweeper until ctx is done, then cancels everything.
func (s *Service) Run(ctx context.Context) {
	s.mu.Lock()
	s.runCtx = ctx
	s.mu.Unlock()

	tick := time.NewTicker(s.cfg.SweepInterval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			s.CancelAll()
			return
		case <-tick.C:
			s.sweep(ctx)
		}
	}
}

// Register arms an exact one-shot alarm on slot. A previous alarm on the same
// slot, exact or inexact, is replaced.
func (s *Service) Register(slot int, fireAt time.Time, group farm.NotificationGroup) error {
	if !s.cfg.Exact {
		return ErrExactDisabled
	}
	if s.cfg.ExactHorizon > 0 && time.Until(fireAt) > s.cfg.ExactHorizon {
		return ErrPastHorizon
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(slot)

	e := &entry{fireAt: fireAt, group: group}
	e.timer = time.AfterFunc(time.Until(fireAt), func() { s.fire(slot) })
	s.slots[slot] = e
	return nil
}

// RegisterInexact queues the payload for the sweeper; it fires on the first
// sweep at or after fireAt.
func (s *Service) RegisterInexact(slot int, fireAt time.Time, group farm.NotificationGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(slot)
	s.slots[slot] = &entry{fireAt: fireAt, group: group}
}

func (s *Service) Cancel(slot int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(slot)
}

func (s *Service) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for slot := range s.slots {
		s.cancelLocked(slot)
	}
}

// CancelRange cancels every slot in [base, base+count).
func (s *Service) CancelRange(base, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for slot := range s.slots {
		if slot >= base && slot < base+count {
			s.cancelLocked(slot)
		}
	}
}

// Pending reports the number of armed slots.
func (s *Service) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

func (s *Service) cancelLocked(slot int) {
	e, ok := s.slots[slot]
	if !ok {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	delete(s.slots, slot)
}

func (s *Service) fire(slot int) {
	s.mu.Lock()
	e, ok := s.slots[slot]
	if ok {
		delete(s.slots, slot)
	}
	ctx := s.runCtx
	s.mu.Unlock()
	if !ok || ctx.Err() != nil {
		return
	}
	s.log.Debug("alarm fired",
		logx.Int("slot", slot),
		logx.String("group", e.group.GroupID))
	s.handler(ctx, e.group)
}

func (s *Service) sweep(ctx context.Context) {
	now := time.Now()

	s.mu.Lock()
	var due []farm.NotificationGroup
	for slot, e := range s.slots {
		if e.timer == nil && !e.fireAt.After(now) {
			due = append(due, e.group)
			delete(s.slots, slot)
		}
	}
	s.mu.Unlock()

	for _, group := range due {
		if ctx.Err() != nil {
			return
		}
		s.handler(ctx, group)
	}
}
