// Package scheduler runs the periodic triggers: a cron-backed worker pool
// with a bounded queue, per-task timeout, a single retry and a short run
// history for diagnostics.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	logx "farmwatch/pkg/logx"
)

type Config struct {
	Workers        int
	DefaultTimeout time.Duration
	HistorySize    int
}

type HistoryItem struct {
	ID       string
	Name     string
	Started  time.Time
	Duration time.Duration
	Error    string
}

type task struct {
	id      string
	name    string
	timeout time.Duration
	run     func(ctx context.Context) error
	retry   int
}

type scheduleDef struct {
	id      string
	name    string
	spec    string
	timeout time.Duration
	job     func(ctx context.Context) error
	entry   cron.EntryID
}

type Service struct {
	mu sync.Mutex

	log logx.Logger
	cfg Config

	parser cron.Parser
	c      *cron.Cron
	defs   []scheduleDef
	nextID int

	queue  chan task
	stopCh chan struct{}

	hmu     sync.Mutex
	history []HistoryItem
}

func New(cfg Config, log logx.Logger) *Service {
	return &Service{
		cfg:    cfg,
		log:    log,
		parser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh != nil {
		return
	}
	s.stopCh = make(chan struct{})

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = 2
	}
	s.queue = make(chan task, 64)
	s.c = cron.New(cron.WithParser(s.parser))

	for i := range s.defs {
		_ = s.addCronLocked(&s.defs[i])
	}
	for i := 0; i < workers; i++ {
		go s.worker(ctx, s.stopCh, s.queue)
	}
	s.c.Start()
	s.log.Info("scheduler started", logx.Int("workers", workers))
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh == nil {
		return
	}
	close(s.stopCh)
	s.stopCh = nil
	if s.c != nil {
		stop := s.c.Stop()
		select {
		case <-stop.Done():
		case <-ctx.Done():
		}
		s.c = nil
	}
	s.log.Info("scheduler stopped")
}

// AddInterval schedules job every `every`, first run one interval from now.
func (s *Service) AddInterval(name string, every, timeout time.Duration, job func(ctx context.Context) error) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c == nil {
		return "", errors.New("scheduler not started")
	}
	s.nextID++
	d := scheduleDef{
		id:      fmt.Sprintf("interval-%d", s.nextID),
		name:    name,
		spec:    fmt.Sprintf("@every %s", every.String()),
		timeout: s.resolveTimeout(timeout),
		job:     job,
	}
	if err := s.addCronLocked(&d); err != nil {
		return "", err
	}
	s.defs = append(s.defs, d)
	return d.id, nil
}

// AddCron schedules job with a 5-field cron spec.
func (s *Service) AddCron(name, spec string, timeout time.Duration, job func(ctx context.Context) error) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c == nil {
		return "", errors.New("scheduler not started")
	}
	s.nextID++
	d := scheduleDef{
		id:      fmt.Sprintf("cron-%d", s.nextID),
		name:    name,
		spec:    spec,
		timeout: s.resolveTimeout(timeout),
		job:     job,
	}
	if err := s.addCronLocked(&d); err != nil {
		return "", err
	}
	s.defs = append(s.defs, d)
	return d.id, nil
}

// UpdateInterval moves an existing interval schedule to a new period. Used
// when the poll interval changes on a config reload.
func (s *Service) UpdateInterval(id string, every time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c == nil {
		return errors.New("scheduler not started")
	}
	for i := range s.defs {
		if s.defs[i].id != id {
			continue
		}
		s.c.Remove(s.defs[i].entry)
		s.defs[i].spec = fmt.Sprintf("@every %s", every.String())
		return s.addCronLocked(&s.defs[i])
	}
	return fmt.Errorf("unknown schedule %q", id)
}

func (s *Service) addCronLocked(d *scheduleDef) error {
	def := *d
	entry, err := s.c.AddFunc(d.spec, func() {
		s.enqueue(task{id: def.id, name: def.name, timeout: def.timeout, run: def.job, retry: 1})
	})
	if err != nil {
		return err
	}
	d.entry = entry
	return nil
}

func (s *Service) resolveTimeout(t time.Duration) time.Duration {
	if t > 0 {
		return t
	}
	return s.cfg.DefaultTimeout
}

func (s *Service) enqueue(t task) {
	select {
	case s.queue <- t:
	default:
		s.log.Warn("scheduler queue full, dropping task", logx.String("task", t.name))
	}
}

// worker holds its own references to the stop channel and queue; Stop nils
// the field while workers are still selecting, and a restart swaps the queue.
func (s *Service) worker(ctx context.Context, stopCh <-chan struct{}, queue <-chan task) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case t := <-queue:
			s.execOne(ctx, t)
		}
	}
}

func (s *Service) execOne(ctx context.Context, t task) {
	start := time.Now()
	runCtx := ctx
	var cancel func()
	if t.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	err := t.run(runCtx)
	if err != nil && t.retry > 0 && runCtx.Err() == nil {
		time.Sleep(500 * time.Millisecond)
		err = t.run(runCtx)
	}

	item := HistoryItem{
		ID:       t.id,
		Name:     t.name,
		Started:  start,
		Duration: time.Since(start),
	}
	if err != nil {
		item.Error = err.Error()
		s.log.Warn("task failed", logx.String("task", t.name), logx.Err(err))
	} else {
		s.log.Debug("task ok", logx.String("task", t.name), logx.Duration("took", item.Duration))
	}

	s.hmu.Lock()
	defer s.hmu.Unlock()
	s.history = append(s.history, item)
	if s.cfg.HistorySize > 0 && len(s.history) > s.cfg.HistorySize {
		s.history = s.history[len(s.history)-s.cfg.HistorySize:]
	}
}

// History returns a copy of the recent run records, newest last.
func (s *Service) History() []HistoryItem {
	s.hmu.Lock()
	defer s.hmu.Unlock()
	out := make([]HistoryItem, len(s.history))
	copy(out, s.history)
	return out
}
