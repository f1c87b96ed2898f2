package alarms

import (
	"context"
	"sync"
	"testing"
	"time"

	"farmwatch/internal/farm"
	logx "farmwatch/pkg/logx"
)

type capture struct {
	mu     sync.Mutex
	groups []farm.NotificationGroup
}

func (c *capture) handle(_ context.Context, g farm.NotificationGroup) {
	c.mu.Lock()
	c.groups = append(c.groups, g)
	c.mu.Unlock()
}

func (c *capture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.groups)
}

func g(id string) farm.NotificationGroup {
	return farm.NotificationGroup{GroupID: id, DisplayName: id, Quantity: 1}
}

func TestRegisterReplacesSlot(t *testing.T) {
	t.Parallel()
	c := &capture{}
	s := New(Config{Exact: true}, logx.Nop(), c.handle)

	if err := s.Register(5001, time.Now().Add(time.Hour), g("old")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.Register(5001, time.Now().Add(time.Hour), g("new")); err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if s.Pending() != 1 {
		t.Fatalf("pending = %d, want the replacement only", s.Pending())
	}
}

func TestRegisterExactDisabled(t *testing.T) {
	t.Parallel()
	s := New(Config{Exact: false}, logx.Nop(), (&capture{}).handle)
	if err := s.Register(5001, time.Now().Add(time.Hour), g("x")); err != ErrExactDisabled {
		t.Fatalf("err = %v, want ErrExactDisabled", err)
	}
}

func TestRegisterPastHorizon(t *testing.T) {
	t.Parallel()
	s := New(Config{Exact: true, ExactHorizon: time.Minute}, logx.Nop(), (&capture{}).handle)
	if err := s.Register(5001, time.Now().Add(time.Hour), g("x")); err != ErrPastHorizon {
		t.Fatalf("err = %v, want ErrPastHorizon", err)
	}
	if err := s.Register(5001, time.Now().Add(30*time.Second), g("x")); err != nil {
		t.Fatalf("within horizon: %v", err)
	}
}

func TestCancelAll(t *testing.T) {
	t.Parallel()
	s := New(Config{Exact: true}, logx.Nop(), (&capture{}).handle)
	for i := 0; i < 5; i++ {
		if err := s.Register(5000+i, time.Now().Add(time.Hour), g("x")); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	s.RegisterInexact(6000, time.Now().Add(time.Hour), g("y"))
	s.CancelAll()
	if s.Pending() != 0 {
		t.Fatalf("pending = %d after CancelAll", s.Pending())
	}
}

func TestCancelRange(t *testing.T) {
	t.Parallel()
	s := New(Config{Exact: true}, logx.Nop(), (&capture{}).handle)
	_ = s.Register(4999, time.Now().Add(time.Hour), g("below"))
	_ = s.Register(5000, time.Now().Add(time.Hour), g("in"))
	_ = s.Register(5999, time.Now().Add(time.Hour), g("in2"))
	_ = s.Register(6000, time.Now().Add(time.Hour), g("above"))
	s.CancelRange(5000, 1000)
	if s.Pending() != 2 {
		t.Fatalf("pending = %d, want the two outside the range", s.Pending())
	}
}

func TestExactTimerFires(t *testing.T) {
	t.Parallel()
	c := &capture{}
	s := New(Config{Exact: true}, logx.Nop(), c.handle)
	if err := s.Register(5001, time.Now().Add(20*time.Millisecond), g("fire")); err != nil {
		t.Fatalf("register: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for c.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.count() != 1 {
		t.Fatalf("fired %d times, want 1", c.count())
	}
	if s.Pending() != 0 {
		t.Fatalf("pending = %d after fire", s.Pending())
	}
}

func TestSweeperDeliversDueOnce(t *testing.T) {
	t.Parallel()
	c := &capture{}
	s := New(Config{Exact: false}, logx.Nop(), c.handle)
	ctx := context.Background()

	s.RegisterInexact(5001, time.Now().Add(-time.Second), g("due"))
	s.RegisterInexact(5002, time.Now().Add(time.Hour), g("later"))

	s.sweep(ctx)
	if c.count() != 1 {
		t.Fatalf("first sweep delivered %d, want 1", c.count())
	}
	s.sweep(ctx)
	if c.count() != 1 {
		t.Fatalf("second sweep re-delivered: %d", c.count())
	}
	if s.Pending() != 1 {
		t.Fatalf("pending = %d, want the future payload kept", s.Pending())
	}
}
