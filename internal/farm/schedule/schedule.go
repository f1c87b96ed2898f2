// Package schedule maps notification groups onto alarm slots. Each run
// rebuilds the whole managed slot range from scratch: cancel everything,
// re-register every group, persist the resulting set. Idempotent on
// unchanged input because slots derive from group ids alone.
package schedule

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"farmwatch/internal/farm"
	"farmwatch/internal/storage"
	logx "farmwatch/pkg/logx"
)

// The managed slot range. Slots outside it are never touched, so other alarm
// users cannot collide with the notification pipeline.
const (
	SlotBase  = 5000
	SlotCount = 1000
)

// Alarms is the slice of the alarm service the state machine drives.
type Alarms interface {
	Register(slot int, fireAt time.Time, group farm.NotificationGroup) error
	RegisterInexact(slot int, fireAt time.Time, group farm.NotificationGroup)
	CancelRange(base, count int)
}

// Deliver sends a group immediately, bypassing the alarm slots.
type Deliver func(ctx context.Context, group farm.NotificationGroup)

// Categories whose events describe something that already happened; their
// groups are worth delivering however old they are.
var lateTolerant = map[string]bool{
	farm.CategoryMarketplace:  true,
	farm.CategoryAnimalSick:   true,
	farm.CategoryBeehiveSwarm: true,
	farm.CategoryIslandShop:   true,
}

type Machine struct {
	alarms  Alarms
	deliver Deliver
	store   storage.Store
	log     logx.Logger
}

func NewMachine(alarms Alarms, deliver Deliver, store storage.Store, log logx.Logger) *Machine {
	return &Machine{alarms: alarms, deliver: deliver, store: store, log: log}
}

// Slot returns the alarm slot a group id maps to.
func Slot(groupID string) int {
	h := fnv.New64a()
	h.Write([]byte(groupID))
	return SlotBase + int(h.Sum64()%SlotCount)
}

// Apply replaces the scheduled state with the given groups. Past groups in
// late-tolerant categories are delivered immediately; other past groups are
// dropped. Exact registration failures degrade to inexact, never abort the
// run. The persisted set is written once, at the end.
func (m *Machine) Apply(ctx context.Context, groups []farm.NotificationGroup, now time.Time) error {
	m.alarms.CancelRange(SlotBase, SlotCount)

	scheduled := make([]string, 0, len(groups))
	delivered, skipped := 0, 0
	for _, group := range groups {
		if !group.EarliestReady.After(now) {
			if lateTolerant[group.Category] {
				m.deliver(ctx, group)
				delivered++
				continue
			}
			m.log.Debug("group already past, dropped",
				logx.String("group", group.GroupID),
				logx.Time("ready", group.EarliestReady))
			skipped++
			continue
		}

		slot := Slot(group.GroupID)
		if err := m.alarms.Register(slot, group.EarliestReady, group); err != nil {
			m.log.Warn("exact alarm failed, using inexact",
				logx.String("group", group.GroupID),
				logx.Int("slot", slot),
				logx.Err(err))
			m.alarms.RegisterInexact(slot, group.EarliestReady, group)
		}
		scheduled = append(scheduled, group.GroupID)
	}

	sort.Strings(scheduled)
	if err := m.store.PutScheduledSet(ctx, scheduled); err != nil {
		return fmt.Errorf("persist scheduled set: %w", err)
	}
	m.log.Info("schedule rebuilt",
		logx.Int("scheduled", len(scheduled)),
		logx.Int("delivered_now", delivered),
		logx.Int("dropped_past", skipped))
	return nil
}
