package track

import (
	"strings"
	"testing"
	"time"

	"farmwatch/internal/farm"
	"farmwatch/internal/farm/extract"
)

func parseSnap(t *testing.T, doc string) *farm.Snapshot {
	t.Helper()
	snap, err := farm.ParseSnapshot([]byte(doc))
	if err != nil {
		t.Fatalf("parse snapshot: %v", err)
	}
	return snap
}

func TestMarketplaceEdge(t *testing.T) {
	t.Parallel()
	now := time.UnixMilli(1_700_000_000_000)
	doc := `{"farm":{"trades":{"listings":{
		"l1":{"items":{"Kale":25},"sfl":3.5,"fulfilledAt":1700000000000},
		"l2":{"items":{"Wood":100},"sfl":1}}}}}`
	snap := parseSnap(t, doc)

	t.Run("fresh listing sold fires", func(t *testing.T) {
		t.Parallel()
		events, next := Marketplace(snap, now, map[string]string{"l1": "unfulfilled", "l2": "unfulfilled"})
		if len(events) != 1 {
			t.Fatalf("events = %+v, want 1", events)
		}
		ev := events[0]
		if ev.Subject != "Kale" || ev.Quantity != 25 || ev.Identity != "l1" {
			t.Fatalf("event = %+v", ev)
		}
		if !strings.Contains(ev.Detail, "3.5 SFL") {
			t.Fatalf("detail = %q", ev.Detail)
		}
		if next["l1"] != "fulfilled" || next["l2"] != "unfulfilled" {
			t.Fatalf("next = %v", next)
		}
	})

	t.Run("already recorded sale stays quiet", func(t *testing.T) {
		t.Parallel()
		events, _ := Marketplace(snap, now, map[string]string{"l1": "fulfilled"})
		if len(events) != 0 {
			t.Fatalf("events = %+v, want none", events)
		}
	})

	t.Run("vanished listings drop from state", func(t *testing.T) {
		t.Parallel()
		_, next := Marketplace(snap, now, map[string]string{"gone": "unfulfilled"})
		if _, ok := next["gone"]; ok {
			t.Fatalf("next kept vanished listing: %v", next)
		}
	})
}

func TestSicknessAggregates(t *testing.T) {
	t.Parallel()
	now := time.UnixMilli(1_700_000_000_000)
	states := map[string]string{
		"Chicken_1": "sick",
		"Chicken_2": "sick",
		"Cow_1":     "sick",
		"Sheep_1":   "idle",
	}
	events, next := Sickness(states, now, map[string]string{"Cow_1": "idle"})
	if len(events) != 1 {
		t.Fatalf("events = %+v, want one aggregate", events)
	}
	ev := events[0]
	if ev.Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", ev.Quantity)
	}
	if ev.Detail != "2 Chickens, Cow" {
		t.Fatalf("detail = %q", ev.Detail)
	}
	if next["Sheep_1"] != "idle" || next["Chicken_1"] != "sick" {
		t.Fatalf("next = %v", next)
	}

	// Second run with unchanged states: nothing new.
	events, _ = Sickness(states, now, next)
	if len(events) != 0 {
		t.Fatalf("repeat events = %+v, want none", events)
	}
}

func TestSwarmsEdgeAndReset(t *testing.T) {
	t.Parallel()
	now := time.UnixMilli(1_700_000_000_000)
	swarming := []extract.HiveState{{ID: "h1", Display: "Beehive 1", Swarm: true}}
	calm := []extract.HiveState{{ID: "h1", Display: "Beehive 1", Swarm: false}}

	events, next := Swarms(swarming, now, nil)
	if len(events) != 1 || events[0].Identity != "h1" {
		t.Fatalf("events = %+v", events)
	}

	// Still swarming: no repeat.
	events, next = Swarms(swarming, now, next)
	if len(events) != 0 {
		t.Fatalf("repeat events = %+v", events)
	}

	// Calm resets, next swarm fires again.
	_, next = Swarms(calm, now, next)
	events, _ = Swarms(swarming, now, next)
	if len(events) != 1 {
		t.Fatalf("post-reset events = %+v, want 1", events)
	}
}

func TestIslandShopNotifiesOnChange(t *testing.T) {
	t.Parallel()
	now := time.UnixMilli(1_700_000_000_000)
	stock := map[string]string{"Sunflorian Throne": "150", "Love Rug": "40"}

	// First observation is baseline only.
	events, next := IslandShop(stock, now, nil)
	if len(events) != 0 {
		t.Fatalf("first run events = %+v", events)
	}

	// Unchanged: quiet.
	events, next = IslandShop(stock, now, next)
	if len(events) != 0 {
		t.Fatalf("unchanged events = %+v", events)
	}

	// Price change fires with the full stock listed.
	changed := map[string]string{"Sunflorian Throne": "150", "Love Rug": "55"}
	events, _ = IslandShop(changed, now, next)
	if len(events) != 1 {
		t.Fatalf("changed events = %+v, want 1", events)
	}
	if !strings.Contains(events[0].Detail, "Love Rug - 55 Love Charm") {
		t.Fatalf("detail = %q", events[0].Detail)
	}
}
