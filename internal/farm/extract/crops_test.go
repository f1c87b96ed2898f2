package extract

import (
	"testing"
	"time"

	"farmwatch/internal/farm"
)

func parseSnap(t *testing.T, doc string) *farm.Snapshot {
	t.Helper()
	snap, err := farm.ParseSnapshot([]byte(doc))
	if err != nil {
		t.Fatalf("parse snapshot: %v", err)
	}
	return snap
}

func events(outs []farm.Outcome) []farm.ReadyEvent {
	var evs []farm.ReadyEvent
	for _, o := range outs {
		if o.OK() {
			evs = append(evs, o.Event())
		}
	}
	return evs
}

func skips(outs []farm.Outcome) []string {
	var reasons []string
	for _, o := range outs {
		if !o.OK() {
			reasons = append(reasons, o.SkipReason())
		}
	}
	return reasons
}

func TestCrops(t *testing.T) {
	t.Parallel()
	now := time.UnixMilli(1_700_000_000_000)

	t.Run("future harvest", func(t *testing.T) {
		t.Parallel()
		snap := parseSnap(t, `{"farm":{"crops":{"p1":{"crop":{"name":"Carrot","plantedAt":1700000000000}}}}}`)
		evs := events(Crops(snap, now))
		if len(evs) != 1 {
			t.Fatalf("events = %d, want 1", len(evs))
		}
		ev := evs[0]
		if ev.Category != farm.CategoryCrops || ev.Subject != "Carrot" || ev.Quantity != 1 {
			t.Fatalf("event = %+v", ev)
		}
		want := now.Add(time.Hour)
		if !ev.ReadyAt.Equal(want) {
			t.Fatalf("readyAt = %v, want %v", ev.ReadyAt, want)
		}
	})

	t.Run("past harvest silent", func(t *testing.T) {
		t.Parallel()
		snap := parseSnap(t, `{"farm":{"crops":{"p1":{"crop":{"name":"Sunflower","plantedAt":1699000000000}}}}}`)
		outs := Crops(snap, now)
		if len(outs) != 0 {
			t.Fatalf("outcomes = %+v, want none", outs)
		}
	})

	t.Run("empty plot silent, bad crops skip", func(t *testing.T) {
		t.Parallel()
		snap := parseSnap(t, `{"farm":{"crops":{
			"empty":{"x":1},
			"noname":{"crop":{"plantedAt":1700000000000}},
			"notime":{"crop":{"name":"Kale"}},
			"alien":{"crop":{"name":"Moonfruit","plantedAt":1700000000000}}}}}`)
		outs := Crops(snap, now)
		if got := len(events(outs)); got != 0 {
			t.Fatalf("events = %d, want 0", got)
		}
		if got := len(skips(outs)); got != 3 {
			t.Fatalf("skips = %v, want 3", skips(outs))
		}
	})
}

func TestFruitsRegrowFromHarvest(t *testing.T) {
	t.Parallel()
	now := time.UnixMilli(1_700_000_000_000)
	snap := parseSnap(t, `{"farm":{"fruitPatches":{"f1":{"fruit":{
		"name":"Tomato","plantedAt":1699990000000,"harvestedAt":1700000000000}}}}}`)
	evs := events(Fruits(snap, now))
	if len(evs) != 1 {
		t.Fatalf("events = %d, want 1", len(evs))
	}
	want := now.Add(2 * time.Hour)
	if !evs[0].ReadyAt.Equal(want) {
		t.Fatalf("readyAt = %v, want %v (from harvestedAt)", evs[0].ReadyAt, want)
	}
}

func TestGreenhouseAllowList(t *testing.T) {
	t.Parallel()
	now := time.UnixMilli(1_700_000_000_000)
	snap := parseSnap(t, `{"farm":{"greenhouse":{"pots":{
		"1":{"plant":{"name":"Grape","plantedAt":1700000000000}},
		"2":{"plant":{"name":"Carrot","plantedAt":1700000000000}}}}}}`)
	outs := Greenhouse(snap, now)
	evs := events(outs)
	if len(evs) != 1 || evs[0].Subject != "Grape" {
		t.Fatalf("events = %+v, want only Grape", evs)
	}
	if len(skips(outs)) != 1 {
		t.Fatalf("skips = %v, want carrot rejected", skips(outs))
	}
	if !evs[0].ReadyAt.Equal(now.Add(12 * time.Hour)) {
		t.Fatalf("readyAt = %v", evs[0].ReadyAt)
	}
}
