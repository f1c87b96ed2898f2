package extract

import (
	"strconv"
	"testing"
	"time"
)

// A hive at rate 1.0 fills after one day of attached production. The finish
// times returned by Flowers gate everything: no growing bed, no prediction.
func TestBeehivesUseFlowerFinishTimes(t *testing.T) {
	t.Parallel()
	now := time.UnixMilli(1_700_000_000_000)
	planted := now.Add(-time.Hour)
	snap := parseSnap(t, `{"farm":{
		"flowers":{"flowerBeds":{"bed1":{"flower":{"name":"Red Carnation","plantedAt":`+ms(planted)+`}}}},
		"beehives":{"hiveA":{
			"swarm":false,
			"honey":{"updatedAt":`+ms(now)+`,"produced":0},
			"flowers":[{"id":"bed1","rate":1}]}}}}`)

	flowerOuts, bedFinish := Flowers(snap, now)
	if len(events(flowerOuts)) != 1 {
		t.Fatalf("flower events = %+v", flowerOuts)
	}
	wantDetach := planted.Add(5 * 24 * time.Hour)
	if got := bedFinish["bed1"]; !got.Equal(wantDetach) {
		t.Fatalf("bed finish = %v, want %v", got, wantDetach)
	}

	evs := events(Beehives(snap, now, bedFinish))
	if len(evs) != 1 {
		t.Fatalf("beehive events = %+v, want 1", evs)
	}
	ev := evs[0]
	if ev.Subject != "Beehive 1" || ev.Identity != "hiveA" {
		t.Fatalf("event = %+v", ev)
	}
	// Empty hive at rate 1.0: full exactly one day from now.
	if !ev.ReadyAt.Equal(now.Add(24 * time.Hour)) {
		t.Fatalf("fullAt = %v, want %v", ev.ReadyAt, now.Add(24*time.Hour))
	}
}

func TestBeehivesSkipWhenFlowerFinishesFirst(t *testing.T) {
	t.Parallel()
	now := time.UnixMilli(1_700_000_000_000)
	// Pansy finishes in 1h; the empty hive needs 24h. Never fills.
	planted := now.Add(time.Hour).Add(-24 * time.Hour)
	snap := parseSnap(t, `{"farm":{
		"flowers":{"flowerBeds":{"bed1":{"flower":{"name":"Red Pansy","plantedAt":`+ms(planted)+`}}}},
		"beehives":{"hiveA":{
			"honey":{"updatedAt":`+ms(now)+`,"produced":0},
			"flowers":[{"id":"bed1","rate":1}]}}}}`)

	_, bedFinish := Flowers(snap, now)
	if evs := events(Beehives(snap, now, bedFinish)); len(evs) != 0 {
		t.Fatalf("events = %+v, want none", evs)
	}
}

func TestBeehivesAccruedHoney(t *testing.T) {
	t.Parallel()
	now := time.UnixMilli(1_700_000_000_000)
	updated := now.Add(-6 * time.Hour)
	planted := now.Add(-time.Hour)
	// 12h of honey already produced plus 6h accrued since the update leaves
	// 6h to full.
	producedMS := int64(12 * time.Hour / time.Millisecond)
	snap := parseSnap(t, `{"farm":{
		"flowers":{"flowerBeds":{"bed1":{"flower":{"name":"Red Carnation","plantedAt":`+ms(planted)+`}}}},
		"beehives":{"hiveA":{
			"honey":{"updatedAt":`+ms(updated)+`,"produced":`+strconv.FormatInt(producedMS, 10)+`},
			"flowers":[{"id":"bed1","rate":1}]}}}}`)

	_, bedFinish := Flowers(snap, now)
	evs := events(Beehives(snap, now, bedFinish))
	if len(evs) != 1 {
		t.Fatalf("events = %+v, want 1", evs)
	}
	if want := now.Add(6 * time.Hour); !evs[0].ReadyAt.Equal(want) {
		t.Fatalf("fullAt = %v, want %v", evs[0].ReadyAt, want)
	}
}

func TestSwarmStates(t *testing.T) {
	t.Parallel()
	snap := parseSnap(t, `{"farm":{"beehives":{
		"a":{"swarm":true},
		"b":{"swarm":false},
		"c":{}}}}`)
	states := SwarmStates(snap)
	if len(states) != 3 {
		t.Fatalf("states = %+v", states)
	}
	byID := map[string]HiveState{}
	for _, s := range states {
		byID[s.ID] = s
	}
	if !byID["a"].Swarm || byID["b"].Swarm || byID["c"].Swarm {
		t.Fatalf("swarm flags = %+v", byID)
	}
	if byID["a"].Display != "Beehive 1" {
		t.Fatalf("display = %q", byID["a"].Display)
	}
}
