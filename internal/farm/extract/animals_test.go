package extract

import (
	"strconv"
	"testing"
	"time"

	"farmwatch/internal/farm"
)

func TestAnimalsProductionAndLove(t *testing.T) {
	t.Parallel()
	// Asleep at t0, awake 24h later. Love window opens a third in.
	now := time.UnixMilli(1_700_000_000_000)
	asleep := now.Add(-time.Hour)
	awake := asleep.Add(24 * time.Hour)
	snap := parseSnap(t, `{"farm":{"henHouse":{"animals":{"c1":{
		"type":"Chicken","asleepAt":`+ms(asleep)+`,"awakeAt":`+ms(awake)+`}}}}}`)

	evs := events(Animals(snap, now))
	if len(evs) != 2 {
		t.Fatalf("events = %+v, want production + love", evs)
	}
	var production, love *farm.ReadyEvent
	for i := range evs {
		switch evs[i].Category {
		case farm.CategoryAnimals:
			production = &evs[i]
		case farm.CategoryAnimalsLove:
			love = &evs[i]
		}
	}
	if production == nil || !production.ReadyAt.Equal(awake) {
		t.Fatalf("production = %+v", production)
	}
	wantLove := asleep.Add(8 * time.Hour)
	if love == nil || !love.ReadyAt.Equal(wantLove) {
		t.Fatalf("love = %+v, want at %v", love, wantLove)
	}
}

func TestAnimalsLoveAfterPetting(t *testing.T) {
	t.Parallel()
	now := time.UnixMilli(1_700_000_000_000)
	asleep := now.Add(-10 * time.Hour)
	awake := asleep.Add(24 * time.Hour)
	loved := now.Add(-time.Hour)
	snap := parseSnap(t, `{"farm":{"barn":{"animals":{"cow1":{
		"type":"Cow","asleepAt":`+ms(asleep)+`,"awakeAt":`+ms(awake)+`,"lovedAt":`+ms(loved)+`}}}}}`)

	evs := events(Animals(snap, now))
	var love *farm.ReadyEvent
	for i := range evs {
		if evs[i].Category == farm.CategoryAnimalsLove {
			love = &evs[i]
		}
	}
	// lovedAt + 8h is later than asleepAt + 8h, so it wins.
	want := loved.Add(8 * time.Hour)
	if love == nil || !love.ReadyAt.Equal(want) {
		t.Fatalf("love = %+v, want at %v", love, want)
	}
}

func TestAnimalsLoveWindowClosed(t *testing.T) {
	t.Parallel()
	now := time.UnixMilli(1_700_000_000_000)

	t.Run("love time already passed", func(t *testing.T) {
		t.Parallel()
		// Ten hours into a 24h cycle: the 8h love window opened and closed.
		asleep := now.Add(-10 * time.Hour)
		awake := asleep.Add(24 * time.Hour)
		snap := parseSnap(t, `{"farm":{"henHouse":{"animals":{"c1":{
			"type":"Chicken","asleepAt":`+ms(asleep)+`,"awakeAt":`+ms(awake)+`}}}}}`)

		evs := events(Animals(snap, now))
		for _, ev := range evs {
			if ev.Category == farm.CategoryAnimalsLove {
				t.Fatalf("love event %+v, want none once the window passed", ev)
			}
		}
		if len(evs) != 1 || evs[0].Category != farm.CategoryAnimals {
			t.Fatalf("events = %+v, want production only", evs)
		}
	})

	t.Run("love time at or past wakeup", func(t *testing.T) {
		t.Parallel()
		// Petted an hour before wakeup pushes the next love past awakeAt.
		asleep := now.Add(-time.Hour)
		awake := asleep.Add(24 * time.Hour)
		loved := awake.Add(-time.Hour)
		snap := parseSnap(t, `{"farm":{"barn":{"animals":{"cow1":{
			"type":"Cow","asleepAt":`+ms(asleep)+`,"awakeAt":`+ms(awake)+`,"lovedAt":`+ms(loved)+`}}}}}`)

		for _, ev := range events(Animals(snap, now)) {
			if ev.Category == farm.CategoryAnimalsLove {
				t.Fatalf("love event %+v, worthless once the animal is awake", ev)
			}
		}
	})
}

func TestAnimalsAwakeFallback(t *testing.T) {
	t.Parallel()
	now := time.UnixMilli(1_700_000_000_000)
	asleep := now.Add(-time.Hour)
	snap := parseSnap(t, `{"farm":{"henHouse":{"animals":{
		"c1":{"type":"Chicken","asleepAt":`+ms(asleep)+`},
		"c2":{"type":"Griffin","asleepAt":`+ms(asleep)+`}}}}}`)

	outs := Animals(snap, now)
	evs := events(outs)
	var production *farm.ReadyEvent
	for i := range evs {
		if evs[i].Category == farm.CategoryAnimals {
			production = &evs[i]
		}
	}
	want := asleep.Add(24 * time.Hour)
	if production == nil || !production.ReadyAt.Equal(want) {
		t.Fatalf("production = %+v, want cycle-derived wakeup at %v", production, want)
	}
	// Unknown type has no cycle to derive from.
	if got := skips(outs); len(got) != 1 {
		t.Fatalf("skips = %v, want the unknown type skipped", got)
	}
}

func TestAnimalStates(t *testing.T) {
	t.Parallel()
	snap := parseSnap(t, `{"farm":{
		"henHouse":{"animals":{"1":{"type":"Chicken","state":"sick"},"2":{"type":"Chicken"}}},
		"barn":{"animals":{"1":{"type":"Cow","state":"happy"}}}}}`)
	states := AnimalStates(snap)
	if states["Chicken_1"] != "sick" || states["Chicken_2"] != "idle" || states["Cow_1"] != "happy" {
		t.Fatalf("states = %v", states)
	}
}

func ms(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
