package extract

import (
	"testing"
	"time"
)

func TestPetsSkipBookkeepingKeys(t *testing.T) {
	t.Parallel()
	now := time.UnixMilli(1_700_000_000_000)
	petted := now.Add(-time.Hour)
	snap := parseSnap(t, `{"farm":{"pets":{
		"requestsGeneratedAt":1700000000000,
		"Barkley":{"name":"Barkley","pettedAt":`+ms(petted)+`},
		"Meowchi":{"name":"Meowchi"},
		"nfts":{"742":{"name":"Ramsey","pettedAt":`+ms(petted)+`}}}}}`)

	sleeps, skipOuts := Pets(snap, now)
	if len(sleeps) != 2 {
		t.Fatalf("sleeps = %+v, want Barkley and Ramsey", sleeps)
	}
	names := map[string]bool{}
	for _, s := range sleeps {
		names[s.Name] = true
		if want := petted.Add(2 * time.Hour); !s.AsleepAt.Equal(want) {
			t.Fatalf("asleepAt = %v, want %v", s.AsleepAt, want)
		}
	}
	if !names["Barkley"] || !names["Ramsey"] {
		t.Fatalf("names = %v", names)
	}
	// Meowchi was never petted.
	if len(skips(skipOuts)) != 1 {
		t.Fatalf("skips = %v", skips(skipOuts))
	}
}

func TestDailyResetNextUTCMidnight(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 28, 17, 30, 0, 0, time.UTC)
	evs := events(DailyReset(now))
	if len(evs) != 1 {
		t.Fatalf("events = %+v", evs)
	}
	want := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	if !evs[0].ReadyAt.Equal(want) {
		t.Fatalf("readyAt = %v, want %v", evs[0].ReadyAt, want)
	}
}
