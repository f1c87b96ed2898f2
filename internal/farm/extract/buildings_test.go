package extract

import (
	"testing"
	"time"
)

func TestCompostersFallbackReadyAt(t *testing.T) {
	t.Parallel()
	now := time.UnixMilli(1_700_000_000_000)
	started := now.Add(-time.Hour)
	snap := parseSnap(t, `{"farm":{"buildings":{"Compost Bin":[
		{"producing":{"startedAt":`+ms(started)+`,"items":{"Sprout Mix":10}}},
		{"producing":{"items":{"Sprout Mix":10}}}]}}}`)

	outs := Composters(snap, now)
	evs := events(outs)
	if len(evs) != 1 {
		t.Fatalf("events = %+v, want one fallback batch", evs)
	}
	// No readyAt in the snapshot: startedAt plus the bin's batch time.
	want := started.Add(6 * time.Hour)
	if !evs[0].ReadyAt.Equal(want) {
		t.Fatalf("readyAt = %v, want %v", evs[0].ReadyAt, want)
	}
	// Without startedAt either there is nothing to anchor on.
	if got := skips(outs); len(got) != 1 {
		t.Fatalf("skips = %v, want the anchorless batch skipped", got)
	}
}
