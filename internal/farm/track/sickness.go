package track

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"farmwatch/internal/farm"
)

// Sickness compares animal health against the previous run and emits one
// aggregated event when animals fell sick since then, e.g. "2 Chickens, Cow".
// Keys are "type_id"; an animal not seen before counts as previously idle, so
// the very first snapshot with sick animals still alerts.
func Sickness(states map[string]string, now time.Time, prev map[string]string) ([]farm.ReadyEvent, map[string]string) {
	counts := make(map[string]int)
	next := make(map[string]string, len(states))
	for key, state := range states {
		next[key] = state
		if state != "sick" || prev[key] == "sick" {
			continue
		}
		kind := key
		if i := strings.LastIndex(key, "_"); i > 0 {
			kind = key[:i]
		}
		counts[kind]++
	}
	if len(counts) == 0 {
		return nil, next
	}

	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	total := 0
	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		n := counts[kind]
		total += n
		if n == 1 {
			parts = append(parts, kind)
		} else {
			parts = append(parts, fmt.Sprintf("%d %ss", n, kind))
		}
	}
	ev := farm.ReadyEvent{
		Category: farm.CategoryAnimalSick,
		Subject:  "Sick Animals",
		Quantity: total,
		ReadyAt:  now,
		Detail:   strings.Join(parts, ", "),
	}
	return []farm.ReadyEvent{ev}, next
}
