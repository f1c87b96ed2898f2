package track

import (
	"sort"
	"strings"
	"time"

	"farmwatch/internal/farm"
)

// IslandShop diffs the floating island shop stock against the previous run
// and emits one event when any item or Love Charm price changed. The very
// first observation does not fire; there is nothing to compare against yet.
func IslandShop(items map[string]string, now time.Time, prev map[string]string) ([]farm.ReadyEvent, map[string]string) {
	next := make(map[string]string, len(items))
	for name, cost := range items {
		next[name] = cost
	}
	if len(prev) == 0 || shopEqual(items, prev) {
		return nil, next
	}

	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, name+" - "+items[name]+" Love Charm")
	}
	ev := farm.ReadyEvent{
		Category: farm.CategoryIslandShop,
		Subject:  "Love Island Shop",
		Quantity: 1,
		ReadyAt:  now,
		Detail:   strings.Join(lines, "\n"),
	}
	return []farm.ReadyEvent{ev}, next
}

func shopEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for name, cost := range a {
		if b[name] != cost {
			return false
		}
	}
	return true
}
