// Package cluster folds ready events into notification groups. Group ids are
// deterministic: they derive from the category, subject and identity only,
// never from timestamps, so an unchanged farm produces the identical set of
// groups on every run.
package cluster

import (
	"sort"
	"strings"

	"farmwatch/internal/farm"
)

// Options tunes clustering behavior per run.
type Options struct {
	// CookingByBuilding collapses all dishes of one building into a single
	// group instead of one group per dish.
	CookingByBuilding bool
}

// Categories where each entity keeps its own notification instead of being
// merged with others of the same subject.
var identityCategories = map[string]bool{
	farm.CategorySunstones:    true,
	farm.CategoryMarketplace:  true,
	farm.CategoryBeehives:     true,
	farm.CategoryBeehiveSwarm: true,
	farm.CategoryAuctions:     true,
}

// Groups clusters events by category and returns groups ordered by earliest
// ready time, ties broken by group id.
func Groups(events []farm.ReadyEvent, opts Options) []farm.NotificationGroup {
	byCategory := make(map[string][]farm.ReadyEvent)
	for _, ev := range events {
		byCategory[ev.Category] = append(byCategory[ev.Category], ev)
	}

	var groups []farm.NotificationGroup
	for category, evs := range byCategory {
		switch {
		case category == farm.CategoryAnimals || category == farm.CategoryAnimalsLove:
			groups = append(groups, windowed(evs, animalWindow)...)
		case category == farm.CategoryCooking:
			groups = append(groups, cooking(evs, opts.CookingByBuilding)...)
		case category == farm.CategoryCropMachine:
			groups = append(groups, cropMachine(evs)...)
		case identityCategories[category]:
			groups = append(groups, byIdentity(evs)...)
		default:
			groups = append(groups, bySubject(evs)...)
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		if !groups[i].EarliestReady.Equal(groups[j].EarliestReady) {
			return groups[i].EarliestReady.Before(groups[j].EarliestReady)
		}
		return groups[i].GroupID < groups[j].GroupID
	})
	return groups
}

// bySubject merges events of one subject into a single group: quantities sum
// and the earliest ready time wins.
func bySubject(events []farm.ReadyEvent) []farm.NotificationGroup {
	merged := make(map[string]*farm.NotificationGroup)
	for _, ev := range events {
		id := ev.Category + "_" + slug(ev.Subject)
		g, ok := merged[id]
		if !ok {
			merged[id] = &farm.NotificationGroup{
				Category:      ev.Category,
				DisplayName:   ev.Subject,
				Quantity:      ev.Quantity,
				EarliestReady: ev.ReadyAt,
				GroupID:       id,
				Detail:        ev.Detail,
			}
			continue
		}
		g.Quantity += ev.Quantity
		if ev.ReadyAt.Before(g.EarliestReady) {
			g.EarliestReady = ev.ReadyAt
			g.Detail = ev.Detail
		}
	}
	return collect(merged)
}

// byIdentity keeps one group per entity.
func byIdentity(events []farm.ReadyEvent) []farm.NotificationGroup {
	merged := make(map[string]*farm.NotificationGroup)
	for _, ev := range events {
		key := ev.Identity
		if key == "" {
			key = slug(ev.Subject)
		}
		id := ev.Category + "_" + slug(key)
		g, ok := merged[id]
		if !ok {
			merged[id] = &farm.NotificationGroup{
				Category:      ev.Category,
				DisplayName:   ev.Subject,
				Quantity:      ev.Quantity,
				EarliestReady: ev.ReadyAt,
				GroupID:       id,
				Detail:        ev.Detail,
			}
			continue
		}
		g.Quantity += ev.Quantity
		if ev.ReadyAt.Before(g.EarliestReady) {
			g.EarliestReady = ev.ReadyAt
		}
	}
	return collect(merged)
}

func collect(merged map[string]*farm.NotificationGroup) []farm.NotificationGroup {
	out := make([]farm.NotificationGroup, 0, len(merged))
	for _, g := range merged {
		out = append(out, *g)
	}
	return out
}

// slug lowercases a name and squashes anything that is not a letter or digit
// into single underscores, so "Fire Pit" and "Kale & Mushroom Pie" become
// stable id fragments.
func slug(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastUnderscore := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
