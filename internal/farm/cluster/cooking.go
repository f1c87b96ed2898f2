package cluster

import (
	"fmt"
	"sort"
	"strings"

	"farmwatch/internal/farm"
)

// cooking groups dishes either per item (the default) or per building. In
// by-building mode the group fires when the last dish of the building is
// done, with the dish list in the detail line.
func cooking(events []farm.ReadyEvent, byBuilding bool) []farm.NotificationGroup {
	if !byBuilding {
		// Detail carries the building name, which is meaningless once
		// dishes from several buildings merge.
		stripped := make([]farm.ReadyEvent, len(events))
		for i, ev := range events {
			ev.Detail = ""
			stripped[i] = ev
		}
		return bySubject(stripped)
	}

	type buildingGroup struct {
		group farm.NotificationGroup
		items map[string]int
	}
	merged := make(map[string]*buildingGroup)
	for _, ev := range events {
		building := ev.Detail
		if building == "" {
			building = "Kitchen"
		}
		id := ev.Category + "_" + slug(building)
		g, ok := merged[id]
		if !ok {
			g = &buildingGroup{
				group: farm.NotificationGroup{
					Category:      ev.Category,
					DisplayName:   building,
					EarliestReady: ev.ReadyAt,
					GroupID:       id,
				},
				items: make(map[string]int),
			}
			merged[id] = g
		}
		g.group.Quantity += ev.Quantity
		g.items[ev.Subject] += ev.Quantity
		// The building is done when its slowest dish is done.
		if ev.ReadyAt.After(g.group.EarliestReady) {
			g.group.EarliestReady = ev.ReadyAt
		}
	}

	out := make([]farm.NotificationGroup, 0, len(merged))
	for _, g := range merged {
		names := make([]string, 0, len(g.items))
		for name := range g.items {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%d %s", g.items[name], name))
		}
		g.group.Detail = strings.Join(parts, ", ")
		out = append(out, g.group)
	}
	return out
}
