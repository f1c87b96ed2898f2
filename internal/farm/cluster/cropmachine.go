package cluster

import (
	"fmt"

	"farmwatch/internal/farm"
)

// cropMachine groups machine batches per crop. Event quantities are seed
// counts; the group fires when the last batch of the crop is done and the
// detail line reports the batch count.
func cropMachine(events []farm.ReadyEvent) []farm.NotificationGroup {
	type machineGroup struct {
		group   farm.NotificationGroup
		batches int
	}
	merged := make(map[string]*machineGroup)
	for _, ev := range events {
		id := ev.Category + "_" + slug(ev.Subject)
		g, ok := merged[id]
		if !ok {
			g = &machineGroup{group: farm.NotificationGroup{
				Category:      ev.Category,
				DisplayName:   ev.Subject,
				EarliestReady: ev.ReadyAt,
				GroupID:       id,
			}}
			merged[id] = g
		}
		g.batches++
		g.group.Quantity += ev.Quantity
		if ev.ReadyAt.After(g.group.EarliestReady) {
			g.group.EarliestReady = ev.ReadyAt
		}
	}

	out := make([]farm.NotificationGroup, 0, len(merged))
	for _, g := range merged {
		noun := "batches"
		if g.batches == 1 {
			noun = "batch"
		}
		g.group.Detail = fmt.Sprintf("%d %s of %s", g.batches, noun, g.group.DisplayName)
		out = append(out, g.group)
	}
	return out
}
