package track

import (
	"time"

	"farmwatch/internal/farm"
	"farmwatch/internal/farm/extract"
)

// Swarms alerts once per swarm. A hive entering the swarm state fires; the
// remembered flag resets as soon as the hive reports no swarm again, so the
// next swarm on the same hive fires too.
func Swarms(states []extract.HiveState, now time.Time, prev map[string]string) ([]farm.ReadyEvent, map[string]string) {
	var events []farm.ReadyEvent
	next := make(map[string]string, len(states))
	for _, hive := range states {
		if !hive.Swarm {
			next[hive.ID] = "calm"
			continue
		}
		next[hive.ID] = "swarm"
		if prev[hive.ID] == "swarm" {
			continue
		}
		events = append(events, farm.ReadyEvent{
			Category: farm.CategoryBeehiveSwarm,
			Subject:  hive.Display,
			Quantity: 1,
			ReadyAt:  now,
			Identity: hive.ID,
			Detail:   "a swarm has settled on " + hive.Display,
		})
	}
	return events, next
}
