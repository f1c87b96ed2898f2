package extract

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"farmwatch/internal/farm"
)

// Resource node collections, with their harvest-record field and the name of
// the timestamp inside it. All replenish on a fixed clock from that stamp.
var resourceKinds = []struct {
	path    string
	harvest string
	stamp   string
}{
	{"trees", "wood", "choppedAt"},
	{"stones", "stone", "minedAt"},
	{"iron", "stone", "minedAt"},
	{"gold", "stone", "minedAt"},
	{"crimstones", "stone", "minedAt"},
	{"oilReserves", "oil", "drilledAt"},
	{"sunstones", "stone", "minedAt"},
}

func resourceSingular(path string) string {
	switch path {
	case "crimstones":
		return "Crimstone"
	case "oilReserves":
		return "Oil"
	case "sunstones":
		return "Sunstone"
	}
	name := strings.TrimSuffix(path, "s")
	return strings.ToUpper(name[:1]) + name[1:]
}

// Resources walks every gathered-node collection plus lava pits and emits a
// replenish event per node still on cooldown. A node that was never harvested
// (no timestamp) is already available and stays silent.
func Resources(snap *farm.Snapshot, now time.Time) []farm.Outcome {
	var outs []farm.Outcome
	for _, kind := range resourceKinds {
		subject := resourceSingular(kind.path)
		replenish, known := farm.ResourceReplenishTimes[subject]
		snap.Get(kind.path).ForEach(func(nodeID, node gjson.Result) bool {
			stamp, ok := msTime(node.Get(kind.harvest + "." + kind.stamp))
			if !ok {
				return true
			}
			if !known {
				outs = append(outs, farm.Skip("node "+nodeID.String()+": no replenish time for "+subject))
				return true
			}
			if ev, future := futureEvent(farm.CategoryResources, subject, 1, stamp.Add(replenish), now); future {
				outs = append(outs, ev)
			}
			return true
		})
	}

	// Lava pits carry their readyAt directly and yield obsidian.
	snap.Get("lavaPits").ForEach(func(pitID, pit gjson.Result) bool {
		readyAt, ok := msTime(pit.Get("readyAt"))
		if !ok {
			return true
		}
		if ev, future := futureEvent(farm.CategoryResources, "Obsidian", 1, readyAt, now); future {
			outs = append(outs, ev)
		}
		return true
	})
	return outs
}

// Sunstones emits one event per sunstone node, keyed by the node id so each
// keeps its own notification. Sunstone nodes appear both here and in
// Resources; this category gives the long three-day respawn a dedicated
// reminder per node.
func Sunstones(snap *farm.Snapshot, now time.Time) []farm.Outcome {
	var outs []farm.Outcome
	replenish := farm.ResourceReplenishTimes["Sunstone"]
	snap.Get("sunstones").ForEach(func(nodeID, node gjson.Result) bool {
		minedAt, ok := msTime(node.Get("stone.minedAt"))
		if !ok {
			return true
		}
		readyAt := minedAt.Add(replenish)
		if !readyAt.After(now) {
			return true
		}
		outs = append(outs, farm.OK(farm.ReadyEvent{
			Category: farm.CategorySunstones,
			Subject:  "Sunstone",
			Quantity: 1,
			ReadyAt:  readyAt,
			Identity: nodeID.String(),
		}))
		return true
	})
	return outs
}
