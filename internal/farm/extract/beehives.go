package extract

import (
	"fmt"
	"math"
	"time"

	"github.com/tidwall/gjson"

	"farmwatch/internal/farm"
)

// A hive is full after one day's worth of production at rate 1.0.
const hiveFullAmount = 24 * 60 * 60 * 1000

// Beehives predicts when each hive fills with honey. Production only runs
// while the hive is attached to a flower bed, so the prediction needs the bed
// finish times from Flowers: honey accrues at the hive's rate until the
// attached flower finishes, and a hive that would only fill after detaching
// never fills at all.
//
// Hives are displayed by position ("Beehive 1", "Beehive 2") because their
// ids are opaque uuids.
func Beehives(snap *farm.Snapshot, now time.Time, bedFinish map[string]time.Time) []farm.Outcome {
	var outs []farm.Outcome
	index := 0
	snap.Get("beehives").ForEach(func(hiveID, hive gjson.Result) bool {
		index++
		display := fmt.Sprintf("Beehive %d", index)

		honey := hive.Get("honey")
		if !honey.Exists() {
			return true
		}
		updatedAt, ok := msTime(honey.Get("updatedAt"))
		if !ok {
			outs = append(outs, farm.Skip(display + ": honey without updatedAt"))
			return true
		}

		attached := hive.Get("flowers.0")
		if !attached.Exists() {
			outs = append(outs, farm.Skip(display + ": no attached flower"))
			return true
		}
		rate := attached.Get("rate").Float()
		if rate <= 0 {
			rate = 1.0
		}
		detach, ok := bedFinish[attached.Get("id").String()]
		if !ok {
			outs = append(outs, farm.Skip(display + ": attached bed not growing"))
			return true
		}
		if !detach.After(now) {
			outs = append(outs, farm.Skip(display + ": attached flower already finished"))
			return true
		}

		// Honey accrues from the last update until now or the detach,
		// whichever comes first.
		accrueUntil := now
		if detach.Before(accrueUntil) {
			accrueUntil = detach
		}
		elapsed := float64(accrueUntil.Sub(updatedAt).Milliseconds())
		if elapsed < 0 {
			elapsed = 0
		}
		current := honey.Get("produced").Float() + elapsed*rate
		remaining := hiveFullAmount - current
		if remaining <= 0 {
			return true
		}
		fullAt := now.Add(time.Duration(math.Round(remaining/rate)) * time.Millisecond)
		if !fullAt.After(now) || !fullAt.Before(detach) {
			return true
		}
		outs = append(outs, farm.OK(farm.ReadyEvent{
			Category: farm.CategoryBeehives,
			Subject:  display,
			Quantity: 1,
			ReadyAt:  fullAt,
			Identity: hiveID.String(),
		}))
		return true
	})
	return outs
}

// HiveState is one hive's current swarm flag, with the positional display
// name used in alerts.
type HiveState struct {
	ID      string
	Display string
	Swarm   bool
}

// SwarmStates reports the swarm flag of every hive in display order. The
// swarm tracker turns the false-to-true edges into alerts.
func SwarmStates(snap *farm.Snapshot) []HiveState {
	var states []HiveState
	snap.Get("beehives").ForEach(func(hiveID, hive gjson.Result) bool {
		states = append(states, HiveState{
			ID:      hiveID.String(),
			Display: fmt.Sprintf("Beehive %d", len(states)+1),
			Swarm:   hive.Get("swarm").Bool(),
		})
		return true
	})
	return states
}
