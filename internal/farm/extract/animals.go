package extract

import (
	"time"

	"github.com/tidwall/gjson"

	"farmwatch/internal/farm"
)

var animalHomes = []string{"henHouse", "barn"}

// Animals emits a production event per animal that wakes in the future, plus
// a love reminder when the animal's love window opens before it wakes. The
// love window opens a third of the sleep cycle after falling asleep or after
// the last petting, whichever is later.
func Animals(snap *farm.Snapshot, now time.Time) []farm.Outcome {
	var outs []farm.Outcome
	for _, home := range animalHomes {
		snap.Get(home + ".animals").ForEach(func(animalID, animal gjson.Result) bool {
			kind := animal.Get("type").String()
			if kind == "" {
				outs = append(outs, farm.Skip("animal "+animalID.String()+": missing type"))
				return true
			}
			awakeAt, ok := msTime(animal.Get("awakeAt"))
			if !ok {
				// Snapshot sometimes omits awakeAt; derive it from the
				// sleep start and the type's production cycle.
				asleepAt, okSleep := msTime(animal.Get("asleepAt"))
				cycle, okCycle := farm.AnimalProductionTimes[kind]
				if !okSleep || !okCycle {
					outs = append(outs, farm.Skip("animal "+animalID.String()+": missing awakeAt"))
					return true
				}
				awakeAt = asleepAt.Add(cycle)
			}
			if ev, future := futureEvent(farm.CategoryAnimals, kind, 1, awakeAt, now); future {
				outs = append(outs, ev)
			}

			asleepAt, ok := msTime(animal.Get("asleepAt"))
			if !ok {
				return true
			}
			oneThird := awakeAt.Sub(asleepAt) / 3
			loveAt := asleepAt.Add(oneThird)
			if lovedAt, ok := msTime(animal.Get("lovedAt")); ok {
				if next := lovedAt.Add(oneThird); next.After(loveAt) {
					loveAt = next
				}
			}
			if loveAt.Before(awakeAt) && loveAt.After(now) {
				outs = append(outs, farm.OK(farm.ReadyEvent{
					Category: farm.CategoryAnimalsLove,
					Subject:  kind,
					Quantity: 1,
					ReadyAt:  loveAt,
				}))
			}
			return true
		})
	}
	return outs
}

// AnimalStates returns the current health state of every animal keyed by
// "type_id", for the sickness tracker. Animals without an explicit state are
// idle.
func AnimalStates(snap *farm.Snapshot) map[string]string {
	states := make(map[string]string)
	for _, home := range animalHomes {
		snap.Get(home + ".animals").ForEach(func(animalID, animal gjson.Result) bool {
			kind := animal.Get("type").String()
			if kind == "" {
				return true
			}
			state := animal.Get("state").String()
			if state == "" {
				state = "idle"
			}
			states[kind+"_"+animalID.String()] = state
			return true
		})
	}
	return states
}
