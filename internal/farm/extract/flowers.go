package extract

import (
	"time"

	"github.com/tidwall/gjson"

	"farmwatch/internal/farm"
)

// Flowers walks farm.flowers.flowerBeds and emits an event per flower that
// finishes in the future. It also returns the finish time of every growing
// bed, past ones included, because beehives detach from their bed the moment
// its flower finishes; Beehives consumes that map.
func Flowers(snap *farm.Snapshot, now time.Time) ([]farm.Outcome, map[string]time.Time) {
	var outs []farm.Outcome
	bedFinish := make(map[string]time.Time)

	snap.Get("flowers.flowerBeds").ForEach(func(bedID, bed gjson.Result) bool {
		flower := bed.Get("flower")
		if !flower.Exists() {
			return true
		}
		name := flower.Get("name").String()
		if name == "" {
			outs = append(outs, farm.Skip("bed "+bedID.String()+": flower without name"))
			return true
		}
		plantedAt, ok := msTime(flower.Get("plantedAt"))
		if !ok {
			outs = append(outs, farm.Skip("bed "+bedID.String()+": "+name+" without plantedAt"))
			return true
		}
		growth, ok := farm.FlowerGrowthTimes[name]
		if !ok {
			outs = append(outs, farm.Skip("bed "+bedID.String()+": unknown flower "+name))
			return true
		}
		finish := plantedAt.Add(growth)
		bedFinish[bedID.String()] = finish
		if ev, future := futureEvent(farm.CategoryFlowers, name, 1, finish, now); future {
			outs = append(outs, ev)
		}
		return true
	})
	return outs, bedFinish
}
