package extract

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"farmwatch/internal/farm"
)

var cookingBuildings = []string{"Fire Pit", "Bakery", "Kitchen", "Deli", "Smoothie Shack"}

var composterBuildings = []string{"Compost Bin", "Turbo Composter", "Premium Composter"}

// Cooking walks the crafting queues of every cooking building and emits one
// event per dish still in the oven. Detail carries the building name so the
// clusterer can optionally group per building.
func Cooking(snap *farm.Snapshot, now time.Time) []farm.Outcome {
	var outs []farm.Outcome
	for _, building := range cookingBuildings {
		snap.Get("buildings").Get(building).ForEach(func(_, instance gjson.Result) bool {
			instance.Get("crafting").ForEach(func(_, dish gjson.Result) bool {
				name := dish.Get("name").String()
				if name == "" {
					outs = append(outs, farm.Skip(building+": dish without name"))
					return true
				}
				readyAt, ok := msTime(dish.Get("readyAt"))
				if !ok {
					outs = append(outs, farm.Skip(building+": "+name+" without readyAt"))
					return true
				}
				if !readyAt.After(now) {
					return true
				}
				amount := int(dish.Get("amount").Int())
				if amount <= 0 {
					amount = 1
				}
				outs = append(outs, farm.OK(farm.ReadyEvent{
					Category: farm.CategoryCooking,
					Subject:  name,
					Quantity: amount,
					ReadyAt:  readyAt,
					Detail:   building,
				}))
				return true
			})
			return true
		})
	}
	return outs
}

// Composters emits one event per composter with a batch in progress. The
// detail line lists what the batch will produce.
func Composters(snap *farm.Snapshot, now time.Time) []farm.Outcome {
	var outs []farm.Outcome
	for _, building := range composterBuildings {
		snap.Get("buildings").Get(building).ForEach(func(_, instance gjson.Result) bool {
			producing := instance.Get("producing")
			if !producing.Exists() {
				return true
			}
			readyAt, ok := msTime(producing.Get("readyAt"))
			if !ok {
				// Fall back to the static batch time from startedAt.
				startedAt, okStart := msTime(producing.Get("startedAt"))
				batch, okBatch := farm.ComposterTimes[building]
				if !okStart || !okBatch {
					outs = append(outs, farm.Skip(building+": producing without readyAt"))
					return true
				}
				readyAt = startedAt.Add(batch)
			}
			if !readyAt.After(now) {
				return true
			}
			total := 0
			var parts []string
			producing.Get("items").ForEach(func(item, qty gjson.Result) bool {
				n := int(qty.Int())
				total += n
				parts = append(parts, fmt.Sprintf("%d %s", n, item.String()))
				return true
			})
			if total <= 0 {
				total = 1
			}
			sort.Strings(parts)
			outs = append(outs, farm.OK(farm.ReadyEvent{
				Category: farm.CategoryComposters,
				Subject:  building,
				Quantity: total,
				ReadyAt:  readyAt,
				Detail:   strings.Join(parts, ", "),
			}))
			return true
		})
	}
	return outs
}

// CropMachine walks the seed queue of the crop machine building. Quantity
// carries the seed count of the batch; the clusterer counts batches itself.
func CropMachine(snap *farm.Snapshot, now time.Time) []farm.Outcome {
	var outs []farm.Outcome
	snap.Get("buildings").Get("Crop Machine").ForEach(func(_, machine gjson.Result) bool {
		machine.Get("queue").ForEach(func(_, batch gjson.Result) bool {
			crop := batch.Get("crop").String()
			if crop == "" {
				outs = append(outs, farm.Skip("crop machine: batch without crop"))
				return true
			}
			readyAt, ok := msTime(batch.Get("readyAt"))
			if !ok {
				return true
			}
			if !readyAt.After(now) {
				return true
			}
			outs = append(outs, farm.OK(farm.ReadyEvent{
				Category: farm.CategoryCropMachine,
				Subject:  crop,
				Quantity: int(batch.Get("seeds").Int()),
				ReadyAt:  readyAt,
			}))
			return true
		})
		return true
	})
	return outs
}

// CraftingBox emits a single event while the crafting box is working.
func CraftingBox(snap *farm.Snapshot, now time.Time) []farm.Outcome {
	box := snap.Get("craftingBox")
	if !box.Exists() || box.Get("status").String() != "crafting" {
		return nil
	}
	readyAt, ok := msTime(box.Get("readyAt"))
	if !ok || !readyAt.After(now) {
		return nil
	}
	name := box.Get("item.collectible").String()
	if name == "" {
		name = "Unknown"
	}
	return []farm.Outcome{farm.OK(farm.ReadyEvent{
		Category: farm.CategoryCraftingBox,
		Subject:  name,
		Quantity: 1,
		ReadyAt:  readyAt,
	})}
}
