package extract

import (
	"time"

	"github.com/tidwall/gjson"

	"farmwatch/internal/farm"
)

// Crops walks farm.crops and emits one event per plot whose crop finishes in
// the future. Empty plots are silent; plots with a crop but missing or
// unknown data come back as skips.
func Crops(snap *farm.Snapshot, now time.Time) []farm.Outcome {
	var outs []farm.Outcome
	snap.Get("crops").ForEach(func(plotID, plot gjson.Result) bool {
		crop := plot.Get("crop")
		if !crop.Exists() {
			return true
		}
		name := crop.Get("name").String()
		if name == "" {
			outs = append(outs, farm.Skip("plot "+plotID.String()+": crop without name"))
			return true
		}
		plantedAt, ok := msTime(crop.Get("plantedAt"))
		if !ok {
			outs = append(outs, farm.Skip("plot "+plotID.String()+": "+name+" without plantedAt"))
			return true
		}
		growth, ok := farm.CropGrowthTimes[name]
		if !ok {
			outs = append(outs, farm.Skip("plot "+plotID.String()+": unknown crop "+name))
			return true
		}
		if ev, future := futureEvent(farm.CategoryCrops, name, 1, plantedAt.Add(growth), now); future {
			outs = append(outs, ev)
		}
		return true
	})
	return outs
}

// Fruits handles farm.fruitPatches. A patch that has already been harvested
// regrows from harvestedAt rather than plantedAt.
func Fruits(snap *farm.Snapshot, now time.Time) []farm.Outcome {
	var outs []farm.Outcome
	snap.Get("fruitPatches").ForEach(func(patchID, patch gjson.Result) bool {
		fruit := patch.Get("fruit")
		if !fruit.Exists() {
			return true
		}
		name := fruit.Get("name").String()
		if name == "" {
			outs = append(outs, farm.Skip("patch "+patchID.String()+": fruit without name"))
			return true
		}
		plantedAt, ok := msTime(fruit.Get("plantedAt"))
		if !ok {
			outs = append(outs, farm.Skip("patch "+patchID.String()+": "+name+" without plantedAt"))
			return true
		}
		base := plantedAt
		if harvestedAt, ok := msTime(fruit.Get("harvestedAt")); ok && harvestedAt.After(base) {
			base = harvestedAt
		}
		growth, ok := farm.FruitGrowthTimes[name]
		if !ok {
			outs = append(outs, farm.Skip("patch "+patchID.String()+": unknown fruit "+name))
			return true
		}
		if ev, future := futureEvent(farm.CategoryFruits, name, 1, base.Add(growth), now); future {
			outs = append(outs, ev)
		}
		return true
	})
	return outs
}

// Greenhouse handles farm.greenhouse.pots. Only the three greenhouse plants
// are recognized; anything else in a pot is a skip.
func Greenhouse(snap *farm.Snapshot, now time.Time) []farm.Outcome {
	var outs []farm.Outcome
	snap.Get("greenhouse.pots").ForEach(func(potID, pot gjson.Result) bool {
		plant := pot.Get("plant")
		if !plant.Exists() {
			return true
		}
		name := plant.Get("name").String()
		growth, ok := farm.GreenhouseGrowthTimes[name]
		if !ok {
			outs = append(outs, farm.Skip("pot "+potID.String()+": unknown greenhouse plant "+name))
			return true
		}
		plantedAt, ok := msTime(plant.Get("plantedAt"))
		if !ok {
			outs = append(outs, farm.Skip("pot "+potID.String()+": "+name+" without plantedAt"))
			return true
		}
		if ev, future := futureEvent(farm.CategoryGreenhouse, name, 1, plantedAt.Add(growth), now); future {
			outs = append(outs, ev)
		}
		return true
	})
	return outs
}
