package farm

import "time"

// Static game data. Values mirror the game's harvest/production timings; when
// the game rebalances, these tables are the only place to touch.

// CropGrowthTimes is time from planting to harvest.
var CropGrowthTimes = map[string]time.Duration{
	// Basic crops (up to 30 minutes)
	"Sunflower": 1 * time.Minute,
	"Potato":    5 * time.Minute,
	"Rhubarb":   10 * time.Minute,
	"Pumpkin":   30 * time.Minute,
	"Zucchini":  30 * time.Minute,

	// Medium crops (1-4 hours)
	"Carrot":   1 * time.Hour,
	"Yam":      1 * time.Hour,
	"Cabbage":  2 * time.Hour,
	"Broccoli": 2 * time.Hour,
	"Soybean":  3 * time.Hour,
	"Beetroot": 4 * time.Hour,
	"Pepper":   4 * time.Hour,

	// Advanced crops (8-20 hours)
	"Cauliflower": 8 * time.Hour,
	"Parsnip":     12 * time.Hour,
	"Eggplant":    16 * time.Hour,
	"Corn":        20 * time.Hour,
	"Onion":       20 * time.Hour,

	// Overnight crops
	"Radish":    24 * time.Hour,
	"Wheat":     24 * time.Hour,
	"Turnip":    24 * time.Hour,
	"Kale":      36 * time.Hour,
	"Artichoke": 36 * time.Hour,
	"Barley":    48 * time.Hour,

	// Greenhouse crops
	"Rice":  32 * time.Hour,
	"Olive": 44 * time.Hour,
	"Grape": 12 * time.Hour,
}

// FruitGrowthTimes is time until the next harvest of a fruit patch.
var FruitGrowthTimes = map[string]time.Duration{
	"Tomato":    2 * time.Hour,
	"Lemon":     4 * time.Hour,
	"Blueberry": 6 * time.Hour,
	"Orange":    8 * time.Hour,
	"Apple":     12 * time.Hour,
	"Banana":    12 * time.Hour,
	"Celestine": 6 * time.Hour,
	"Lunara":    12 * time.Hour,
	"Duskberry": 24 * time.Hour,
}

// GreenhouseGrowthTimes covers the three plants that grow in greenhouse pots.
var GreenhouseGrowthTimes = map[string]time.Duration{
	"Rice":  32 * time.Hour,
	"Olive": 44 * time.Hour,
	"Grape": 12 * time.Hour,
}

// FlowerGrowthTimes is keyed by the full flower name including its color.
var FlowerGrowthTimes = buildFlowerGrowthTimes()

func buildFlowerGrowthTimes() map[string]time.Duration {
	const day = 24 * time.Hour
	byKind := map[string]time.Duration{
		"Pansy":          1 * day,
		"Cosmos":         1 * day,
		"Balloon Flower": 2 * day,
		"Daffodil":       2 * day,
		"Edelweiss":      3 * day,
		"Gladiolus":      3 * day,
		"Lavender":       3 * day,
		"Clover":         3 * day,
		"Carnation":      5 * day,
		"Lotus":          5 * day,
	}
	colors := []string{"Red", "Yellow", "Purple", "White", "Blue"}

	out := make(map[string]time.Duration, len(byKind)*len(colors)+3)
	for kind, d := range byKind {
		for _, c := range colors {
			out[c+" "+kind] = d
		}
	}
	// Special flowers come in a single variant.
	out["Prism Petal"] = 1 * day
	out["Celestial Frostbloom"] = 2 * day
	out["Primula Enigma"] = 5 * day
	return out
}

// AnimalProductionTimes is the full production cycle (sleep until the next
// egg/milk/wool).
var AnimalProductionTimes = map[string]time.Duration{
	"Chicken": 24 * time.Hour,
	"Cow":     24 * time.Hour,
	"Sheep":   24 * time.Hour,
}

// ResourceReplenishTimes is time until a gathered node respawns.
var ResourceReplenishTimes = map[string]time.Duration{
	"Tree":      2 * time.Hour,
	"Stone":     4 * time.Hour,
	"Iron":      8 * time.Hour,
	"Gold":      24 * time.Hour,
	"Crimstone": 24 * time.Hour,
	"Oil":       20 * time.Hour,
	"Sunstone":  3 * 24 * time.Hour,
	"Lavapit":   3 * 24 * time.Hour,
	"Obsidian":  3 * 24 * time.Hour, // comes from lava pits
}

// ComposterTimes includes the shorter egg-boosted variants.
var ComposterTimes = map[string]time.Duration{
	"Compost Bin":                 6 * time.Hour,
	"Compost Bin Egg Boost":       2 * time.Hour,
	"Turbo Composter":             8 * time.Hour,
	"Turbo Composter Egg Boost":   3 * time.Hour,
	"Premium Composter":           12 * time.Hour,
	"Premium Composter Egg Boost": 4 * time.Hour,
}

// SkillCooldowns is keyed by power skill name; the cooldown runs from the
// previous use.
var SkillCooldowns = map[string]time.Duration{
	"Instant Growth":        3 * 24 * time.Hour,
	"Tree Blitz":            1 * 24 * time.Hour,
	"Instant Gratification": 4 * 24 * time.Hour,
	"Barnyard Rouse":        5 * 24 * time.Hour,
	"Petal Blessed":         4 * 24 * time.Hour,
	"Greenhouse Guru":       4 * 24 * time.Hour,
	"Grease Lightning":      4 * 24 * time.Hour,
}
