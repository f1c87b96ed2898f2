package extract

import (
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"farmwatch/internal/farm"
)

// DailyReset always emits a single event for the next UTC midnight, when the
// game rolls its daily content.
func DailyReset(now time.Time) []farm.Outcome {
	utc := now.UTC()
	midnight := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	return []farm.Outcome{farm.OK(farm.ReadyEvent{
		Category: farm.CategoryDailyReset,
		Subject:  "Daily Reset",
		Quantity: 1,
		ReadyAt:  midnight,
	})}
}

// FloatingIsland emits an arrival event per future schedule entry. The
// clusterer collapses them to the next visit; later visits surface once the
// current one has passed.
func FloatingIsland(snap *farm.Snapshot, now time.Time) []farm.Outcome {
	var outs []farm.Outcome
	snap.Get("floatingIsland.schedule").ForEach(func(_, entry gjson.Result) bool {
		startAt, ok := msTime(entry.Get("startAt"))
		if !ok {
			outs = append(outs, farm.Skip("floating island: schedule entry without startAt"))
			return true
		}
		if !startAt.After(now) {
			return true
		}
		detail := ""
		if endAt, ok := msTime(entry.Get("endAt")); ok {
			detail = "until " + endAt.UTC().Format("Jan 2 15:04 MST")
		}
		outs = append(outs, farm.OK(farm.ReadyEvent{
			Category: farm.CategoryFloatingIsland,
			Subject:  "Floating Island",
			Quantity: 1,
			ReadyAt:  startAt,
			Detail:   detail,
		}))
		return true
	})
	return outs
}

// ShopItems reads the floating island shop into a name-to-cost map, cost
// being the Love Charm price. The shop tracker diffs it against the previous
// run.
func ShopItems(snap *farm.Snapshot) map[string]string {
	items := make(map[string]string)
	snap.Get("floatingIsland.shop").ForEach(func(_, item gjson.Result) bool {
		name := item.Get("name").String()
		if name == "" {
			return true
		}
		items[name] = strconv.FormatInt(item.Get("cost.items.Love Charm").Int(), 10)
		return true
	})
	return items
}
