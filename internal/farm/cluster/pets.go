package cluster

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"farmwatch/internal/farm"
	"farmwatch/internal/farm/extract"
)

// Pets petted within a minute of each other share one bedtime notification.
const petWindow = time.Minute

// PetSleeps clusters upcoming pet bedtimes into one-minute windows. A window
// with one pet is named after it; larger windows collapse to a generic title
// with the names in the detail line.
func PetSleeps(sleeps []extract.PetSleep, now time.Time) []farm.NotificationGroup {
	future := make([]extract.PetSleep, 0, len(sleeps))
	for _, s := range sleeps {
		if s.AsleepAt.After(now) {
			future = append(future, s)
		}
	}
	sort.Slice(future, func(i, j int) bool {
		if !future[i].AsleepAt.Equal(future[j].AsleepAt) {
			return future[i].AsleepAt.Before(future[j].AsleepAt)
		}
		return future[i].Name < future[j].Name
	})

	var groups []farm.NotificationGroup
	var names []string
	var windowStart time.Time
	window := -1

	flush := func() {
		if len(names) == 0 {
			return
		}
		display := names[0]
		if len(names) > 1 {
			display = "Multiple Pets"
		}
		groups = append(groups, farm.NotificationGroup{
			Category:      farm.CategoryPets,
			DisplayName:   display,
			Quantity:      len(names),
			EarliestReady: windowStart,
			GroupID:       farm.CategoryPets + "_w" + strconv.Itoa(window),
			Detail:        strings.Join(names, ", "),
		})
		names = nil
	}

	for _, s := range future {
		if window < 0 || s.AsleepAt.Sub(windowStart) > petWindow {
			flush()
			window++
			windowStart = s.AsleepAt
		}
		names = append(names, s.Name)
	}
	flush()
	return groups
}
