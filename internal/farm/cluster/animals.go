package cluster

import (
	"sort"
	"strconv"
	"time"

	"farmwatch/internal/farm"
)

// Animals of one type rarely wake at exactly the same instant; anything
// within five minutes of the first animal counts as the same wave.
const animalWindow = 5 * time.Minute

// windowed splits each subject's events into greedy time windows: events
// sorted by ready time, a new window whenever an event lands more than the
// window span after the window's first event. Group ids carry the window
// index, so an unchanged farm reproduces the same ids.
func windowed(events []farm.ReadyEvent, span time.Duration) []farm.NotificationGroup {
	bySubj := make(map[string][]farm.ReadyEvent)
	for _, ev := range events {
		bySubj[ev.Subject] = append(bySubj[ev.Subject], ev)
	}

	var groups []farm.NotificationGroup
	for subject, evs := range bySubj {
		sort.Slice(evs, func(i, j int) bool { return evs[i].ReadyAt.Before(evs[j].ReadyAt) })

		window := -1
		var current *farm.NotificationGroup
		var windowStart time.Time
		for _, ev := range evs {
			if current == nil || ev.ReadyAt.Sub(windowStart) > span {
				if current != nil {
					groups = append(groups, *current)
				}
				window++
				windowStart = ev.ReadyAt
				current = &farm.NotificationGroup{
					Category:      ev.Category,
					DisplayName:   subject,
					Quantity:      ev.Quantity,
					EarliestReady: ev.ReadyAt,
					GroupID:       ev.Category + "_" + slug(subject) + "_w" + strconv.Itoa(window),
					Detail:        ev.Detail,
				}
				continue
			}
			current.Quantity += ev.Quantity
		}
		if current != nil {
			groups = append(groups, *current)
		}
	}
	return groups
}
