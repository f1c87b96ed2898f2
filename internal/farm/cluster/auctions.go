package cluster

import (
	"sort"
	"time"

	"farmwatch/internal/farm"
	"farmwatch/internal/farm/extract"
)

// Auction picks the single auction to notify about: the soonest one that has
// not started yet. It returns nil when there is nothing to schedule, which
// includes the case where the soonest auction is the one already scheduled on
// a previous run (lastID/lastStart from the store) and its start has not
// passed; rescheduling it would only move the alarm slot for nothing.
func Auction(auctions []extract.Auction, now time.Time, lastID string, lastStart time.Time) *farm.NotificationGroup {
	future := make([]extract.Auction, 0, len(auctions))
	for _, a := range auctions {
		if a.Info.StartAt.After(now) {
			future = append(future, a)
		}
	}
	if len(future) == 0 {
		return nil
	}
	sort.Slice(future, func(i, j int) bool { return future[i].Info.StartAt.Before(future[j].Info.StartAt) })
	soonest := future[0]

	if soonest.Info.AuctionID == lastID && lastStart.After(now) {
		return nil
	}

	info := soonest.Info
	return &farm.NotificationGroup{
		Category:      farm.CategoryAuctions,
		DisplayName:   soonest.Name,
		Quantity:      1,
		EarliestReady: info.StartAt,
		GroupID:       farm.CategoryAuctions + "_" + slug(info.AuctionID),
		Auction:       &info,
	}
}
