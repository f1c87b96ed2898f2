package extract

import (
	"time"

	"github.com/tidwall/gjson"

	"farmwatch/internal/farm"
)

// Auction is one upcoming auction, fed to the auction clusterer.
type Auction struct {
	Name string
	Info farm.AuctionInfo
}

// Auctions reads the upcoming-auctions schedule and keeps the ones that have
// not started yet. The auctioned item lives under a different key depending
// on its kind, so the name is taken from whichever of wearable, collectible
// or nft is present.
func Auctions(snap *farm.Snapshot, now time.Time) ([]Auction, []farm.Outcome) {
	var auctions []Auction
	var skips []farm.Outcome

	snap.Auctions().ForEach(func(_, entry gjson.Result) bool {
		startAt, ok := msTime(entry.Get("startAt"))
		if !ok {
			skips = append(skips, farm.Skip("auction without startAt"))
			return true
		}
		if !startAt.After(now) {
			return true
		}
		id := entry.Get("auctionId").String()
		if id == "" {
			skips = append(skips, farm.Skip("auction without auctionId"))
			return true
		}
		name := firstString(entry, "wearable", "collectible", "nft")
		if name == "" {
			name = "Unknown"
		}

		info := farm.AuctionInfo{
			AuctionID:   id,
			StartAt:     startAt,
			SFL:         entry.Get("sfl").Float(),
			Ingredients: map[string]float64{},
		}
		if endAt, ok := msTime(entry.Get("endAt")); ok {
			info.EndAt = endAt
		}
		entry.Get("ingredients").ForEach(func(item, qty gjson.Result) bool {
			info.Ingredients[item.String()] = qty.Float()
			return true
		})
		auctions = append(auctions, Auction{Name: name, Info: info})
		return true
	})
	return auctions, skips
}

func firstString(r gjson.Result, keys ...string) string {
	for _, key := range keys {
		if v := r.Get(key); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
