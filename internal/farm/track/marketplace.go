package track

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"farmwatch/internal/farm"
)

const (
	listingUnfulfilled = "unfulfilled"
	listingFulfilled   = "fulfilled"
)

// Marketplace watches trades.listings for the unfulfilled-to-fulfilled edge
// and emits a sale event for each listing that sold since the previous run.
// Sales are stamped with the current time; the state machine delivers them
// even though they are already in the past. A listing never seen before
// counts as previously unfulfilled.
func Marketplace(snap *farm.Snapshot, now time.Time, prev map[string]string) ([]farm.ReadyEvent, map[string]string) {
	var events []farm.ReadyEvent
	next := make(map[string]string)

	snap.Get("trades.listings").ForEach(func(listingID, listing gjson.Result) bool {
		id := listingID.String()
		state := listingUnfulfilled
		if f := listing.Get("fulfilledAt"); f.Exists() && f.Type != gjson.Null {
			state = listingFulfilled
		}
		next[id] = state

		if state != listingFulfilled || prev[id] == listingFulfilled {
			return true
		}

		subject := "Listing"
		qty := 1
		listing.Get("items").ForEach(func(item, amount gjson.Result) bool {
			subject = item.String()
			if n := int(amount.Int()); n > 0 {
				qty = n
			}
			return false
		})
		events = append(events, farm.ReadyEvent{
			Category: farm.CategoryMarketplace,
			Subject:  subject,
			Quantity: qty,
			ReadyAt:  now,
			Identity: id,
			Detail:   fmt.Sprintf("sold for %g SFL", listing.Get("sfl").Float()),
		})
		return true
	})
	return events, next
}
