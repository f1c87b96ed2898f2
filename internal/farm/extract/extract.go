// Package extract turns a farm snapshot into per-entity outcomes: one ready
// event per future completion, or a skip with a reason for entities the
// snapshot describes badly. Extractors are pure functions of (snapshot, now);
// differential detection lives in the track package.
package extract

import (
	"time"

	"github.com/tidwall/gjson"

	"farmwatch/internal/farm"
	logx "farmwatch/pkg/logx"
)

// Collect splits outcomes into ready events and logs the skips, one warning
// per skipped entity. Extractors never log themselves.
func Collect(log logx.Logger, category string, outs []farm.Outcome) []farm.ReadyEvent {
	events := make([]farm.ReadyEvent, 0, len(outs))
	for _, o := range outs {
		if o.OK() {
			events = append(events, o.Event())
			continue
		}
		log.Warn("entity skipped",
			logx.String("category", category),
			logx.String("reason", o.SkipReason()))
	}
	return events
}

// msTime converts an epoch-milliseconds field to a time.Time. ok is false
// when the field is absent or not positive.
func msTime(r gjson.Result) (time.Time, bool) {
	ms := r.Int()
	if !r.Exists() || ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

func futureEvent(category, subject string, qty int, readyAt, now time.Time) (farm.Outcome, bool) {
	if !readyAt.After(now) {
		return farm.Outcome{}, false
	}
	return farm.OK(farm.ReadyEvent{
		Category: category,
		Subject:  subject,
		Quantity: qty,
		ReadyAt:  readyAt,
	}), true
}
