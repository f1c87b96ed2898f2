package delivery

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"farmwatch/internal/farm"
	"farmwatch/internal/transport"
	logx "farmwatch/pkg/logx"
)

type fakeAdapter struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeAdapter) SendText(ctx context.Context, to transport.ChatTarget, text string, opt *transport.SendOptions) (transport.MessageRef, error) {
	f.mu.Lock()
	f.sent = append(f.sent, text)
	f.mu.Unlock()
	return transport.MessageRef{}, nil
}

func (f *fakeAdapter) Stop(ctx context.Context) error { return nil }

func TestRender(t *testing.T) {
	t.Parallel()
	ready := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("quantity and detail", func(t *testing.T) {
		t.Parallel()
		text := Render(farm.NotificationGroup{
			Category:      farm.CategoryCrops,
			DisplayName:   "Carrot",
			Quantity:      12,
			EarliestReady: ready,
			GroupID:       "crops_carrot",
		})
		if !strings.Contains(text, "Carrot x12") {
			t.Fatalf("text = %q", text)
		}
	})

	t.Run("auction metadata", func(t *testing.T) {
		t.Parallel()
		text := Render(farm.NotificationGroup{
			Category:      farm.CategoryAuctions,
			DisplayName:   "Gilded Doll",
			Quantity:      1,
			EarliestReady: ready,
			GroupID:       "auctions_auc_1",
			Auction: &farm.AuctionInfo{
				AuctionID:   "auc-1",
				StartAt:     ready,
				SFL:         5,
				Ingredients: map[string]float64{"Wood": 100, "Gold": 2},
			},
		})
		for _, want := range []string{"Gilded Doll", "5 SFL", "2 Gold, 100 Wood"} {
			if !strings.Contains(text, want) {
				t.Fatalf("text %q missing %q", text, want)
			}
		}
	})
}

func TestDeliverKeepsBoundedHistory(t *testing.T) {
	t.Parallel()
	adapter := &fakeAdapter{}
	svc := New(Config{HistorySize: 3}, adapter, logx.Nop())

	for i := 0; i < 5; i++ {
		svc.Deliver(context.Background(), farm.NotificationGroup{
			Category: farm.CategoryCrops, DisplayName: "Carrot", Quantity: 1, GroupID: "crops_carrot",
		})
	}
	if got := len(svc.History()); got != 3 {
		t.Fatalf("history = %d, want capped at 3", got)
	}
	if got := len(adapter.sent); got != 5 {
		t.Fatalf("sent = %d, want every delivery", got)
	}
}

func TestAppendRunSummaryRotates(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "summary.log")
	svc := New(Config{SummaryPath: path, SummaryMaxBytes: 64}, &fakeAdapter{}, logx.Nop())

	groups := []farm.NotificationGroup{{
		Category: farm.CategoryCrops, DisplayName: "Carrot", Quantity: 2,
		EarliestReady: time.Now().Add(time.Hour), GroupID: "crops_carrot",
	}}
	now := time.Now()
	svc.AppendRunSummary(groups, now)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if !strings.Contains(string(data), "crops_carrot") {
		t.Fatalf("summary = %q", data)
	}

	// Past the cap the file rotates to .old and a fresh one starts.
	svc.AppendRunSummary(groups, now)
	svc.AppendRunSummary(groups, now)
	if _, err := os.Stat(path + ".old"); err != nil {
		t.Fatalf("expected rotation: %v", err)
	}
}
