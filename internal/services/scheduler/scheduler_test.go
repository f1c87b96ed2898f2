package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	logx "farmwatch/pkg/logx"
)

func TestAddIntervalRecordsHistory(t *testing.T) {
	t.Parallel()
	svc := New(Config{Workers: 1, DefaultTimeout: time.Second, HistorySize: 4}, logx.Nop())
	svc.Start(context.Background())
	defer svc.Stop(context.Background())

	done := make(chan struct{})
	var once sync.Once
	if _, err := svc.AddInterval("hourly", time.Hour, 0, func(ctx context.Context) error {
		once.Do(func() { close(done) })
		return nil
	}); err != nil {
		t.Fatalf("add interval: %v", err)
	}

	// The hourly schedule will not fire in test time; push the task directly.
	svc.enqueue(task{id: "t1", name: "manual", run: func(ctx context.Context) error {
		once.Do(func() { close(done) })
		return nil
	}})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran")
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(svc.History()) > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("no history recorded")
}

// Stop must be safe while workers are mid-select on the queue, repeatedly
// and concurrently with enqueues. Run with -race.
func TestStopWhileWorkersBusy(t *testing.T) {
	t.Parallel()
	svc := New(Config{Workers: 3, DefaultTimeout: time.Second}, logx.Nop())
	ctx := context.Background()
	svc.Start(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			svc.enqueue(task{id: "t", name: "noop", run: func(ctx context.Context) error { return nil }})
		}
	}()

	time.Sleep(5 * time.Millisecond)
	svc.Stop(ctx)
	svc.Stop(ctx) // repeated stop is a no-op
	wg.Wait()

	// The service restarts cleanly after a stop.
	svc.Start(ctx)
	svc.Stop(ctx)
}
