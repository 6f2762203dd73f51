package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandeepkv93/urbanroots/internal/model"
)

func dueOnce(ids ...string) CheckFunc {
	return func(context.Context) ([]model.Reminder, error) {
		out := make([]model.Reminder, 0, len(ids))
		for _, id := range ids {
			out = append(out, model.Reminder{ID: id})
		}
		return out, nil
	}
}

func TestPollerChecksEveryInterval(t *testing.T) {
	var calls int64
	check := func(ctx context.Context) ([]model.Reminder, error) {
		atomic.AddInt64(&calls, 1)
		return []model.Reminder{{ID: "r1"}}, nil
	}
	poller := NewPoller(30*time.Millisecond, check, 8)
	poller.Start(context.Background())
	defer poller.Stop()

	first := waitEvent(t, poller.C(), time.Second)
	second := waitEvent(t, poller.C(), time.Second)
	if len(first.Reminders) != 1 || first.Reminders[0].ID != "r1" {
		t.Fatalf("unexpected first event: %+v", first)
	}
	if !second.At.After(first.At) {
		t.Fatalf("expected increasing event times: %v then %v", first.At, second.At)
	}
	if atomic.LoadInt64(&calls) < 2 {
		t.Fatalf("expected at least two checks, got %d", calls)
	}
}

func TestPollerTriggerNow(t *testing.T) {
	poller := NewPoller(time.Hour, dueOnce("a", "b"), 4)
	poller.Start(context.Background())
	defer poller.Stop()

	if err := poller.TriggerNow(); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	ev := waitEvent(t, poller.C(), time.Second)
	if len(ev.Reminders) != 2 {
		t.Fatalf("expected 2 due reminders, got %d", len(ev.Reminders))
	}
}

func TestPollerCoalescesSimultaneousWakes(t *testing.T) {
	poller := NewPoller(time.Hour, dueOnce("a"), 16)
	at := time.Now().Add(20 * time.Millisecond)
	for i := 0; i < 5; i++ {
		if err := poller.WakeAt(at); err != nil {
			t.Fatalf("wake at: %v", err)
		}
	}
	poller.Start(context.Background())
	defer poller.Stop()

	waitEvent(t, poller.C(), time.Second)
	time.Sleep(50 * time.Millisecond)
	if got := poller.Checks(); got != 1 {
		t.Fatalf("expected one coalesced check, got %d", got)
	}
}

func TestPollerSkipsEmptyChecks(t *testing.T) {
	poller := NewPoller(time.Hour, dueOnce(), 1)
	poller.Start(context.Background())
	defer poller.Stop()

	if err := poller.TriggerNow(); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	select {
	case ev := <-poller.C():
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(80 * time.Millisecond):
	}
	if poller.Checks() != 1 {
		t.Fatalf("expected one check, got %d", poller.Checks())
	}
}

func TestPollerCheckErrorEmitsNothing(t *testing.T) {
	failing := func(context.Context) ([]model.Reminder, error) {
		return nil, errors.New("store unavailable")
	}
	poller := NewPoller(time.Hour, failing, 1)
	poller.Start(context.Background())
	defer poller.Stop()

	_ = poller.TriggerNow()
	select {
	case ev := <-poller.C():
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(80 * time.Millisecond):
	}
}

func TestPollerNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	poller := NewPoller(time.Hour, dueOnce("a"), 1)
	poller.Start(context.Background())
	defer poller.Stop()

	base := time.Now()
	for i := 0; i < 10; i++ {
		if err := poller.WakeAt(base.Add(time.Duration(i*5) * time.Millisecond)); err != nil {
			t.Fatalf("wake at: %v", err)
		}
	}

	time.Sleep(150 * time.Millisecond)
	if poller.Dropped() == 0 {
		t.Fatalf("expected dropped events > 0, got %d", poller.Dropped())
	}
}

func TestWakeAtValidates(t *testing.T) {
	poller := NewPoller(time.Hour, dueOnce(), 1)
	if err := poller.WakeAt(time.Time{}); !errors.Is(err, ErrInvalidWakeTime) {
		t.Fatalf("expected ErrInvalidWakeTime, got %v", err)
	}
}

func TestStopClosesChannelAndRejectsWakes(t *testing.T) {
	poller := NewPoller(time.Hour, dueOnce("a"), 1)
	poller.Start(context.Background())
	poller.Stop()
	poller.Stop()

	if _, ok := <-poller.C(); ok {
		t.Fatalf("expected closed channel")
	}
	if err := poller.TriggerNow(); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func waitEvent(t *testing.T, ch <-chan DueEvent, timeout time.Duration) DueEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
		return DueEvent{}
	}
}
