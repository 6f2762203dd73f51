// Package scheduler runs the periodic due-reminder check in the background
// and delivers its results on a channel.
package scheduler

import (
	"container/heap"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/urbanroots/internal/model"
)

const DefaultInterval = time.Hour

var (
	ErrInvalidWakeTime = errors.New("scheduler: invalid wake time")
	ErrStopped         = errors.New("scheduler: poller stopped")
)

// CheckFunc reports the reminders due at the time of the call.
type CheckFunc func(ctx context.Context) ([]model.Reminder, error)

// DueEvent is emitted after a check that found due reminders.
type DueEvent struct {
	At        time.Time
	Reminders []model.Reminder
}

type wake struct {
	at       time.Time
	periodic bool
}

type wakeQueue []wake

func (q wakeQueue) Len() int { return len(q) }

func (q wakeQueue) Less(i, j int) bool {
	return q[i].at.Before(q[j].at)
}

func (q wakeQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *wakeQueue) Push(x any) {
	*q = append(*q, x.(wake))
}

func (q *wakeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

// Poller calls a CheckFunc every interval, on demand, and at any extra wake
// times registered with WakeAt. Several wakes falling due together result
// in a single check.
type Poller struct {
	interval time.Duration
	check    CheckFunc
	logger   *slog.Logger

	mu      sync.Mutex
	queue   wakeQueue
	out     chan DueEvent
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	cancel  context.CancelFunc
	started bool
	stopped bool
	checks  uint64
	dropped uint64
}

type Option func(*Poller)

func WithLogger(l *slog.Logger) Option {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

func NewPoller(interval time.Duration, check CheckFunc, bufferSize int, opts ...Option) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}
	p := &Poller{
		interval: interval,
		check:    check,
		logger:   slog.Default(),
		queue:    make(wakeQueue, 0),
		out:      make(chan DueEvent, bufferSize),
		wakeup:   make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "scheduler")
	return p
}

func (p *Poller) C() <-chan DueEvent {
	return p.out
}

// Start launches the polling loop. The first periodic check runs one
// interval from now. ctx bounds every check.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	ctx, p.cancel = context.WithCancel(ctx)
	heap.Init(&p.queue)
	heap.Push(&p.queue, wake{at: time.Now().Add(p.interval), periodic: true})
	go p.loop(ctx)
}

func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.cancel()
	close(p.stopCh)
	p.mu.Unlock()
	<-p.doneCh
}

// TriggerNow requests an immediate check.
func (p *Poller) TriggerNow() error {
	return p.WakeAt(time.Now())
}

// WakeAt requests an extra check at t, for example when a reminder falls
// due before the next periodic check.
func (p *Poller) WakeAt(t time.Time) error {
	if t.IsZero() {
		return ErrInvalidWakeTime
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return ErrStopped
	}
	heap.Push(&p.queue, wake{at: t})
	p.signalWakeup()
	return nil
}

// Dropped counts events discarded because the consumer fell behind.
func (p *Poller) Dropped() uint64 {
	return atomic.LoadUint64(&p.dropped)
}

// Checks counts completed check calls.
func (p *Poller) Checks() uint64 {
	return atomic.LoadUint64(&p.checks)
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.doneCh)
	defer close(p.out)

	var timer *time.Timer
	for {
		next, hasNext := p.peek()
		if !hasNext {
			select {
			case <-p.wakeup:
				continue
			case <-p.stopCh:
				return
			}
		}

		wait := time.Until(next.at)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			now := time.Now()
			if len(p.popDue(now)) == 0 {
				continue
			}
			p.runCheck(ctx, now)
		case <-p.wakeup:
			continue
		case <-p.stopCh:
			stopTimer(timer)
			return
		}
	}
}

func (p *Poller) runCheck(ctx context.Context, now time.Time) {
	due, err := p.check(ctx)
	atomic.AddUint64(&p.checks, 1)
	if err != nil {
		p.logger.Error("due check failed", "error", err)
		return
	}
	if len(due) == 0 {
		return
	}
	select {
	case p.out <- DueEvent{At: now, Reminders: due}:
	default:
		atomic.AddUint64(&p.dropped, 1)
		p.logger.Warn("due event dropped", "count", len(due))
	}
}

func (p *Poller) signalWakeup() {
	select {
	case p.wakeup <- struct{}{}:
	default:
	}
}

func (p *Poller) peek() (wake, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return wake{}, false
	}
	return p.queue[0], true
}

// popDue removes every wake at or before now and re-arms the periodic wake.
func (p *Poller) popDue(now time.Time) []wake {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]wake, 0)
	for len(p.queue) > 0 {
		if p.queue[0].at.After(now) {
			break
		}
		w := heap.Pop(&p.queue).(wake)
		if w.periodic {
			heap.Push(&p.queue, wake{at: now.Add(p.interval), periodic: true})
		}
		out = append(out, w)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
