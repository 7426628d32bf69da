package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/braynkanth/assistant-tui/api"
)

// MeetingLister is the part of the API client the scheduler needs.
type MeetingLister interface {
	Meetings(ctx context.Context) ([]api.Meeting, error)
}

// Scheduler polls the meeting list on a fixed interval and emits
// notifications for meetings entering an announcement window. It is
// idle until Start and returns to idle on Stop; Start/Stop may be
// called again after that (login/logout cycles).
type Scheduler struct {
	interval time.Duration
	out      chan Notification

	// Now is the clock used for window arithmetic; tests override it.
	Now func() time.Time

	mu     sync.Mutex
	lister MeetingLister
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(interval time.Duration) *Scheduler {
	return &Scheduler{
		interval: interval,
		out:      make(chan Notification, 16),
		Now:      time.Now,
	}
}

// Notifications is the stream the UI drains. It stays open across
// Start/Stop cycles.
func (s *Scheduler) Notifications() <-chan Notification {
	return s.out
}

// Start moves the scheduler to running and performs an immediate poll
// before the first tick. Calling Start while running is a no-op.
func (s *Scheduler) Start(ctx context.Context, lister MeetingLister) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.lister = lister
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(runCtx, s.done)
	log.Printf("Notify: scheduler running (interval %v)", s.interval)
}

// Stop returns the scheduler to idle and waits for the poll loop to
// exit. Safe to call when already idle.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Println("Notify: scheduler stopped.")
}

// Drain discards any buffered notifications that were never consumed.
// Called on logout so a stale announcement does not surface in the
// next session. The stream stays usable afterwards.
func (s *Scheduler) Drain() {
	for {
		select {
		case <-s.out:
		default:
			return
		}
	}
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	s.Poll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Poll(ctx)
		}
	}
}

// Poll performs one fetch-and-announce cycle. Fetch failures are
// logged and swallowed; the scheduler keeps ticking.
func (s *Scheduler) Poll(ctx context.Context) {
	s.mu.Lock()
	lister := s.lister
	s.mu.Unlock()
	if lister == nil {
		return
	}

	meetings, err := lister.Meetings(ctx)
	if err != nil {
		log.Printf("Notify: meeting poll failed: %v", err)
		return
	}

	for _, n := range Due(meetings, s.Now()) {
		select {
		case s.out <- n:
		case <-ctx.Done():
			return
		}
	}
}
