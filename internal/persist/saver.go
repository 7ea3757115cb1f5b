package persist

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Saver runs snapshot saves in the background, coalescing bursts of
// dirty notifications so the disk sees at most one save per interval.
// A pending save is flushed on Stop.
type Saver struct {
	save    func() error
	limiter *rate.Limiter
	dirty   chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	doneCh chan struct{}

	mu      sync.Mutex
	running bool
}

// NewSaver wraps save with a background worker. interval is the minimum
// spacing between two saves.
func NewSaver(save func() error, interval time.Duration) *Saver {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Saver{
		save:    save,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		dirty:   make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
		doneCh:  make(chan struct{}),
	}
}

// Start launches the worker. Starting twice is a no-op.
func (s *Saver) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	go s.run()
}

// Stop shuts the worker down, flushing a pending save first.
func (s *Saver) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.cancel()
	<-s.doneCh
}

// MarkDirty schedules a save. Notifications arriving while one is
// already pending are coalesced.
func (s *Saver) MarkDirty() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *Saver) run() {
	defer close(s.doneCh)
	for {
		select {
		case <-s.ctx.Done():
			s.flushPending()
			return
		case <-s.dirty:
			if err := s.limiter.Wait(s.ctx); err != nil {
				// Shutting down mid-wait; the save is still owed.
				s.doSave()
				return
			}
			s.doSave()
		}
	}
}

func (s *Saver) flushPending() {
	select {
	case <-s.dirty:
		s.doSave()
	default:
	}
}

func (s *Saver) doSave() {
	if err := s.save(); err != nil {
		log.Printf("snapshot save failed: %v", err)
	}
}
