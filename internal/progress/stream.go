package progress

import (
	"sync"

	"golang.org/x/time/rate"
)

// Stream delivers events in the order they were sent. Sending never
// blocks: events queue up until the reader takes them. ScanProgress
// events are throttled; everything else is always delivered.
type Stream struct {
	mu      sync.Mutex
	queue   []Event
	closed  bool
	notify  chan struct{}
	out     chan Event
	limiter *rate.Limiter
}

// NewStream starts a stream that lets through at most scanPerSecond
// ScanProgress events per second. Zero or less disables throttling.
func NewStream(scanPerSecond int) *Stream {
	s := &Stream{
		notify: make(chan struct{}, 1),
		out:    make(chan Event),
	}
	if scanPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(scanPerSecond), 1)
	}
	go s.pump()
	return s
}

// Events returns the channel the reader drains. It is closed after the
// last queued event once Close has been called.
func (s *Stream) Events() <-chan Event {
	return s.out
}

// Send queues e. It reports false when e was dropped by the throttle or
// the stream is already closed.
func (s *Stream) Send(e Event) bool {
	if _, ok := e.(ScanProgress); ok && s.limiter != nil && !s.limiter.Allow() {
		return false
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.queue = append(s.queue, e)
	s.mu.Unlock()

	s.wake()
	return true
}

// Close stops accepting events. Queued events are still delivered.
func (s *Stream) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wake()
}

func (s *Stream) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Stream) pump() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.mu.Unlock()
			<-s.notify
			s.mu.Lock()
		}
		if len(s.queue) == 0 {
			s.mu.Unlock()
			close(s.out)
			return
		}
		e := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.out <- e
	}
}
