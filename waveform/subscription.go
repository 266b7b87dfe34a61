// SPDX-License-Identifier: EPL-2.0

package waveform

import "sync"

// Subscription delivers the events of one track. C is closed after the
// terminal event, or once Unsubscribe is called.
type Subscription struct {
	C <-chan Event

	trackID string
	ch      chan Event
	gen     *Generator
	run     *run // nil for cache hits
	closed  bool // guarded by run.mu when run != nil
	once    sync.Once
}

func newSubscription(g *Generator, trackID string, r *run, size int) *Subscription {
	ch := make(chan Event, size)
	return &Subscription{
		C:       ch,
		trackID: trackID,
		ch:      ch,
		gen:     g,
		run:     r,
	}
}

// completed returns a subscription holding only ev.
func completed(trackID string, ev Event) *Subscription {
	ch := make(chan Event, 1)
	ch <- ev
	close(ch)
	return &Subscription{C: ch, trackID: trackID, ch: ch, closed: true}
}

func (s *Subscription) TrackID() string { return s.trackID }

// Unsubscribe stops delivery and closes C. When the last subscriber of an
// unfinished run leaves, the run is cancelled and nothing is cached. It is
// safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		if s.run != nil {
			s.gen.detach(s)
		}
	})
}

// deliver hands ev over without blocking. A full mailbox loses its oldest
// event. Only the run's publisher sends, under run.mu, and the terminal
// event is the last send, so it is never the one dropped.
func (s *Subscription) deliver(ev Event) {
	if s.closed {
		return
	}
	for {
		select {
		case s.ch <- ev:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

func (s *Subscription) close() {
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
