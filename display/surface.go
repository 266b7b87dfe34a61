// SPDX-License-Identifier: EPL-2.0

package display

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ik5/audpeaks/peaks"
	"github.com/ik5/audpeaks/waveform"
)

type Status int

const (
	StatusEmpty Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Snapshot is what a surface shows at one point in time.
type Snapshot struct {
	TrackID    string
	Status     Status
	Completion float64
	Peaks      int
	Bars       []Bar
	Err        error
}

type SurfaceOption func(*Surface)

// WithDebounce coalesces recomputes triggered within d of each other into
// one. Zero recomputes synchronously on every change.
func WithDebounce(d time.Duration) SurfaceOption {
	return func(s *Surface) { s.debounce = d }
}

// WithOnChange registers fn to receive every recomputed snapshot. fn runs
// outside the surface lock.
func WithOnChange(fn func(Snapshot)) SurfaceOption {
	return func(s *Surface) { s.onChange = fn }
}

// Surface holds the display state of the track being shown and recomputes
// its bars when the peaks, the width or the playhead change.
type Surface struct {
	debounce time.Duration
	onChange func(Snapshot)

	mu         sync.Mutex
	view       View
	trackID    string
	series     peaks.Series
	status     Status
	completion float64
	err        error
	bars       []Bar
	timer      *time.Timer
}

func NewSurface(layout Layout, opts ...SurfaceOption) *Surface {
	s := &Surface{view: View{Layout: layout}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load switches the surface to trackID. Bars of the previous track are
// dropped at once.
func (s *Surface) Load(trackID string) {
	s.mu.Lock()
	s.trackID = trackID
	s.series = nil
	s.status = StatusLoading
	s.completion = 0
	s.err = nil
	s.bars = nil
	s.view.Playhead = 0
	s.mu.Unlock()

	s.changed()
}

// Apply feeds a generator event to the surface. Events for a track other
// than the loaded one are ignored; Apply reports whether ev was used.
func (s *Surface) Apply(ev waveform.Event) bool {
	s.mu.Lock()
	if ev.TrackID != s.trackID {
		s.mu.Unlock()
		return false
	}

	s.series = ev.Peaks
	s.completion = ev.Completion
	switch ev.Kind {
	case waveform.Partial:
		s.status = StatusLoading
	case waveform.Finalized:
		s.status = StatusReady
	case waveform.Failed:
		s.status = StatusFailed
		s.err = ev.Err
	}
	s.mu.Unlock()

	s.changed()
	return true
}

func (s *Surface) Resize(width float64) {
	s.mu.Lock()
	s.view.Width = width
	s.mu.Unlock()

	s.changed()
}

// Seek moves the playhead, given as a fraction of the track.
func (s *Surface) Seek(position float64) {
	s.mu.Lock()
	s.view.Playhead = min(max(position, 0), 1)
	s.mu.Unlock()

	s.changed()
}

// Snapshot returns the state as of the last recompute.
func (s *Surface) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

// Flush runs a pending recompute now.
func (s *Surface) Flush() Snapshot {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	snap := s.recompute()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

// Close drops any pending recompute.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Surface) changed() {
	if s.debounce <= 0 {
		s.Flush()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.fire)
}

func (s *Surface) fire() {
	s.mu.Lock()
	s.timer = nil
	snap := s.recompute()
	s.mu.Unlock()

	s.notify(snap)
}

// recompute lays the current inputs out again. Caller holds s.mu.
func (s *Surface) recompute() Snapshot {
	s.bars = Render(s.series, s.view)
	return s.snapshot()
}

func (s *Surface) snapshot() Snapshot {
	return Snapshot{
		TrackID:    s.trackID,
		Status:     s.status,
		Completion: s.completion,
		Peaks:      len(s.series),
		Bars:       slices.Clone(s.bars),
		Err:        s.err,
	}
}

func (s *Surface) notify(snap Snapshot) {
	if s.onChange != nil {
		s.onChange(snap)
	}
}
