// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"fmt"

	"github.com/ik5/audpeaks/peaks"
)

// State is the lifecycle of a track's waveform.
type State int

const (
	StateIdle State = iota
	StateGenerating
	StateFinalizing
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StateFinalizing:
		return "finalizing"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type EventKind int

const (
	// Partial carries the raw peaks gathered so far.
	Partial EventKind = iota
	// Finalized carries the complete, normalized series. It is terminal.
	Finalized
	// Failed carries the partial series and the error. It is terminal.
	Failed
)

func (k EventKind) String() string {
	switch k {
	case Partial:
		return "partial"
	case Finalized:
		return "finalized"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Progress is a snapshot of a run. Completion is in [0, 1]; it stays below 1
// until the terminal event. Count equals len(Peaks).
type Progress struct {
	Completion float64
	Count      int
	Peaks      peaks.Series
}

// Event is what subscribers receive. Every event owns its Peaks slice.
type Event struct {
	Kind    EventKind
	TrackID string
	Progress
	Err       error
	FromCache bool
}

// Terminal reports whether no further events follow e.
func (e Event) Terminal() bool { return e.Kind != Partial }

// clone gives e its own copy of the peaks.
func (e Event) clone() Event {
	e.Peaks = e.Peaks.Clone()
	return e
}

func progressOf(series peaks.Series, estimated int64) Progress {
	completion := 0.0
	if estimated > 0 {
		completion = min(float64(len(series))/float64(estimated), maxPartialCompletion)
	}
	return Progress{
		Completion: completion,
		Count:      len(series),
		Peaks:      series,
	}
}

// maxPartialCompletion keeps partial events from claiming completion when the
// length estimate is short.
const maxPartialCompletion = 0.99
