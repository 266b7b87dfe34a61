// SPDX-License-Identifier: EPL-2.0

package peaks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/audpeaks/audio"
)

// Reducer turns a stream of per-frame magnitudes into one peak per window.
// It is not safe for concurrent use.
type Reducer struct {
	window int
	filled int
	peak   float32
	frames int64
	out    Series
}

// NewReducer returns a Reducer for window frames. A non-positive window
// selects WindowSize.
func NewReducer(window int) *Reducer {
	if window <= 0 {
		window = WindowSize
	}
	return &Reducer{window: window}
}

func (r *Reducer) Window() int { return r.window }

// Frames is the number of frames pushed so far.
func (r *Reducer) Frames() int64 { return r.frames }

// Len is the number of peaks emitted so far.
func (r *Reducer) Len() int { return len(r.out) }

// Peaks returns the emitted peaks. The slice is shared with the Reducer:
// existing entries never change, but later pushes may append to it.
func (r *Reducer) Peaks() Series { return r.out[:len(r.out):len(r.out)] }

// Push consumes one magnitude per frame and returns how many windows were
// completed. Negative inputs are treated as their magnitude and non-finite
// ones as silence.
func (r *Reducer) Push(mags []float32) int {
	before := len(r.out)

	for _, m := range mags {
		if m < 0 {
			m = -m
		}
		if m != m || math.IsInf(float64(m), 0) {
			m = 0
		}
		if m > r.peak {
			r.peak = m
		}

		r.filled++
		if r.filled == r.window {
			r.out = append(r.out, r.peak)
			r.filled = 0
			r.peak = 0
		}
	}
	r.frames += int64(len(mags))

	return len(r.out) - before
}

// Flush emits the trailing partial window, reduced over the frames it has.
// It reports whether a peak was emitted.
func (r *Reducer) Flush() bool {
	if r.filled == 0 {
		return false
	}

	r.out = append(r.out, r.peak)
	r.filled = 0
	r.peak = 0
	return true
}

// Reduce drains src and returns its raw peak series. On a read error the
// peaks gathered so far, including the partial window, are returned along
// with the error.
func Reduce(src audio.Source, window int) (Series, error) {
	series, err := Drain(context.Background(), src, window, 0, nil)
	if err != nil {
		return series, fmt.Errorf("reducing peaks: %w", err)
	}
	return series, nil
}

// Drain folds src through a PeakMixer into a Reducer of window frames until
// the stream ends, reading bufFrames frames at a time (a non-positive value
// sizes reads from src). progress, when set, is called with the reducer
// after every read that did not end the stream.
//
// The trailing partial window is flushed however Drain returns. A source
// that keeps returning nothing fails with io.ErrNoProgress, and a done ctx
// stops the loop with ctx.Err().
func Drain(ctx context.Context, src audio.Source, window, bufFrames int, progress func(*Reducer)) (Series, error) {
	mixer := audio.NewPeakMixer(src)
	r := NewReducer(window)
	if bufFrames <= 0 {
		bufFrames = max(src.BufSize()/max(src.Channels(), 1), r.window)
	}
	buf := make([]float32, bufFrames)

	empty := 0
	for {
		if err := ctx.Err(); err != nil {
			r.Flush()
			return r.Peaks(), err
		}

		n, err := mixer.ReadSamples(buf)
		r.Push(buf[:n])

		if n == 0 && err == nil {
			if empty++; empty >= audio.MaxEmptyReads {
				err = io.ErrNoProgress
			}
		} else {
			empty = 0
		}

		if errors.Is(err, io.EOF) {
			r.Flush()
			return r.Peaks(), nil
		}
		if err != nil {
			r.Flush()
			return r.Peaks(), err
		}

		if progress != nil {
			progress(r)
		}
	}
}
