// SPDX-License-Identifier: EPL-2.0

// Package display lays a peak series out as bars on a fixed pixel width.
//
// The number of bars is decided first, from the width, and the width is then
// shared evenly among exactly that many bars. Bars therefore always span the
// whole surface: none is clipped at the right edge and no space is left
// unused after the last one. Layouts are recomputed from scratch whenever an
// input changes.
package display

import "github.com/ik5/audpeaks/peaks"

// Layout is the pixel budget of a waveform surface.
type Layout struct {
	Width    float64
	BarWidth float64
	MinGap   float64
}

// Fit is the number of bars of BarWidth separated by at least MinGap that
// fit in Width.
func (l Layout) Fit() int {
	step := l.BarWidth + l.MinGap
	if l.Width <= 0 || l.BarWidth <= 0 || l.MinGap < 0 || step <= 0 {
		return 0
	}
	return int(l.Width / step)
}

// Bar is one rendered unit. It covers the peaks First through Last,
// inclusive, and its Magnitude is their maximum.
type Bar struct {
	Index     int
	X         float64
	Width     float64
	Magnitude float32
	First     int
	Last      int
	Played    bool
}

// Right is the x coordinate of the bar's right edge.
func (b Bar) Right() float64 { return b.X + b.Width }

// Resample maps series onto layout. It returns min(len(series), layout.Fit())
// bars, or a single full-width bar of the series maximum when at most one
// bar fits. An empty series yields no bars.
func Resample(series peaks.Series, layout Layout) []Bar {
	total := len(series)
	if total == 0 || layout.Width <= 0 {
		return nil
	}

	n := min(total, layout.Fit())
	if n <= 1 {
		return []Bar{{
			Width:     layout.Width,
			Magnitude: series.Max(),
			Last:      total - 1,
		}}
	}

	gap := (layout.Width - float64(n)*layout.BarWidth) / float64(n-1)
	step := layout.BarWidth + gap

	bars := make([]Bar, n)
	for i := range bars {
		first := i * total / n
		last := (i+1)*total/n - 1

		bars[i] = Bar{
			Index:     i,
			X:         float64(i) * step,
			Width:     layout.BarWidth,
			Magnitude: series[first : last+1].Max(),
			First:     first,
			Last:      last,
		}
	}
	// pin the last bar to the edge so rounding cannot leave a sliver
	bars[n-1].X = layout.Width - layout.BarWidth

	return bars
}

// View is everything a render depends on besides the peaks.
type View struct {
	Layout
	// Playhead is the playback position as a fraction of the track, in
	// [0, 1].
	Playhead float64
}

// Render resamples series for view and marks the bars whose peaks start
// before the playhead as played.
func Render(series peaks.Series, view View) []Bar {
	bars := Resample(series, view.Layout)
	if len(bars) == 0 || view.Playhead <= 0 {
		return bars
	}

	total := float64(len(series))
	for i := range bars {
		bars[i].Played = float64(bars[i].First)/total < view.Playhead
	}
	return bars
}
