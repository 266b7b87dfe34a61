// SPDX-License-Identifier: EPL-2.0

package peaks

// WindowSize is the number of sample frames reduced to one peak. At 44.1 kHz
// it yields about 43 peaks per second, enough for a full-width waveform on a
// large display while a one-hour mix still stays under 160k peaks.
const WindowSize = 1024

// Series is an ordered sequence of non-negative magnitudes, one per window.
// While a run is in progress the values are raw magnitudes; a finalized
// series is normalized to [0, 1].
type Series []float32

// Clone returns an independent copy. A nil series clones to an empty,
// non-nil one so that callers can tell "no peaks yet" from "no data".
func (s Series) Clone() Series {
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// Max is the largest value in s, or 0 for an empty series.
func (s Series) Max() float32 {
	var m float32
	for _, v := range s {
		if v > m {
			m = v
		}
	}
	return m
}

// Normalize returns a copy of s divided by its maximum. A silent series
// stays all zero.
func (s Series) Normalize() Series {
	out := s.Clone()

	m := s.Max()
	if m == 0 {
		return out
	}

	for i, v := range out {
		out[i] = v / m
	}
	// guard against rounding above 1 on the divide
	for i, v := range out {
		if v > 1 {
			out[i] = 1
		}
	}

	return out
}

// HasPrefix reports whether prefix appears unchanged at the start of s.
func (s Series) HasPrefix(prefix Series) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i, v := range prefix {
		if s[i] != v {
			return false
		}
	}
	return true
}

// Count is the number of peaks a stream of frames produces with the given
// window: ceil(frames / window).
func Count(frames int64, window int) int64 {
	if frames <= 0 || window <= 0 {
		return 0
	}
	return (frames + int64(window) - 1) / int64(window)
}
