// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"math"
)

// PeakMixer folds every interleaved frame of src into a single value: the
// largest absolute sample across the frame's channels. The result is a mono
// stream of non-negative magnitudes, so a transient on any one channel
// survives the fold. Non-finite samples count as silence.
//
// Sources may return reads that end mid-frame. The trailing samples are held
// back and completed by the next read, so frames never shift across channels.
type PeakMixer struct {
	src  Source
	tmp  []float32
	rest []float32
}

func NewPeakMixer(src Source) *PeakMixer {
	return &PeakMixer{
		src: src,
		tmp: make([]float32, 4096),
	}
}

func (m *PeakMixer) SampleRate() int { return m.src.SampleRate() }
func (m *PeakMixer) Channels() int   { return 1 }
func (m *PeakMixer) Frames() int64   { return m.src.Frames() }
func (m *PeakMixer) BufSize() int    { return m.src.BufSize() }
func (m *PeakMixer) Close() error {
	err := m.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// ReadSamples writes one magnitude per source frame into dst and returns the
// number of frames folded. An incomplete frame left when the source ends is
// dropped.
func (m *PeakMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.src.Channels()
	if channels == 1 {
		n, err := m.src.ReadSamples(dst)
		for i := range n {
			dst[i] = magnitude(dst[i])
		}
		return n, err
	}

	samplesNeeded := len(dst) * channels

	// Grow tmp buffer if needed (but don't shrink to avoid thrashing)
	if cap(m.tmp) < samplesNeeded {
		m.tmp = make([]float32, max(samplesNeeded, 8192))
	}
	m.tmp = m.tmp[:samplesNeeded]

	carried := copy(m.tmp, m.rest)
	n, err := m.src.ReadSamples(m.tmp[carried:])
	total := carried + n

	frames := total / channels
	m.rest = append(m.rest[:0], m.tmp[frames*channels:total]...)
	if frames == 0 {
		return 0, err
	}

	switch channels {
	case 2: // Stereo (most common)
		for f := range frames {
			idx := f << 1
			dst[f] = max(magnitude(m.tmp[idx]), magnitude(m.tmp[idx+1]))
		}
	default:
		for f := range frames {
			base := f * channels
			peak := float32(0)
			for c := range channels {
				peak = max(peak, magnitude(m.tmp[base+c]))
			}
			dst[f] = peak
		}
	}

	return frames, err
}

func magnitude(x float32) float32 {
	if x != x || math.IsInf(float64(x), 0) {
		return 0
	}
	if x < 0 {
		return -x
	}
	return x
}
