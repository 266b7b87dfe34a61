// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"math"
)

// mockSource plays back totalFrames frames computed by wave. Setting failAt
// makes it return failErr once that many frames have been produced.
type mockSource struct {
	sampleRate  int
	channels    int
	totalFrames int
	generated   int
	wave        func(frame, channel int) float32

	failAt  int
	failErr error
	closed  bool
}

func newMockSource(sampleRate, channels, totalFrames int, wave func(frame, channel int) float32) *mockSource {
	return &mockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		wave:        wave,
	}
}

func newSilentSource(sampleRate, channels, totalFrames int) *mockSource {
	return newConstantSource(sampleRate, channels, totalFrames, 0)
}

func newConstantSource(sampleRate, channels, totalFrames int, value float32) *mockSource {
	return newMockSource(sampleRate, channels, totalFrames, func(int, int) float32 { return value })
}

func newSineSource(sampleRate, channels, totalFrames int, frequency float64) *mockSource {
	step := 2 * math.Pi * frequency / float64(sampleRate)
	return newMockSource(sampleRate, channels, totalFrames, func(frame, _ int) float32 {
		return float32(math.Sin(step * float64(frame)))
	})
}

func (m *mockSource) SampleRate() int { return m.sampleRate }
func (m *mockSource) Channels() int   { return m.channels }
func (m *mockSource) Frames() int64   { return int64(m.totalFrames) }
func (m *mockSource) BufSize() int    { return 4096 }

func (m *mockSource) Close() error {
	m.closed = true
	return nil
}

// Reset rewinds the source so benchmarks can replay it.
func (m *mockSource) Reset() { m.generated = 0 }

func (m *mockSource) ReadSamples(dst []float32) (int, error) {
	failing := m.failAt > 0
	if failing && m.generated >= m.failAt {
		return 0, m.failErr
	}
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}

	end := min(m.generated+len(dst)/m.channels, m.totalFrames)
	if failing {
		end = min(end, m.failAt)
	}

	i := 0
	for frame := m.generated; frame < end; frame++ {
		for ch := range m.channels {
			dst[i] = m.wave(frame, ch)
			i++
		}
	}
	m.generated = end

	if end == m.totalFrames {
		return i, io.EOF
	}
	return i, nil
}
