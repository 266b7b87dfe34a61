// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides synthetic audio sources and fixture files for
// tests.
package audiotest

import (
	"io"
	"math"
	"sync"
	"time"
)

// Source generates audio from a waveform function. It implements
// audio.Source and is safe to inspect from another goroutine while a
// consumer reads it.
type Source struct {
	sampleRate  int
	channels    int
	totalFrames int
	waveform    func(frame int, channel int) float32

	mu        sync.Mutex
	generated int
	reads     int
	closed    bool
	failAt    int
	failErr   error
	delay     time.Duration
	hideLen   bool
	gate      chan struct{}
}

// NewSource creates a source of totalFrames frames.
func NewSource(sampleRate, channels, totalFrames int, waveform func(frame int, channel int) float32) *Source {
	return &Source{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
	}
}

// NewSilent creates a source of digital silence.
func NewSilent(sampleRate, channels, totalFrames int) *Source {
	return NewSource(sampleRate, channels, totalFrames, func(int, int) float32 { return 0 })
}

// NewConstant creates a source holding value on every channel.
func NewConstant(sampleRate, channels, totalFrames int, value float32) *Source {
	return NewSource(sampleRate, channels, totalFrames, func(int, int) float32 { return value })
}

// NewSine creates a sine wave of the given frequency and amplitude on every
// channel.
func NewSine(sampleRate, channels, totalFrames int, frequency float64, amplitude float32) *Source {
	return NewSource(sampleRate, channels, totalFrames, func(frame int, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return amplitude * float32(math.Sin(2*math.Pi*frequency*t))
	})
}

// FailAt makes the source return err once frame has been produced. Data
// before that frame is delivered normally.
func (s *Source) FailAt(frame int, err error) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failAt = frame
	s.failErr = err
	return s
}

// Throttle sleeps d before every read, to make runs observable mid-flight.
func (s *Source) Throttle(d time.Duration) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.delay = d
	return s
}

// HideLength makes Frames report 0, like a container without a length.
func (s *Source) HideLength() *Source {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hideLen = true
	return s
}

// Hold blocks every read until Release is called.
func (s *Source) Hold() *Source {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gate = make(chan struct{})
	return s
}

// Release unblocks a held source.
func (s *Source) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gate != nil {
		close(s.gate)
		s.gate = nil
	}
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return 4096 }

func (s *Source) Frames() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hideLen {
		return 0
	}
	return int64(s.totalFrames)
}

func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *Source) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// Reads is the number of ReadSamples calls so far.
func (s *Source) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.reads
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	s.mu.Lock()
	gate, delay := s.gate, s.delay
	s.reads++
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if delay > 0 {
		time.Sleep(delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil && s.generated >= s.failAt {
		return 0, s.failErr
	}
	if s.generated >= s.totalFrames {
		return 0, io.EOF
	}

	frames := min(len(dst)/s.channels, s.totalFrames-s.generated)
	if s.failErr != nil {
		frames = min(frames, s.failAt-s.generated)
	}

	for f := range frames {
		for ch := range s.channels {
			dst[f*s.channels+ch] = s.waveform(s.generated+f, ch)
		}
	}
	s.generated += frames

	if s.generated >= s.totalFrames {
		return frames * s.channels, io.EOF
	}
	return frames * s.channels, nil
}
