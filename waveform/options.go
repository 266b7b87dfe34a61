// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultPublishEvery     = 32
	DefaultPublishInterval  = 100 * time.Millisecond
	DefaultBufferFrames     = 4096
	DefaultSubscriberBuffer = 16
	DefaultWorkers          = 4
)

type Option func(*Generator)

// WithPublishEvery publishes a partial event once n new peaks are ready.
func WithPublishEvery(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.publishEvery = n
		}
	}
}

// WithPublishInterval publishes a partial event once d has passed since the
// last one, provided new peaks are ready.
func WithPublishInterval(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.publishInterval = d
		}
	}
}

// WithBufferFrames sets how many frames a run decodes per read.
func WithBufferFrames(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.bufferFrames = n
		}
	}
}

// WithSubscriberBuffer sets each subscriber's mailbox size. When a mailbox
// is full the oldest pending event is dropped.
func WithSubscriberBuffer(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.subscriberBuffer = n
		}
	}
}

// WithWorkers bounds the runs Warm keeps in flight.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(g *Generator) {
		g.log = log.With().Str("component", "waveform").Logger()
	}
}
