// SPDX-License-Identifier: EPL-2.0

package waveform

import "errors"

var (
	// ErrTrackNotFound indicates the metadata store does not know the track.
	ErrTrackNotFound = errors.New("track not found")

	// ErrClosed is returned by requests made after Close, and is the error
	// of runs interrupted by it.
	ErrClosed = errors.New("waveform generator closed")

	errUnsubscribed = errors.New("all subscribers left")
)
