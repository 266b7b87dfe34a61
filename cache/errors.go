// SPDX-License-Identifier: EPL-2.0

package cache

import "errors"

var (
	// ErrCacheUnavailable wraps any failure of the backing store. Callers are
	// expected to carry on without the cache.
	ErrCacheUnavailable = errors.New("waveform cache unavailable")

	// ErrCorruptEntry indicates a stored value could not be decoded.
	ErrCorruptEntry = errors.New("corrupt waveform cache entry")
)
