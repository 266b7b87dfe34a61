// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	// ErrUnsupportedFormat indicates the container or codec is not recognized.
	// Retrying the same file will not help.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrCorruptStream indicates decoding failed after the stream was opened.
	// Samples returned before the failure remain valid.
	ErrCorruptStream = errors.New("corrupt audio stream")

	// ErrIO indicates the file could not be accessed.
	ErrIO = errors.New("audio file access failed")
)
