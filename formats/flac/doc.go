// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC audio through github.com/gopxl/beep/v2/flac.
//
// Mono files are delivered as one channel. Stereo and wider files are
// delivered as two, since beep mixes to stereo pairs. Frames is taken from
// the STREAMINFO block.
//
// The returned source owns the reader: closing it closes the reader when
// the reader is an io.Closer.
package flac
