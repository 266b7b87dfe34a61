// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF (Audio Interchange File Format) files.
//
// This package uses github.com/go-audio/aiff. Uncompressed big-endian PCM at
// 8, 16, 24 and 32 bits is supported with any channel count. Samples are
// delivered as float32 normalized to [-1.0, 1.0].
//
//	file, _ := os.Open("audio.aif")
//	source, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
// Frames is read from the COMM chunk and is exact.
//
// # Errors
//
//   - ErrNotAiffFile: the input is not a FORM/AIFF container
//   - ErrUnsupportedBitDepth: the sample size cannot be unpacked
//   - ErrUnsupportedAiffLayout: the COMM chunk carries no channels
package aiff
