// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio.
//
// Decoding is done by github.com/jfreymuth/oggvorbis, a pure Go decoder.
// Vorbis decodes to floating point natively, so samples are passed through
// without conversion and may briefly exceed [-1.0, 1.0] on hot masters.
//
//	file, _ := os.Open("audio.ogg")
//	source, err := vorbis.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
// Frames comes from the granule position of the last page, which is only
// known when the input can seek.
package vorbis
