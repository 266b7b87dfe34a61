// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio.
//
// Decoding is done by github.com/hajimehoshi/go-mp3, which always produces
// 16-bit stereo; mono files are duplicated onto both channels. Samples are
// delivered as float32 in [-1.0, 1.0].
//
//	file, _ := os.Open("audio.mp3")
//	source, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
// When the input can seek, go-mp3 scans the frame headers once so Frames
// is exact. Otherwise Frames reports 0 and progress has to be estimated by
// the caller.
//
// Inputs that do not start with a valid frame are reported as ErrNotMP3File.
package mp3
