// SPDX-License-Identifier: EPL-2.0

// Package audio defines the contracts between the sample cache and the
// format decoders, plus the sample transcoder.
//
// This package contains:
//   - Source interface for decoded audio input
//   - Seeker and Lengther capabilities for random access
//   - Format registry for decoder registration
//   - ReadFrames, Seek, Skip and Length helpers
//   - Deinterleave, the conversion into planar float64
//   - Mixdown, Resampler and Render16 for offline rendering
//
// # Source Interface
//
// The Source interface is the foundation of decoding:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders for containers that know their length and can jump to a frame
// also implement Lengther and Seeker. Sources that cannot seek are read
// forward and discarded by Seek, which is slow but correct.
//
// # Format Registry
//
// The registry maps a format key, the file extension without the dot, to a
// decoder:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, _ := registry.ForPath("/samples/kick.wav")
//
// # Sample Format
//
// Decoders produce interleaved float32 in [-1.0, 1.0]. The cache stores one
// plane per channel of float64; Deinterleave does the split and the widening:
//
//	frames, _ := audio.ReadFrames(src, interleaved)
//	audio.Deinterleave(interleaved, src.Channels(), frames, planes)
//
// # Rendering
//
// Sources chain. Mixdown averages channels into mono, Resampler changes the
// sample rate with Catmull-Rom interpolation and Render16 drains the result
// into 16-bit PCM:
//
//	mono := audio.NewMixdown(src)
//	r, err := audio.NewResampler(mono, 16000)
//	pcm, err := audio.Render16(r, 4096)
//
// None of these are meant for the audio callback, they allocate.
//
// # Error Handling
//
// Sources return io.EOF when no more data is available. ReadFrames folds the
// end of stream into a short count, so callers only see real failures.
package audio
