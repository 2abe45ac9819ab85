// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// ReadFrames fills dst (interleaved, len a multiple of channels) from src until
// it is full or the source ends. It returns the number of whole frames read.
// Reaching the end of the source is not an error.
func ReadFrames(src Source, dst []float32) (int, error) {
	channels := src.Channels()
	if channels <= 0 || len(dst)%channels != 0 {
		return 0, ErrInvalidDstSize
	}

	filled := 0
	for filled < len(dst) {
		n, err := src.ReadSamples(dst[filled:])
		filled += n

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return filled / channels, fmt.Errorf("%w", err)
		}
		if n == 0 {
			// A source with nothing more to give and no EOF would spin forever.
			break
		}
	}

	return filled / channels, nil
}

// Seek moves src to frame. Sources implementing Seeker jump directly; others
// are decoded forward into scratch and discarded, which only works from the
// start of the stream.
func Seek(src Source, frame int64, scratch []float32) error {
	if frame < 0 {
		return ErrNegativeFrame
	}

	if s, ok := src.(Seeker); ok {
		return s.SeekFrame(frame)
	}

	return Skip(src, frame, scratch)
}

// Skip decodes and discards frames from src.
func Skip(src Source, frames int64, scratch []float32) error {
	channels := src.Channels()
	if channels <= 0 {
		return ErrInvalidDstSize
	}

	chunk := int64(len(scratch) / channels)
	if chunk == 0 {
		return ErrInvalidDstSize
	}

	for frames > 0 {
		want := min(frames, chunk)
		n, err := ReadFrames(src, scratch[:want*int64(channels)])
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrUnexpectedEOF
		}
		frames -= int64(n)
	}

	return nil
}

// Length returns the frame count of src, from the container when the source
// knows it, otherwise by decoding the whole stream into scratch.
func Length(src Source, scratch []float32) (int64, error) {
	if l, ok := src.(Lengther); ok {
		if n := l.Frames(); n >= 0 {
			return n, nil
		}
	}

	channels := src.Channels()
	if channels <= 0 {
		return 0, ErrInvalidDstSize
	}

	buf := scratch[:len(scratch)/channels*channels]
	if len(buf) == 0 {
		return 0, ErrInvalidDstSize
	}

	var total int64
	for {
		n, err := ReadFrames(src, buf)
		if err != nil {
			return total, err
		}
		total += int64(n)
		if n*channels < len(buf) {
			return total, nil
		}
	}
}

// Deinterleave splits frames of interleaved samples into per-channel planes,
// widening to float64. dst must hold one slice per channel, each at least
// frames long; extra capacity is left untouched.
func Deinterleave(src []float32, channels, frames int, dst [][]float64) {
	// Unrolled loop for common cases
	switch channels {
	case 1:
		plane := dst[0]
		for f := range frames {
			plane[f] = float64(src[f])
		}
	case 2: // Stereo (most common)
		left, right := dst[0], dst[1]
		for f := range frames {
			idx := f << 1 // f * 2
			left[f] = float64(src[idx])
			right[f] = float64(src[idx+1])
		}
	default: // Generic path
		for f := range frames {
			base := f * channels
			for c := range channels {
				dst[c][f] = float64(src[base+c])
			}
		}
	}
}
