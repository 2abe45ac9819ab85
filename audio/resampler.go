// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/samplecache/utils"
)

// Resampler converts a source to another sample rate with Catmull-Rom
// interpolation. The channel count is preserved. When downsampling, input
// frames go through a one-pole low-pass first.
type Resampler struct {
	src      Source
	rate     int
	channels int
	step     float64 // source frames per output frame

	// win[1] and win[2] bracket the output position, win[0] and win[3] are
	// the outer taps. The first and last frames are repeated at the edges.
	win  [4][]float32
	pos  int64   // source index of win[1]
	frac float64 // output position between win[1] and win[2]

	in     []float32
	read   int64 // real frames taken from src
	primed bool
	done   bool

	lowpass bool
	alpha   float32
	state   []float32
}

// NewResampler returns a Resampler producing rate Hz from src.
func NewResampler(src Source, rate int) (*Resampler, error) {
	if rate <= 0 || src.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: %d Hz to %d Hz", ErrInvalidRate, src.SampleRate(), rate)
	}

	channels := src.Channels()
	if channels <= 0 {
		return nil, ErrInvalidDstSize
	}

	r := &Resampler{
		src:      src,
		rate:     rate,
		channels: channels,
		step:     float64(src.SampleRate()) / float64(rate),
		in:       make([]float32, channels),
		state:    make([]float32, channels),
	}
	if r.step > 1 {
		r.lowpass = true
		r.alpha = 0.5
	}
	for i := range r.win {
		r.win[i] = make([]float32, channels)
	}

	return r, nil
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// next reads one frame into r.in. It reports false once src is exhausted.
func (r *Resampler) next() (bool, error) {
	if r.done {
		return false, nil
	}

	n, err := ReadFrames(r.src, r.in)
	if err != nil {
		return false, err
	}
	if n == 0 {
		r.done = true
		return false, nil
	}

	if r.lowpass {
		if r.read == 0 {
			copy(r.state, r.in)
		}
		for c, x := range r.in {
			y := r.alpha*x + (1-r.alpha)*r.state[c]
			r.in[c] = y
			r.state[c] = y
		}
	}
	r.read++

	return true, nil
}

// push shifts the window left by one frame.
func (r *Resampler) push() error {
	head := r.win[0]
	r.win[0], r.win[1], r.win[2] = r.win[1], r.win[2], r.win[3]
	r.win[3] = head

	ok, err := r.next()
	if err != nil {
		return err
	}
	if ok {
		copy(r.win[3], r.in)
	} else {
		copy(r.win[3], r.win[2])
	}

	return nil
}

func (r *Resampler) prime() error {
	ok, err := r.next()
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}

	for i := range r.win {
		copy(r.win[i], r.in)
	}
	for range 2 {
		if err := r.push(); err != nil {
			return err
		}
	}

	r.primed = true
	return nil
}

// ended reports whether the output position is past the last source frame.
func (r *Resampler) ended() bool {
	return r.done && float64(r.pos)+r.frac > float64(r.read-1)
}

// ReadSamples fills dst with interleaved frames at the target rate. len(dst)
// must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	for written < len(dst) && !r.ended() {
		x := float32(r.frac)
		for c := range r.channels {
			dst[written+c] = utils.CubicInterpolate(r.win[0][c], r.win[1][c], r.win[2][c], r.win[3][c], x)
		}
		written += r.channels

		r.frac += r.step
		for r.frac >= 1 {
			r.frac--
			r.pos++
			if err := r.push(); err != nil {
				return written, fmt.Errorf("%w", err)
			}
		}
	}

	if written == 0 {
		return 0, io.EOF
	}

	return written, nil
}
