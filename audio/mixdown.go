// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// Mixdown averages every channel of a source into one.
type Mixdown struct {
	src Source
	tmp []float32
}

func NewMixdown(src Source) *Mixdown {
	return &Mixdown{src: src}
}

func (m *Mixdown) SampleRate() int { return m.src.SampleRate() }
func (m *Mixdown) Channels() int   { return 1 }
func (m *Mixdown) BufSize() int    { return m.src.BufSize() }

func (m *Mixdown) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// ReadSamples writes up to len(dst) mono samples. Only whole source frames
// are mixed, so a source that returns partial frames is read until the frame
// completes.
func (m *Mixdown) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.src.Channels()
	if channels == 1 {
		return m.src.ReadSamples(dst)
	}

	need := len(dst) * channels
	if cap(m.tmp) < need {
		m.tmp = make([]float32, need)
	}
	buf := m.tmp[:need]

	frames, err := ReadFrames(m.src, buf)
	if err != nil && frames == 0 {
		return 0, err
	}
	if frames == 0 {
		return 0, io.EOF
	}

	scale := 1 / float32(channels)
	for f := range frames {
		var sum float32
		for _, s := range buf[f*channels : (f+1)*channels] {
			sum += s
		}
		dst[f] = sum * scale
	}

	return frames, err
}
