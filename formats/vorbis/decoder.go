// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/ik5/samplecache/audio"
	"github.com/jfreymuth/oggvorbis"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
	SetPosition(pos int64) error
	Length() int64
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

// Frames is the stream length in samples per channel. oggvorbis reports zero
// when the input is not seekable, which is returned as unknown.
func (s *source) Frames() int64 {
	if l := s.dec.Length(); l > 0 {
		return l
	}
	return -1
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	// Whole frames only, so a short dst never splits a frame
	want := len(dst) / s.channels * s.channels
	if want == 0 {
		return 0, nil
	}

	// oggvorbis returns the number of interleaved values written
	n, err := s.dec.Read(dst[:want])
	if n == 0 && err != nil {
		return 0, err
	}

	return n, err
}

// SeekFrame moves the decoder to frame. Positions past the end are clamped.
func (s *source) SeekFrame(frame int64) error {
	if frame < 0 {
		return audio.ErrNegativeFrame
	}

	if l := s.dec.Length(); l > 0 {
		frame = min(frame, l)
	}

	if err := s.dec.SetPosition(frame); err != nil {
		return fmt.Errorf("seeking vorbis: %w", err)
	}

	return nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}, nil
}
