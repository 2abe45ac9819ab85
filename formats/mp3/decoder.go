// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/samplecache/audio"
)

// go-mp3 always decodes to interleaved 16-bit stereo
const (
	channels   = 2
	frameBytes = 4
)

// ErrNotSeekable is returned by SeekFrame when the underlying reader is not an
// io.Seeker, which also leaves the length unknown.
var ErrNotSeekable = errors.New("mp3 source is not seekable")

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	SampleRate() int
	Length() int64
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 } // return sample capacity, not bytes

// Frames is the decoded length, or -1 when the input could not be scanned.
func (s *source) Frames() int64 {
	l := s.dec.Length()
	if l < 0 {
		return -1
	}
	return l / frameBytes
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	// go-mp3 returns 16-bit little-endian PCM bytes (stereo interleaved)
	// Each sample is 2 bytes, so we need len(dst) * 2 bytes
	bytesNeeded := len(dst) * 2
	if cap(s.buf) < bytesNeeded {
		s.buf = make([]byte, bytesNeeded)
	}
	s.buf = s.buf[:bytesNeeded]

	n, err := s.dec.Read(s.buf)
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, nil
	}

	// Convert bytes to samples
	// Each sample is 2 bytes (int16 little-endian)
	samples := n / 2
	for i := range samples {
		low := uint16(s.buf[2*i])
		high := uint16(s.buf[2*i+1])
		val := int16(low | (high << 8))
		dst[i] = float32(val) / 32768.0
	}

	return samples, err
}

// SeekFrame moves the decoder to frame. Positions past the end are clamped.
func (s *source) SeekFrame(frame int64) error {
	if frame < 0 {
		return audio.ErrNegativeFrame
	}

	l := s.dec.Length()
	if l < 0 {
		return ErrNotSeekable
	}

	if _, err := s.dec.Seek(min(frame*frameBytes, l), io.SeekStart); err != nil {
		return fmt.Errorf("seeking mp3: %w", err)
	}

	return nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}, nil
}
