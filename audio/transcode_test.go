// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"testing"
)

// seekableSource wraps mockSource with Seeker and Lengther.
type seekableSource struct {
	*mockSource
	seeks int
}

func (s *seekableSource) SeekFrame(frame int64) error {
	s.seeks++
	s.generated = int(frame)
	return nil
}

func (s *seekableSource) Frames() int64 { return int64(s.totalSamples) }

// erroringSource fails after the first read.
type erroringSource struct {
	*mockSource
	reads int
}

func (s *erroringSource) ReadSamples(dst []float32) (int, error) {
	s.reads++
	if s.reads > 1 {
		return 0, io.ErrUnexpectedEOF
	}
	return s.mockSource.ReadSamples(dst[:s.channels])
}

func indexWaveform(sample, channel int) float32 {
	return float32(sample) + float32(channel)/10
}

func TestReadFrames_Full(t *testing.T) {
	t.Parallel()

	src := newMockSource(8000, 2, 100, indexWaveform)
	dst := make([]float32, 20)

	n, err := ReadFrames(src, dst)
	if err != nil {
		t.Fatalf("ReadFrames() error = %v", err)
	}
	if n != 10 {
		t.Errorf("ReadFrames() = %d frames, want 10", n)
	}
	if dst[18] != 9 || dst[19] != 9.1 {
		t.Errorf("last frame = [%v %v], want [9 9.1]", dst[18], dst[19])
	}
}

func TestReadFrames_ShortAtEOF(t *testing.T) {
	t.Parallel()

	src := newMockSource(8000, 2, 3, indexWaveform)
	dst := make([]float32, 20)

	n, err := ReadFrames(src, dst)
	if err != nil {
		t.Fatalf("ReadFrames() error = %v, EOF must be folded", err)
	}
	if n != 3 {
		t.Errorf("ReadFrames() = %d frames, want 3", n)
	}
}

func TestReadFrames_InvalidDst(t *testing.T) {
	t.Parallel()

	src := newSilentSource(8000, 2, 10)

	_, err := ReadFrames(src, make([]float32, 3))
	if !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("ReadFrames() error = %v, want ErrInvalidDstSize", err)
	}
}

func TestReadFrames_SourceError(t *testing.T) {
	t.Parallel()

	src := &erroringSource{mockSource: newSilentSource(8000, 1, 100)}

	n, err := ReadFrames(src, make([]float32, 10))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadFrames() error = %v, want io.ErrUnexpectedEOF", err)
	}
	if n != 1 {
		t.Errorf("ReadFrames() = %d frames before the error, want 1", n)
	}
}

func TestSeek_UsesSeeker(t *testing.T) {
	t.Parallel()

	src := &seekableSource{mockSource: newMockSource(8000, 1, 1000, indexWaveform)}

	if err := Seek(src, 700, make([]float32, 64)); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	if src.seeks != 1 {
		t.Errorf("SeekFrame called %d times, want 1", src.seeks)
	}

	dst := make([]float32, 1)
	if _, err := ReadFrames(src, dst); err != nil {
		t.Fatal(err)
	}
	if dst[0] != 700 {
		t.Errorf("first sample after seek = %v, want 700", dst[0])
	}
}

func TestSeek_FallsBackToSkip(t *testing.T) {
	t.Parallel()

	src := newMockSource(8000, 2, 1000, indexWaveform)

	if err := Seek(src, 513, make([]float32, 64)); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}

	dst := make([]float32, 2)
	if _, err := ReadFrames(src, dst); err != nil {
		t.Fatal(err)
	}
	if dst[0] != 513 || dst[1] != 513.1 {
		t.Errorf("frame after skip = %v, want [513 513.1]", dst)
	}
}

func TestSeek_Errors(t *testing.T) {
	t.Parallel()

	src := newSilentSource(8000, 1, 10)

	if err := Seek(src, -1, make([]float32, 8)); !errors.Is(err, ErrNegativeFrame) {
		t.Errorf("Seek(-1) error = %v, want ErrNegativeFrame", err)
	}

	if err := Seek(src, 20, make([]float32, 8)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Seek(past end) error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestLength(t *testing.T) {
	t.Parallel()

	t.Run("from container", func(t *testing.T) {
		t.Parallel()

		src := &seekableSource{mockSource: newSilentSource(8000, 2, 12345)}
		n, err := Length(src, make([]float32, 2))
		if err != nil || n != 12345 {
			t.Errorf("Length() = (%d, %v), want (12345, nil)", n, err)
		}
		if src.generated != 0 {
			t.Error("Length() decoded a source that knows its length")
		}
	})

	t.Run("by decoding", func(t *testing.T) {
		t.Parallel()

		src := newSilentSource(8000, 2, 12345)
		n, err := Length(src, make([]float32, 1000))
		if err != nil || n != 12345 {
			t.Errorf("Length() = (%d, %v), want (12345, nil)", n, err)
		}
	})
}

func TestDeinterleave(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
	}{
		{name: "mono", channels: 1},
		{name: "stereo", channels: 2},
		{name: "5.1", channels: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			const frames = 16
			src := make([]float32, frames*tt.channels)
			for f := range frames {
				for c := range tt.channels {
					src[f*tt.channels+c] = indexWaveform(f, c)
				}
			}

			dst := make([][]float64, tt.channels)
			for c := range dst {
				dst[c] = make([]float64, frames)
			}

			Deinterleave(src, tt.channels, frames, dst)

			for c := range tt.channels {
				for f := range frames {
					if want := float64(indexWaveform(f, c)); dst[c][f] != want {
						t.Fatalf("dst[%d][%d] = %v, want %v", c, f, dst[c][f], want)
					}
				}
			}
		})
	}
}

func TestDeinterleave_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	src := make([]float32, 1024)
	dst := [][]float64{make([]float64, 512), make([]float64, 512)}

	allocs := testing.AllocsPerRun(100, func() {
		Deinterleave(src, 2, 512, dst)
	})

	if allocs > 0 {
		t.Errorf("Deinterleave allocated %v times, want 0", allocs)
	}
}

func BenchmarkDeinterleave_Stereo(b *testing.B) {
	src := make([]float32, 1024)
	dst := [][]float64{make([]float64, 512), make([]float64, 512)}

	b.ReportAllocs()

	for b.Loop() {
		Deinterleave(src, 2, 512, dst)
	}
}
