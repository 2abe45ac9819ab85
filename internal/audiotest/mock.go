// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"
	"math"
)

// ErrInjected is returned by a MockSource after FailAfter frames.
var ErrInjected = errors.New("audiotest: injected read failure")

// MockSource is a test helper that generates audio data for testing.
// It implements audio.Source and audio.Lengther (without importing audio to
// avoid cycles). Wrap it in Seekable to add audio.Seeker.
type MockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // Total samples to generate (per channel)
	generated    int // Samples generated so far (per channel)
	waveform     func(sample int, channel int) float32

	// FailAfter makes ReadSamples fail once this many frames were produced.
	// Negative disables the failure.
	FailAfter int

	closed bool
}

// NewMockSource creates a new mock audio source.
// totalSamples is the total number of samples per channel to generate.
// waveform is a function that generates sample values given sample index and channel.
func NewMockSource(sampleRate, channels, totalSamples int, waveform func(sample int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
		FailAfter:    -1,
	}
}

// NewSineSource creates a mock source that generates a sine wave.
func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, channel int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewIndexSource creates a mock source whose values encode their position:
// frame f of channel c is Index(f, c). Useful to prove a block came from the
// right place.
func NewIndexSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, Index)
}

// Index is the value NewIndexSource produces for frame and channel. It is
// never zero, stays below 0.75 and is exact in float32; frames repeat every
// 16384.
func Index(frame, channel int) float32 {
	return float32(frame%16384)/32768 + float32(channel+1)/64
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Frames() int64   { return int64(m.totalSamples) }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Position is the next frame ReadSamples will produce.
func (m *MockSource) Position() int { return m.generated }

// Reset resets the generated sample counter to allow re-reading
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}
	if m.FailAfter >= 0 && m.generated >= m.FailAfter {
		return 0, ErrInjected
	}

	// Calculate how many frames we can write
	framesRequested := len(dst) / m.channels
	framesAvailable := m.totalSamples - m.generated
	if m.FailAfter >= 0 {
		framesAvailable = min(framesAvailable, m.FailAfter-m.generated)
	}
	framesToWrite := min(framesRequested, framesAvailable)

	// Generate samples
	for frame := range framesToWrite {
		sampleIndex := m.generated + frame
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(sampleIndex, ch)
		}
	}

	m.generated += framesToWrite
	samplesWritten := framesToWrite * m.channels

	if m.generated >= m.totalSamples {
		return samplesWritten, io.EOF
	}

	return samplesWritten, nil
}

// Seekable adds SeekFrame to a MockSource.
type Seekable struct {
	*MockSource

	// Seeks counts SeekFrame calls.
	Seeks int
}

// SeekFrame positions the source at frame, clamped to its length.
func (s *Seekable) SeekFrame(frame int64) error {
	if frame < 0 {
		return errors.New("audiotest: negative frame")
	}
	s.Seeks++
	s.generated = int(min(frame, int64(s.totalSamples)))
	return nil
}
