// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"math"
)

// mockSource generates totalSamples frames of a waveform.
type mockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // frames
	generated    int // frames produced so far
	waveform     func(sample, channel int) float32
}

func newMockSource(sampleRate, channels, totalSamples int, waveform func(sample, channel int) float32) *mockSource {
	return &mockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

func newSilentSource(sampleRate, channels, totalSamples int) *mockSource {
	return newConstantSource(sampleRate, channels, totalSamples, 0)
}

func newConstantSource(sampleRate, channels, totalSamples int, value float32) *mockSource {
	return newMockSource(sampleRate, channels, totalSamples, func(int, int) float32 { return value })
}

func newSineSource(sampleRate, channels, totalSamples int, frequency float64) *mockSource {
	return newMockSource(sampleRate, channels, totalSamples, func(sample, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * frequency * float64(sample) / float64(sampleRate)))
	})
}

func (m *mockSource) SampleRate() int { return m.sampleRate }
func (m *mockSource) Channels() int   { return m.channels }
func (m *mockSource) BufSize() int    { return 4096 }
func (m *mockSource) Close() error    { return nil }

// ReadSamples returns io.EOF together with the last frames.
func (m *mockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalSamples-m.generated)
	for f := range frames {
		for c := range m.channels {
			dst[f*m.channels+c] = m.waveform(m.generated+f, c)
		}
	}
	m.generated += frames

	if m.generated >= m.totalSamples {
		return frames * m.channels, io.EOF
	}
	return frames * m.channels, nil
}
