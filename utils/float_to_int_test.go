// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input float32
		want  int16
	}{
		{name: "zero", input: 0, want: 0},
		{name: "full positive", input: 1, want: math.MaxInt16},
		{name: "full negative", input: -1, want: -math.MaxInt16},
		{name: "half", input: 0.5, want: 16383},
		{name: "negative half", input: -0.5, want: -16383},
		{name: "clamped high", input: 1.5, want: math.MaxInt16},
		{name: "clamped low", input: -7, want: -math.MaxInt16},
		{name: "below one step", input: 1.0 / 65536, want: 0},
		{name: "positive infinity", input: float32(math.Inf(1)), want: math.MaxInt16},
		{name: "negative infinity", input: float32(math.Inf(-1)), want: -math.MaxInt16},
	}

	for _, tt := range tests {
		if got := Float32ToInt16(tt.input); got != tt.want {
			t.Errorf("%s: Float32ToInt16(%v) = %d, want %d", tt.name, tt.input, got, tt.want)
		}
	}
}

// TestFloat32ToInt16_RoundTrip checks that decoding a 16-bit sample and
// encoding it again stays within one step.
func TestFloat32ToInt16_RoundTrip(t *testing.T) {
	t.Parallel()

	for v := -32768; v <= 32767; v += 7 {
		got := Float32ToInt16(IntToFloat32(v, 16))
		if d := int(got) - v; d < -1 || d > 1 {
			t.Fatalf("round trip of %d = %d", v, got)
		}
	}
}

func TestFloat32ToInt16_Monotonic(t *testing.T) {
	t.Parallel()

	prev := Float32ToInt16(-1)
	for i := 1; i <= 2000; i++ {
		x := float32(i)/1000 - 1
		got := Float32ToInt16(x)
		if got < prev {
			t.Fatalf("Float32ToInt16(%v) = %d < %d", x, got, prev)
		}
		prev = got
	}
}

func TestFloat32ToInt16_ZeroAllocs(t *testing.T) {
	allocs := testing.AllocsPerRun(1000, func() {
		_ = Float32ToInt16(0.5)
	})

	if allocs > 0 {
		t.Errorf("Float32ToInt16 allocated %v times, want 0", allocs)
	}
}

func TestAppendInt16(t *testing.T) {
	t.Parallel()

	src := []float32{0, 0.5, -0.5, 1, -1, 2}
	got := AppendInt16([]int16{7}, src)

	want := []int16{7, 16383, -16383, math.MaxInt16, -math.MaxInt16, math.MaxInt16}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestAppendInt16_ReusesCapacity(t *testing.T) {
	src := make([]float32, 1024)
	dst := make([]int16, 0, 1024)

	allocs := testing.AllocsPerRun(100, func() {
		dst = AppendInt16(dst[:0], src)
	})

	if allocs > 0 {
		t.Errorf("AppendInt16 allocated %v times with enough capacity, want 0", allocs)
	}
}

func BenchmarkAppendInt16(b *testing.B) {
	src := make([]float32, 4096)
	for i := range src {
		src[i] = float32(math.Sin(float64(i) / 10))
	}
	dst := make([]int16, 0, len(src))

	b.ReportAllocs()

	for b.Loop() {
		dst = AppendInt16(dst[:0], src)
	}
}
