// SPDX-License-Identifier: EPL-2.0

package block

import (
	"testing"
)

func TestOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		frame   uint64
		channel int
		want    Address
	}{
		{name: "first frame", frame: 0, channel: 0, want: Address{Stream: 7, Index: 0, Channel: 0}},
		{name: "last frame of first block", frame: 511, channel: 1, want: Address{Stream: 7, Index: 0, Channel: 1}},
		{name: "first frame of second block", frame: 512, channel: 1, want: Address{Stream: 7, Index: 1, Channel: 1}},
		{name: "deep frame", frame: 176399, channel: 15, want: Address{Stream: 7, Index: 344, Channel: 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Of(7, tt.frame, tt.channel)
			if got != tt.want {
				t.Errorf("Of(7, %d, %d) = %+v, want %+v", tt.frame, tt.channel, got, tt.want)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	t.Parallel()

	for _, frame := range []uint64{0, 1, 511, 512, 513, 176400} {
		if got, want := Offset(frame), int(frame%FramesPerBlock); got != want {
			t.Errorf("Offset(%d) = %d, want %d", frame, got, want)
		}
	}
}

func TestAddress_Start(t *testing.T) {
	t.Parallel()

	a := Of(1, 1500, 0)
	if a.Start() != 1024 {
		t.Errorf("Start() = %d, want 1024", a.Start())
	}
}

func TestPackUnpack(t *testing.T) {
	t.Parallel()

	addrs := []Address{
		{Stream: 0, Index: 0, Channel: 0},
		{Stream: 42, Index: 1, Channel: 3},
		{Stream: ^uint64(0), Index: IndexMax - 1, Channel: ChannelMax - 1},
	}

	for _, a := range addrs {
		got := Unpack(a.Stream, Pack(a))
		if got != a {
			t.Errorf("Unpack(Pack(%+v)) = %+v", a, got)
		}
	}
}

func TestPack_Layout(t *testing.T) {
	t.Parallel()

	got := Pack(Address{Index: 3, Channel: 5})
	if got != 3<<4|5 {
		t.Errorf("Pack() = %#x, want %#x", got, 3<<4|5)
	}
}

func TestSlotIndex_Deterministic(t *testing.T) {
	t.Parallel()

	const mask = DefaultBlockMax - 1

	for stream := uint64(1); stream < 50; stream++ {
		for frame := uint64(0); frame < 100000; frame += 4099 {
			for ch := range 4 {
				a1 := Of(stream, frame, ch)
				a2 := Of(stream, frame, ch)
				if a1 != a2 {
					t.Fatalf("Of not deterministic: %+v != %+v", a1, a2)
				}

				s1, s2 := SlotIndex(a1, mask), SlotIndex(a2, mask)
				if s1 != s2 {
					t.Fatalf("SlotIndex not deterministic for %+v: %d != %d", a1, s1, s2)
				}
				if s1 > mask {
					t.Fatalf("SlotIndex(%+v) = %d, out of range", a1, s1)
				}
			}
		}
	}
}

// TestSlotIndex_Distribution checks consecutive blocks of one stream spread
// across the table instead of piling into a few slots.
func TestSlotIndex_Distribution(t *testing.T) {
	t.Parallel()

	const slots = 1024
	counts := make([]int, slots)

	for i := range uint64(slots * 8) {
		counts[SlotIndex(Address{Stream: 0x9e3779b97f4a7c15, Index: i}, slots-1)]++
	}

	used := 0
	for _, c := range counts {
		if c > 0 {
			used++
		}
	}

	if used < slots*9/10 {
		t.Errorf("only %d of %d slots used", used, slots)
	}
}

func TestSlotIndex_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	allocs := testing.AllocsPerRun(1000, func() {
		_ = SlotIndex(Of(99, 123456, 1), DefaultBlockMax-1)
	})

	if allocs > 0 {
		t.Errorf("SlotIndex allocated %v times, want 0", allocs)
	}
}

func BenchmarkSlotIndex(b *testing.B) {
	var sink uint64

	b.ReportAllocs()

	for i := range b.N {
		sink = SlotIndex(Of(99, uint64(i), i&1), DefaultBlockMax-1)
	}

	_ = sink
}
