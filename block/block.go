// SPDX-License-Identifier: EPL-2.0

package block

import "math/bits"

const (
	// FramesPerBlock is the number of consecutive frames of one channel held by a block.
	FramesPerBlock = 512

	// ChannelMax is the number of channels addressable by the 4-bit channel field.
	ChannelMax = 16

	// DefaultBlockMax is the default number of cache slots (≈64 MiB of float64 payload).
	DefaultBlockMax = 16384

	// IndexMax is one past the largest block index that fits in 60 bits.
	IndexMax = uint64(1) << 60

	channelBits = 4
	channelMask = ChannelMax - 1
)

// Address identifies one block: FramesPerBlock frames of one channel of one stream.
type Address struct {
	Stream  uint64
	Index   uint64 // 60 bits
	Channel uint8  // 4 bits
}

// Of returns the block holding frame of channel in stream.
func Of(stream uint64, frame uint64, channel int) Address {
	if debug && (channel < 0 || channel >= ChannelMax) {
		panic("block: channel out of range")
	}

	return Address{
		Stream:  stream,
		Index:   frame / FramesPerBlock,
		Channel: uint8(channel) & channelMask,
	}
}

// Offset is the position of frame inside its block.
func Offset(frame uint64) int {
	return int(frame % FramesPerBlock)
}

// Start is the first frame covered by the block.
func (a Address) Start() uint64 {
	return a.Index * FramesPerBlock
}

// Pack encodes the block index and channel into one word: index<<4 | channel.
// The stream id is kept as the second word of the tag.
func Pack(a Address) uint64 {
	return (a.Index&(IndexMax-1))<<channelBits | uint64(a.Channel&channelMask)
}

// Unpack reverses Pack for the given stream.
func Unpack(stream, packed uint64) Address {
	return Address{
		Stream:  stream,
		Index:   packed >> channelBits,
		Channel: uint8(packed & channelMask),
	}
}

// SlotIndex maps an address onto one of mask+1 slots. mask must be a power of two minus one.
//
// The mix is the splitmix64 finalizer applied to the stream id xor the rotated packed word.
func SlotIndex(a Address, mask uint64) uint64 {
	x := a.Stream ^ bits.RotateLeft64(Pack(a), 32)
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31

	return x & mask
}
