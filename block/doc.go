// SPDX-License-Identifier: EPL-2.0

// Package block maps (stream, frame, channel) coordinates onto fixed-size
// block addresses and cache slots.
//
// A block is FramesPerBlock consecutive frames of a single channel. Its
// address is the triple (stream id, block index, channel); the index and
// channel share one 64-bit word (index<<4 | channel) so a tag fits in two
// machine words:
//
//	a := block.Of(id, frame, ch)
//	slot := block.SlotIndex(a, mask)
//	off := block.Offset(frame)
//
// Every function here is pure integer arithmetic: no allocation, no loops,
// safe to call on the audio thread for every sample.
//
// Building with the samplecachedebug tag makes Of panic on an out-of-range
// channel instead of masking it.
package block
