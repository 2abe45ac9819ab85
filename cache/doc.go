// SPDX-License-Identifier: EPL-2.0

// Package cache holds decoded sample blocks in a direct-mapped table and
// tracks recently requested blocks.
//
// Each slot carries a tag naming the block it holds. The single writer bumps
// the slot sequence to odd, stores the payload and the tag, then bumps the
// sequence back to even. A reader trusts the payload only if the sequence is
// even and non-zero, the tag equals its own address, and the sequence did not
// move while it read. Anything else is a miss and reads as silence.
//
// Collisions are resolved by overwrite: the last block published into a slot
// wins and the previous tenant starts missing.
package cache
