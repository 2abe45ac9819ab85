// SPDX-License-Identifier: EPL-2.0

// Package samplecache is a streaming sample cache for audio playback.
//
// It lets a real-time audio callback read decoded samples from any number of
// audio files without blocking, allocating or taking a lock, while a single
// background worker does the file I/O and decoding. Cache memory is fixed at
// construction and does not grow with the number or length of files.
//
// # Quick Start
//
//	m, err := samplecache.New(samplecache.Options{})
//	if err != nil {
//	    // Handle error
//	}
//	defer m.Close()
//
//	if err := m.Start(ctx); err != nil {
//	    // Handle error
//	}
//
//	id, err := m.RegisterOrGet("drums/loop.wav")
//	if err != nil {
//	    // ErrCapacityExceeded, ErrUnreadableSource, ...
//	}
//
//	// Ahead of the playback cursor, outside the audio callback
//	m.Prefetch(id, cursor+lookahead, 0)
//
//	// Inside the audio callback
//	v := m.Sample(id, cursor, 0)
//
// # Blocks
//
// Audio is cached in blocks of 512 frames of one channel (see package block).
// Every block maps to exactly one slot of a direct-mapped table (see package
// cache); two blocks sharing a slot evict each other, the last one decoded
// wins. A slot is never read unless its tag matches the block asked for, so a
// reader sees either the right samples or a miss.
//
// # Misses
//
// Sample on a block that is not resident returns 0 and queues a request for
// it, unless one is already outstanding. A miss costs one block of silence,
// never a wait. Callers should Prefetch far enough ahead of playback that
// misses do not happen in steady state.
//
// Requests go to the worker over a buffered channel with a non-blocking send.
// The send never waits for the worker, but it takes the channel's internal
// lock for a few instructions and, when the worker is parked, wakes it
// through the scheduler, which may cost a futex call on the miss path. Hits
// never touch the channel.
//
// Frames at or past the end of a stream, channels the stream does not have
// and unregistered streams return 0 and queue nothing.
//
// # Decoding
//
// The worker opens each file once and keeps up to Options.OpenFiles decoders
// open. One decode yields every channel of a block range, so prefetching
// channel 0 of a stereo file also makes channel 1 resident, unless the two
// map to the same slot, in which case the requested channel keeps it. A
// decoder that ends before the frame count its header promised fails the
// block. Decode failures are logged and counted in Stats; the slot keeps
// whatever it held before.
//
// Supported containers, selected by file extension:
//   - WAV (8, 16, 24 and 32-bit PCM) via formats/wav
//   - AIFF via formats/aiff
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//
// Streams may have at most 16 channels.
//
// # Reading back
//
// Reader wraps a frame range of a stream as an audio.Source that reads
// through Sample. It pairs with audio.Mixdown, audio.Resampler and
// audio.Render16 to render what the cache holds, for example to check a
// prefetch strategy offline.
//
// # Lifecycle
//
// New allocates everything. Start runs the worker, Stop waits for it to
// return and keeps queued requests for the next Start. Close stops the worker
// and closes every file; Sample and Prefetch keep working and return silence.
package samplecache
