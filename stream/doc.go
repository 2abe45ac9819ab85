// SPDX-License-Identifier: EPL-2.0

// Package stream maps audio file paths to stable stream identifiers and holds
// the per-stream metadata the cache needs to address blocks.
//
// An ID is the xxhash of the absolute, cleaned path, so it is stable for the
// life of a process and across processes. Two distinct paths hashing to the
// same ID are rejected with ErrIDCollision rather than silently sharing cache
// blocks.
//
// The Registry has a fixed capacity chosen at construction, typically the
// number of files the application is willing to keep open. Streams are never
// removed. Registering an already known path returns its ID without probing
// the file again:
//
//	reg := stream.NewRegistry(256, prober)
//	id, err := reg.RegisterOrGet("drums/kick.wav")
//	if errors.Is(err, stream.ErrCapacityExceeded) {
//	    // refuse to open another file
//	}
//	md, _ := reg.Lookup(id)
//	fmt.Println(md.SampleRate, md.Channels, md.Frames)
package stream
