// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and encoding.
//
// Decoding uses github.com/go-audio/wav for the RIFF chunk walk, so files with
// extra chunks before or after the data chunk are handled. Writing is a small
// 16-bit PCM encoder with no dependencies.
//
// # Supported Formats
//
// Currently supported:
//   - Integer PCM 8-bit (unsigned), 16, 24 and 32-bit
//   - WAVE_FORMAT_PCM and WAVE_FORMAT_EXTENSIBLE headers
//   - Any channel count and sample rate
//
// # Decoding WAV Files
//
// Use the Decoder to read WAV files:
//
//	decoder := wav.Decoder{}
//	file, _ := os.Open("audio.wav")
//	source, err := decoder.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	// Read samples
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// The decoder returns an audio.Source that provides samples as float32
// values in the range [-1.0, 1.0]. The source also implements audio.Lengther
// (frame count from the data chunk size) and audio.Seeker (a byte seek to the
// frame inside the data chunk), which is what block decoding relies on:
//
//	source.(audio.Seeker).SeekFrame(1024)
//
// # Writing WAV Files
//
// Use WriteWAV16 to create WAV files:
//
//	samples := []int16{100, -100, 200, -200}
//	file, _ := os.Create("output.wav")
//	err := wav.WriteWAV16(file, 8000, samples)
//
// The function writes a complete WAV file with proper headers. WritePCM16
// does the same for interleaved multi-channel samples.
//
// # Error Handling
//
// The package defines several error types:
//   - ErrNotWavFile: The input is not a valid WAV file
//   - ErrUnsupportedBitDepth: The sample width is not 8, 16, 24 or 32 bits
//   - ErrUnsupportedWavLayout: Not integer PCM (e.g. IEEE float)
//   - ErrUnsupportedWavChunks: No data chunk was found
//
// Example:
//
//	source, err := decoder.Decode(file)
//	if errors.Is(err, wav.ErrNotWavFile) {
//	    fmt.Println("Not a WAV file")
//	}
//
// # File Format
//
// WAV files consist of:
//   - RIFF header (12 bytes)
//   - fmt chunk (24 bytes): audio format, sample rate, channels, bit depth
//   - data chunk: actual audio samples
//
// The WriteWAV16 function handles all format details automatically.
package wav
