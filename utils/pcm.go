// SPDX-License-Identifier: EPL-2.0

package utils

// FullScale returns the magnitude of the most negative value of a signed
// integer sample of bitDepth bits. Unknown depths are treated as 16-bit.
func FullScale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return 128.0
	case 16:
		return 32768.0
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 32768.0 // Default to 16-bit
	}
}

// IntToFloat32 scales a signed integer sample of bitDepth bits to [-1, 1).
func IntToFloat32(v int, bitDepth int) float32 {
	return float32(float64(v) / float64(FullScale(bitDepth)))
}

// Uint8ToFloat32 scales an unsigned 8-bit sample (WAV convention, 128 is
// silence) to [-1, 1).
func Uint8ToFloat32(v int) float32 {
	return float32(v-128) / 128.0
}
