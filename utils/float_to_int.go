// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 converts a sample in [-1,1] to 16-bit PCM, clamping values
// outside that range.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 keeps +1 from overflowing
	return int16(x * 32767.0)
}

// AppendInt16 appends src converted with Float32ToInt16 to dst.
func AppendInt16(dst []int16, src []float32) []int16 {
	dst = grow(dst, len(src))
	for _, x := range src {
		dst = append(dst, Float32ToInt16(x))
	}
	return dst
}

func grow(s []int16, n int) []int16 {
	if cap(s)-len(s) >= n {
		return s
	}

	out := make([]int16, len(s), len(s)+max(n, cap(s)))
	copy(out, s)
	return out
}
