// Package conv formats integers into caller buffers without fmt or strconv,
// for the MCU's hot paths.
package conv

// Itoa is Utoa for signed values; buf needs 20 bytes for any int64.
func Itoa(buf []byte, n int64) []byte {
	if n >= 0 {
		return Utoa(buf, uint64(n))
	}
	if len(buf) < 2 {
		return buf[:0]
	}
	// -n overflows for MinInt64; the uint64 conversion does not
	d := Utoa(buf[1:], uint64(-(n + 1))+1)
	start := len(buf) - len(d) - 1
	buf[start] = '-'
	return buf[start:]
}
