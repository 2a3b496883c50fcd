package mathx

// CeilDiv returns ceil(a/b) for positive integers.
// For non-positive inputs, behaviour is implementation-defined; keep to positives for firmware maths.
func CeilDiv[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// RoundDiv returns floor((a + b/2)/b), classic rounding for positives.
func RoundDiv[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b/2) / b
}

// Scale maps x in [0, inMax] onto [0, outMax] with round-half-up, using
// 64-bit intermediates so firmware callers can feed raw sensor codes.
func Scale[T ~uint16 | ~uint32](x, inMax T, outMax uint32) uint32 {
	if inMax == 0 {
		return 0
	}
	if x > inMax {
		x = inMax
	}
	return uint32(RoundDiv(uint64(x)*uint64(outMax), uint64(inMax)))
}
