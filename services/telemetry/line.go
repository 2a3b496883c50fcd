package telemetry

import "zacwire-go/x/conv"

// AppendReading appends "<celsius>,<errorcount>\n" with two decimals.
func AppendReading(dst []byte, milliC int32, errCount int) []byte {
	var scratch [20]byte
	m := int64(milliC)
	neg := m < 0
	if neg {
		m = -m
	}
	centi := uint64(m+5) / 10
	if neg && centi != 0 {
		dst = append(dst, '-')
	}
	dst = append(dst, conv.Utoa(scratch[:], centi/100)...)
	dst = append(dst, '.')
	frac := centi % 100
	if frac < 10 {
		dst = append(dst, '0')
	}
	dst = append(dst, conv.Utoa(scratch[:], frac)...)
	dst = append(dst, ',')
	dst = append(dst, conv.Itoa(scratch[:], int64(errCount))...)
	return append(dst, '\n')
}

// AppendError appends "ERR,<code>,<errorcount>\n".
func AppendError(dst []byte, code string, errCount int) []byte {
	var scratch [20]byte
	dst = append(dst, "ERR,"...)
	dst = append(dst, code...)
	dst = append(dst, ',')
	dst = append(dst, conv.Itoa(scratch[:], int64(errCount))...)
	return append(dst, '\n')
}
