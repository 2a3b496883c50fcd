package zacwire

import (
	"zacwire-go/errcode"
	"zacwire-go/x/mathx"
)

// RawCode is the 11-bit sensor reading before scaling.
type RawCode uint16

// Scale constants of the linear map T = code/2047*70 - 10 (°C).
const (
	CodeMax   RawCode = 1<<CodeBits - 1 // 2047, also the high-range sentinel
	SpanC             = 70
	OffsetC           = -10
	spanMilli         = SpanC * 1000
)

// Check rejects the boundary codes, which the sensor uses to flag readings
// outside its range.
func (c RawCode) Check() error {
	switch {
	case c == 0:
		return errcode.LowRange
	case c >= CodeMax:
		return errcode.HighRange
	}
	return nil
}

// Celsius converts to degrees Celsius.
func (c RawCode) Celsius() float32 {
	return float32(c)/float32(CodeMax)*SpanC + OffsetC
}

// MilliCelsius converts with integer maths, rounding half up.
func (c RawCode) MilliCelsius() int32 {
	return int32(mathx.Scale(c, CodeMax, spanMilli)) + OffsetC*1000
}

// DeciCelsius converts to tenths of °C, rounding half up.
func (c RawCode) DeciCelsius() int16 {
	return int16(mathx.Scale(c, CodeMax, SpanC*10)) + OffsetC*10
}
