package zacwire

import "zacwire-go/errcode"

// Bits holds one logical bit per sample position of a frame.
type Bits struct {
	v uint32
	n uint8
}

// Bit reports the bit at sample position i.
func (b Bits) Bit(i int) bool { return i >= 0 && i < int(b.n) && b.v&(1<<uint(i)) != 0 }

// Len is the number of sample positions covered.
func (b Bits) Len() int { return int(b.n) }

// DecodeBits compares every sample with the strobe width of the same frame.
// A low pulse shorter than the strobe is a 1. Frames that are short or were
// sealed early fail with CaptureOverrun.
func DecodeBits(f *Frame, l *Layout) (Bits, error) {
	if f.Partial || int(f.N) < l.Samples {
		return Bits{}, errcode.CaptureOverrun
	}
	theta := f.W[l.Strobe]
	b := Bits{n: uint8(l.Samples)}
	for i := 0; i < l.Samples; i++ {
		if i != l.Strobe && f.W[i] < theta {
			b.v |= 1 << uint(i)
		}
	}
	return b, nil
}

// CheckParity evaluates the even parity of both groups.
func CheckParity(b Bits, l *Layout) (highOK, lowOK bool) {
	return groupParity(b, l.High) == b.Bit(l.HighParity),
		groupParity(b, l.Low) == b.Bit(l.LowParity)
}

// groupParity is true when the group holds an odd number of ones.
func groupParity(b Bits, pos []int) bool {
	odd := false
	for _, p := range pos {
		if b.Bit(p) {
			odd = !odd
		}
	}
	return odd
}

// Assemble packs the high group above the low group, MSB first.
func Assemble(b Bits, l *Layout) RawCode {
	var c RawCode
	for _, p := range l.High {
		c <<= 1
		if b.Bit(p) {
			c |= 1
		}
	}
	for _, p := range l.Low {
		c <<= 1
		if b.Bit(p) {
			c |= 1
		}
	}
	return c
}

// Decode turns a sealed frame into a validated raw code. The returned error
// is a bare errcode.Code: CaptureOverrun, WrongParity, LowRange or HighRange.
func Decode(f *Frame, l *Layout) (RawCode, error) {
	b, err := DecodeBits(f, l)
	if err != nil {
		return 0, err
	}
	if hi, lo := CheckParity(b, l); !hi || !lo {
		return 0, errcode.WrongParity
	}
	c := Assemble(b, l)
	if err := c.Check(); err != nil {
		return 0, err
	}
	return c, nil
}
