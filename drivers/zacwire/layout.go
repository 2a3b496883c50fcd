package zacwire

import "zacwire-go/errcode"

// MaxSamples bounds the capture buffer. Frames are fixed-size arrays of this
// length so the interrupt path never allocates.
const MaxSamples = 32

// CodeBits is the width of a reconstructed sensor code.
const CodeBits = 11

// Layout places the strobe and the two parity-protected groups within a
// frame of Samples low-pulse widths. Group positions are listed MSB first.
type Layout struct {
	Samples    int
	Strobe     int
	High       []int
	HighParity int
	Low        []int
	LowParity  int
}

// DefaultLayout is the TSic transmission: two 10-pulse packets. Samples 1..5
// carry the always-zero top of the high byte and sample 10 is the second
// packet's strobe; neither is decoded.
var DefaultLayout = Layout{
	Samples:    20,
	Strobe:     0,
	High:       []int{6, 7, 8},
	HighParity: 9,
	Low:        []int{11, 12, 13, 14, 15, 16, 17, 18},
	LowParity:  19,
}

// Validate rejects layouts that do not fit the capture buffer or do not
// describe an 11-bit code.
func (l *Layout) Validate() error {
	if l.Samples < 2 || l.Samples > MaxSamples {
		return &errcode.E{C: errcode.InvalidParams, Op: "zacwire.layout", Msg: "samples out of range"}
	}
	if len(l.High)+len(l.Low) != CodeBits || len(l.Low) == 0 || len(l.High) == 0 {
		return &errcode.E{C: errcode.InvalidParams, Op: "zacwire.layout", Msg: "groups must total 11 bits"}
	}
	var seen uint64
	check := func(p int) bool {
		if p < 0 || p >= l.Samples || seen&(1<<uint(p)) != 0 {
			return false
		}
		seen |= 1 << uint(p)
		return true
	}
	ok := check(l.Strobe) && check(l.HighParity) && check(l.LowParity)
	for _, p := range l.High {
		ok = ok && check(p)
	}
	for _, p := range l.Low {
		ok = ok && check(p)
	}
	if !ok {
		return &errcode.E{C: errcode.InvalidParams, Op: "zacwire.layout", Msg: "position out of range or repeated"}
	}
	return nil
}
