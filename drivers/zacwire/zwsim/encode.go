// Package zwsim synthesises ZACwire transmissions and provides a capture
// source driven from software. It backs host tests and the simulator.
package zwsim

import (
	"math/rand"

	"github.com/chewxy/math32"

	"zacwire-go/drivers/zacwire"
	"zacwire-go/x/mathx"
)

// Timing describes the sensor's bit period in capture ticks. A strobe holds
// the line low for half a period, a 1 for a quarter and a 0 for three
// quarters.
type Timing struct {
	Bit uint32
}

// DefaultTiming is a 125 µs bit period measured in microseconds.
var DefaultTiming = Timing{Bit: 125}

func (t Timing) bit() uint32 {
	if t.Bit < 4 {
		return DefaultTiming.Bit
	}
	return t.Bit
}

func (t Timing) Strobe() uint32 { return t.bit() / 2 }
func (t Timing) One() uint32    { return t.bit() / 4 }
func (t Timing) Zero() uint32   { return t.bit() * 3 / 4 }

func (t Timing) width(b bool) uint32 {
	if b {
		return t.One()
	}
	return t.Zero()
}

// Encode builds the widths of a valid transmission of code in the default
// layout.
func Encode(code zacwire.RawCode, t Timing) []uint32 {
	return EncodeLayout(code, &zacwire.DefaultLayout, t)
}

// EncodeLayout builds the widths of a valid transmission of code. Positions
// the layout does not use carry strobe-width pulses, which decode as 0.
func EncodeLayout(code zacwire.RawCode, l *zacwire.Layout, t Timing) []uint32 {
	w := make([]uint32, l.Samples)
	for i := range w {
		w[i] = t.Strobe()
	}
	shift := len(l.High) + len(l.Low)
	put := func(group []int, parity int) {
		odd := false
		for _, p := range group {
			shift--
			b := code>>uint(shift)&1 == 1
			odd = odd != b
			w[p] = t.width(b)
		}
		w[parity] = t.width(odd)
	}
	put(l.High, l.HighParity)
	put(l.Low, l.LowParity)
	return w
}

// FlipBit inverts the logical bit carried at sample position pos.
func FlipBit(w []uint32, pos int, t Timing) {
	if w[pos] < t.Strobe() {
		w[pos] = t.Zero()
	} else {
		w[pos] = t.One()
	}
}

// Jitter perturbs every width by up to ±amount ticks.
func Jitter(w []uint32, rng *rand.Rand, amount uint32) {
	if amount == 0 {
		return
	}
	for i := range w {
		d := int64(rng.Int63n(int64(2*amount+1))) - int64(amount)
		v := int64(w[i]) + d
		if v < 1 {
			v = 1
		}
		w[i] = uint32(v)
	}
}

// CodeFor returns the raw code nearest to celsius, saturating at the range
// sentinels.
func CodeFor(celsius float32) zacwire.RawCode {
	x := math32.Round((celsius - zacwire.OffsetC) / zacwire.SpanC * float32(zacwire.CodeMax))
	return zacwire.RawCode(mathx.Clamp(x, 0, float32(zacwire.CodeMax)))
}
