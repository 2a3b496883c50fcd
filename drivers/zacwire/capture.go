package zacwire

import "sync/atomic"

// Frame is one sensor transmission as measured by the capture channel:
// low-pulse widths in capture ticks, in arrival order.
type Frame struct {
	W [MaxSamples]uint32
	N uint8
	// Partial is set when the end-of-frame channel sealed the frame before
	// the expected sample count was reached.
	Partial bool
}

// Samples returns the captured widths.
func (f *Frame) Samples() []uint32 { return f.W[:f.N] }

// CaptureState is the pulse capture state.
type CaptureState uint32

const (
	Idle CaptureState = iota
	Capturing
)

func (s CaptureState) String() string {
	if s == Capturing {
		return "capturing"
	}
	return "idle"
}

// Capture accumulates pulse widths into the active frame. OnPulse and OnStop
// run in interrupt context: they only write into the pre-allocated frame and
// signal the hand-off.
type Capture struct {
	cur   Frame
	limit uint8
	out   *Handoff
	state atomic.Uint32
}

// NewCapture seals a frame every samples pulses (1..MaxSamples) into out.
func NewCapture(samples int, out *Handoff) *Capture {
	if samples < 1 || samples > MaxSamples {
		samples = MaxSamples
	}
	return &Capture{limit: uint8(samples), out: out}
}

// OnPulse records one low-pulse width.
func (c *Capture) OnPulse(width uint32) {
	if CaptureState(c.state.Load()) == Idle {
		c.cur.N = 0
		c.cur.Partial = false
		c.state.Store(uint32(Capturing))
	}
	c.cur.W[c.cur.N] = width
	c.cur.N++
	if c.cur.N >= c.limit {
		c.seal()
	}
}

// OnStop is the end-of-frame signal (long high level on the line). A frame in
// progress is sealed as partial; in Idle it is a no-op.
func (c *Capture) OnStop() {
	if CaptureState(c.state.Load()) != Capturing {
		return
	}
	c.cur.Partial = true
	c.seal()
}

// Reset drops any frame in progress. Call with the source disabled.
func (c *Capture) Reset() {
	c.cur.N = 0
	c.cur.Partial = false
	c.state.Store(uint32(Idle))
}

// State reports the current capture state.
func (c *Capture) State() CaptureState { return CaptureState(c.state.Load()) }

func (c *Capture) seal() {
	c.out.Publish(&c.cur)
	c.cur.N = 0
	c.state.Store(uint32(Idle))
}
