package zacwire

import "sync/atomic"

const fresh = 1 << 2

// Handoff moves sealed frames from interrupt context to the decode task. It
// is a single-slot queue over three buffers: the producer fills its spare
// buffer and swaps it into the pending slot; the consumer swaps the pending
// slot out for its own. A pending frame that was never taken is replaced by
// the next one, so decode always sees the newest frame and older ones are
// dropped.
type Handoff struct {
	bufs  [3]Frame
	back  uint32 // producer-owned index
	front uint32 // consumer-owned index
	mid   atomic.Uint32

	wake chan struct{}

	published  atomic.Uint32
	superseded atomic.Uint32
}

func NewHandoff() *Handoff {
	h := &Handoff{back: 0, front: 1, wake: make(chan struct{}, 1)}
	h.mid.Store(2)
	return h
}

// Publish copies f into the pending slot and requests a decode. It never
// blocks and never allocates.
func (h *Handoff) Publish(f *Frame) {
	h.bufs[h.back] = *f
	old := h.mid.Swap(h.back | fresh)
	h.back = old &^ fresh
	if old&fresh != 0 {
		h.superseded.Add(1)
	}
	h.published.Add(1)
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// Take returns the newest unconsumed frame. The frame stays valid and
// unchanged until the next Take.
func (h *Handoff) Take() (*Frame, bool) {
	if h.mid.Load()&fresh == 0 {
		return nil, false
	}
	old := h.mid.Swap(h.front)
	h.front = old &^ fresh
	return &h.bufs[h.front], true
}

// Wake receives a token after each publication. Tokens coalesce.
func (h *Handoff) Wake() <-chan struct{} { return h.wake }

// Published counts frames handed off since construction.
func (h *Handoff) Published() uint32 { return h.published.Load() }

// Superseded counts frames replaced before the decode task took them.
func (h *Handoff) Superseded() uint32 { return h.superseded.Load() }
