package zacwire

import "zacwire-go/errcode"

// Escalation separates transient frame errors from a sustained fault. Each
// failure bumps the consecutive and lifetime counters; a success clears the
// consecutive counter. Reaching the limit latches a fault until Clear.
type Escalation struct {
	limit       int
	consecutive int
	failures    uint32
	kind        errcode.Code

	parity  uint32
	low     uint32
	high    uint32
	overrun uint32
}

// NewEscalation latches a fault after limit consecutive failures (min 1).
func NewEscalation(limit int) *Escalation {
	if limit < 1 {
		limit = 1
	}
	return &Escalation{limit: limit, kind: errcode.OK}
}

// Fail records one failed frame and reports whether this failure latched the
// fault. Range failures latch as themselves; parity, short and overrun frames
// latch as WrongParity.
func (e *Escalation) Fail(c errcode.Code) bool {
	e.consecutive++
	e.failures++
	switch c {
	case errcode.LowRange:
		e.low++
	case errcode.HighRange:
		e.high++
	case errcode.CaptureOverrun:
		e.overrun++
	default:
		e.parity++
	}
	if e.kind != errcode.OK || e.consecutive < e.limit {
		return false
	}
	if errcode.IsRange(c) {
		e.kind = c
	} else {
		e.kind = errcode.WrongParity
	}
	return true
}

// Succeed records a good frame.
func (e *Escalation) Succeed() {
	if e.kind == errcode.OK {
		e.consecutive = 0
	}
}

// Clear leaves the faulted state. Lifetime counters are kept.
func (e *Escalation) Clear() {
	e.kind = errcode.OK
	e.consecutive = 0
}

// Fault is the latched kind, or errcode.OK while running.
func (e *Escalation) Fault() errcode.Code { return e.kind }

func (e *Escalation) Consecutive() int { return e.consecutive }
func (e *Escalation) Failures() uint32 { return e.failures }
func (e *Escalation) Limit() int       { return e.limit }
