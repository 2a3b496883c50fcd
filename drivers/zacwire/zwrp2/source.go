//go:build rp2040 || rp2350

// Package zwrp2 captures ZACwire low pulses on RP2 pins with edge
// interrupts. The falling edge stamps the start of a low pulse and the rising
// edge reports its width in microseconds. A falling edge after a long high
// level is the end-of-frame signal for whatever was captured before it.
package zwrp2

import (
	"machine"
	"time"

	"zacwire-go/errcode"
)

// DefaultIdleGap is the high time that separates two transmissions. Bits
// inside a transmission keep the line high for well under a millisecond.
const DefaultIdleGap = 4 * time.Millisecond

type Source struct {
	pin     machine.Pin
	pulseCh int
	stopCh  int
	pulse   func(uint32)
	stop    func()
	gapUS   uint32

	epoch  time.Time
	fallUS uint32
	riseUS uint32
	low    bool
	bound  bool
}

// New returns a source that treats gap of high level as end of frame; zero
// selects DefaultIdleGap.
func New(gap time.Duration) *Source {
	if gap <= 0 {
		gap = DefaultIdleGap
	}
	return &Source{gapUS: uint32(gap / time.Microsecond), epoch: time.Now()}
}

func (s *Source) Configure(pin, pulseCh, stopCh int, pulse func(uint32), stop func()) error {
	if s.bound {
		return errcode.PinInUse
	}
	if pin < 0 || pin > 29 {
		return errcode.UnknownPin
	}
	if pulseCh == stopCh && pulseCh != 0 {
		return errcode.InvalidParams
	}
	s.pin = machine.Pin(pin)
	s.pin.Configure(machine.PinConfig{Mode: machine.PinInput})
	s.pulseCh, s.stopCh = pulseCh, stopCh
	s.pulse, s.stop = pulse, stop
	s.bound = true
	return nil
}

func (s *Source) Enable() error {
	s.low = !s.pin.Get()
	s.riseUS = s.now()
	return s.pin.SetInterrupt(machine.PinRising|machine.PinFalling, s.edge)
}

func (s *Source) Disable() error {
	return s.pin.SetInterrupt(0, nil)
}

func (s *Source) now() uint32 {
	return uint32(time.Since(s.epoch) / time.Microsecond)
}

// edge runs in interrupt context.
func (s *Source) edge(p machine.Pin) {
	t := s.now()
	if !p.Get() {
		if s.low {
			return
		}
		s.low = true
		if t-s.riseUS >= s.gapUS {
			s.stop()
		}
		s.fallUS = t
		return
	}
	if !s.low {
		return
	}
	s.low = false
	s.riseUS = t
	s.pulse(t - s.fallUS)
}
