package zwsim

import (
	"sync"

	"zacwire-go/errcode"
)

// Source is a capture source fed from software. Emit and Stop invoke the
// bound handlers synchronously, the way the capture interrupts would.
type Source struct {
	mu         sync.Mutex
	pin        int
	pulseCh    int
	stopCh     int
	pulse      func(uint32)
	stop       func()
	configured bool
	enabled    bool

	// EnableErr, when set, is returned by Enable.
	EnableErr error
}

func New() *Source { return &Source{} }

func (s *Source) Configure(pin, pulseCh, stopCh int, pulse func(uint32), stop func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.configured {
		return errcode.PinInUse
	}
	if pulseCh == stopCh && pulseCh != 0 {
		return errcode.InvalidParams
	}
	s.pin, s.pulseCh, s.stopCh = pin, pulseCh, stopCh
	s.pulse, s.stop = pulse, stop
	s.configured = true
	return nil
}

func (s *Source) Enable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.EnableErr != nil {
		return s.EnableErr
	}
	s.enabled = true
	return nil
}

func (s *Source) Disable() error {
	s.mu.Lock()
	s.enabled = false
	s.mu.Unlock()
	return nil
}

// Enabled reports whether capture interrupts would fire.
func (s *Source) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Pin is the configured sensor pin.
func (s *Source) Pin() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pin
}

func (s *Source) handlers() (func(uint32), func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return nil, nil
	}
	return s.pulse, s.stop
}

// Emit delivers pulse widths. Nothing happens while disabled.
func (s *Source) Emit(widths ...uint32) {
	pulse, _ := s.handlers()
	if pulse == nil {
		return
	}
	for _, w := range widths {
		pulse(w)
	}
}

// Stop fires the end-of-frame channel.
func (s *Source) Stop() {
	if _, stop := s.handlers(); stop != nil {
		stop()
	}
}

// Transmit emits one transmission followed by the idle gap.
func (s *Source) Transmit(widths []uint32) {
	s.Emit(widths...)
	s.Stop()
}
