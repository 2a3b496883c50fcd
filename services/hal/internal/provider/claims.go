package provider

import (
	"sync"

	"zacwire-go/errcode"
	"zacwire-go/services/hal/internal/core"
)

// captureTable tracks which device owns the capture source on each pin.
type captureTable struct {
	mu     sync.Mutex
	maxPin int
	owner  map[int]string
	src    map[int]core.CaptureSource
}

func newCaptureTable(maxPin int) captureTable {
	return captureTable{maxPin: maxPin, owner: map[int]string{}, src: map[int]core.CaptureSource{}}
}

// claim records devID as owner of pin and stores the source built by mk.
func (t *captureTable) claim(devID string, pin int, mk func() core.CaptureSource) (core.CaptureSource, error) {
	if pin < 0 || (t.maxPin > 0 && pin > t.maxPin) {
		return nil, errcode.UnknownPin
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, taken := t.owner[pin]; taken {
		return nil, errcode.PinInUse
	}
	s := mk()
	t.owner[pin] = devID
	t.src[pin] = s
	return s, nil
}

// release frees pin if devID owns it and returns the source it held.
func (t *captureTable) release(devID string, pin int) core.CaptureSource {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.owner[pin] != devID {
		return nil
	}
	s := t.src[pin]
	delete(t.owner, pin)
	delete(t.src, pin)
	return s
}

func (t *captureTable) lookup(pin int) (core.CaptureSource, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.src[pin], t.owner[pin]
}
