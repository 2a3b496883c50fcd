// Package telemetry writes every published temperature reading as one text
// line, the format the host monitor parses:
//
//	27.62,0
//	ERR,wrong_parity,3
package telemetry

import (
	"context"
	"io"

	"zacwire-go/bus"
	"zacwire-go/services/hal"
	"zacwire-go/types"
)

var topicConfigTelemetry = bus.T("config", "telemetry")

type Service struct {
	w   io.Writer
	buf []byte

	decimate int
	seen     int
	// last error count per capability, for ERR lines
	errCount map[string]int
}

func New(w io.Writer) *Service {
	return &Service{w: w, buf: make([]byte, 0, 48), decimate: 1, errCount: map[string]int{}}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigTelemetry)
	valSub := conn.Subscribe(hal.ValueTopic("+"))
	stSub := conn.Subscribe(hal.StatusTopic("+"))
	defer conn.Unsubscribe(cfgSub)
	defer conn.Unsubscribe(valSub)
	defer conn.Unsubscribe(stSub)

	// loop until context is cancelled, respond to readings and config changes
	for {
		select {
		case <-ctx.Done():
			println("[telemetry] stopping")
			return
		case msg := <-cfgSub.Channel():
			if c, ok := msg.Payload.(types.TelemetryConfig); ok {
				s.configure(c)
			}
		case msg := <-valSub.Channel():
			v, ok := msg.Payload.(types.TemperatureValue)
			if !ok {
				continue
			}
			name := capName(msg.Topic)
			s.errCount[name] = v.ErrorCount
			if s.admit() {
				s.write(AppendReading(s.buf[:0], v.MilliC, v.ErrorCount))
			}
		case msg := <-stSub.Channel():
			st, ok := msg.Payload.(types.CapabilityStatus)
			if !ok || st.Error == "" {
				continue
			}
			n, known := s.errCount[capName(msg.Topic)]
			if !known {
				n = -1
			}
			if s.admit() {
				s.write(AppendError(s.buf[:0], st.Error, n))
			}
		}
	}
}

func (s *Service) configure(c types.TelemetryConfig) {
	s.decimate = c.Decimate
	if s.decimate < 1 {
		s.decimate = 1
	}
	s.seen = 0
	println("[telemetry] decimate set to", s.decimate)
}

// admit applies decimation: one line in every s.decimate readings.
func (s *Service) admit() bool {
	s.seen++
	if s.seen < s.decimate {
		return false
	}
	s.seen = 0
	return true
}

func (s *Service) write(p []byte) {
	s.buf = p
	if _, err := s.w.Write(p); err != nil {
		println("[telemetry] write failed:", err.Error())
	}
}

// hal/capability/<kind>/<name>/...
func capName(t bus.Topic) string {
	if t.Len() < 4 {
		return ""
	}
	n, _ := t.At(3).(string)
	return n
}

// Start the telemetry service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}

// Run blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context, conn *bus.Connection) {
	s.serviceLoop(ctx, conn)
}
