//go:build rp2040 || rp2350

// zacwire-pico is the board firmware: it powers the TSic probe, serves the
// HAL on the bus and writes one telemetry line per reading to UART0.
package main

import (
	"context"
	"machine"
	"time"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"zacwire-go/bus"
	"zacwire-go/services/config"
	"zacwire-go/services/hal"
	"zacwire-go/services/telemetry"
	"zacwire-go/types"
)

const (
	deviceID    = "pico"
	consoleBaud = 115200
)

// uartWriter adapts the console UART to io.Writer.
type uartWriter struct{ u *uartx.UART }

func (w uartWriter) Write(p []byte) (int, error) { return w.u.Write(p) }

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[main] boot")

	for _, p := range hal.GroundPins() {
		pin := machine.Pin(p)
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		pin.Low()
	}

	console := uartx.UART0
	if err := console.Configure(uartx.UARTConfig{
		BaudRate: consoleBaud,
		TX:       machine.GP0,
		RX:       machine.GP1,
	}); err != nil {
		println("[main] uart0 configure failed:", err.Error())
	}

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, deviceID)

	b := bus.NewBus(4)
	halConn := b.NewConnection("hal")
	cfgConn := b.NewConnection("config")
	telConn := b.NewConnection("telemetry")

	go hal.Run(ctx, halConn, nil)

	tel := telemetry.New(uartWriter{u: console})
	if err := tel.Start(ctx, telConn); err != nil {
		println("[main] telemetry start failed:", err.Error())
	}

	boards := config.Boards{
		deviceID: {
			"hal":       hal.InitialConfig(),
			"telemetry": types.TelemetryConfig{Decimate: 1},
		},
	}
	if err := config.NewConfigService(boards).Start(ctx, cfgConn); err != nil {
		println("[main] config start failed:", err.Error())
	}

	state := cfgConn.Subscribe(hal.StateTopic())
	for m := range state.Channel() {
		if st, ok := m.Payload.(types.HALState); ok {
			println("[main] hal", st.Level, st.Status)
		}
	}
}
