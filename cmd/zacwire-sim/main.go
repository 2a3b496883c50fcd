//go:build !rp2040 && !rp2350

// zacwire-sim runs the firmware services on the host against a simulated
// sensor and prints telemetry lines on stdout. Pipe it into zwmon, or read
// it directly.
package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/chewxy/math32"
	"github.com/golang/glog"

	"zacwire-go/bus"
	"zacwire-go/drivers/zacwire/zwsim"
	"zacwire-go/services/config"
	"zacwire-go/services/hal"
	"zacwire-go/services/telemetry"
	"zacwire-go/types"
)

const deviceID = "sim"

func main() {
	period := flag.Duration("period", 100*time.Millisecond, "time between transmissions")
	base := flag.Float64("temp", 24, "mean temperature in °C")
	swing := flag.Float64("swing", 2, "amplitude of the slow temperature wave in °C")
	jitter := flag.Uint("jitter", 8, "pulse width jitter in µs")
	flipEvery := flag.Int("flip-every", 0, "corrupt one bit in every N transmissions, 0 never")
	decimate := flag.Int("decimate", 1, "write one line per N readings")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()
	defer glog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = context.WithValue(ctx, config.CtxDeviceKey, deviceID)

	b := bus.NewBus(8)
	halConn := b.NewConnection("hal")
	cfgConn := b.NewConnection("config")
	telConn := b.NewConnection("telemetry")
	simConn := b.NewConnection("sim")

	reg := hal.NewSimRegistry()
	state := simConn.Subscribe(hal.StateTopic())
	go hal.Run(ctx, halConn, reg)

	if err := telemetry.New(os.Stdout).Start(ctx, telConn); err != nil {
		glog.Exitf("telemetry: %v", err)
	}

	boards := config.Boards{
		deviceID: {
			"hal":       hal.InitialConfig(),
			"telemetry": types.TelemetryConfig{Decimate: *decimate},
		},
	}
	if err := config.NewConfigService(boards).Start(ctx, cfgConn); err != nil {
		glog.Exitf("config: %v", err)
	}

	if !waitReady(ctx, state) {
		return
	}
	simConn.Unsubscribe(state)

	pin := hal.InitialConfig().Devices[0].Params.(types.ZACwireParams).Pin
	src := reg.Source(pin)
	if src == nil {
		glog.Exitf("no simulated line claimed on pin %d", pin)
	}
	glog.Infof("simulating sensor on pin %d every %s", pin, *period)

	rng := rand.New(rand.NewSource(*seed))
	tick := time.NewTicker(*period)
	defer tick.Stop()
	start := time.Now()
	var n int
	for {
		select {
		case <-ctx.Done():
			glog.Info("stopping")
			return
		case now := <-tick.C:
			phase := float32(now.Sub(start).Seconds()) / 60 * 2 * math32.Pi
			c := float32(*base) + float32(*swing)*math32.Sin(phase)

			w := zwsim.Encode(zwsim.CodeFor(c), zwsim.DefaultTiming)
			zwsim.Jitter(w, rng, uint32(*jitter))
			n++
			if *flipEvery > 0 && n%*flipEvery == 0 {
				pos := rng.Intn(len(w))
				zwsim.FlipBit(w, pos, zwsim.DefaultTiming)
				glog.V(1).Infof("corrupted sample %d", pos)
			}
			src.Transmit(w)
		}
	}
}

func waitReady(ctx context.Context, sub *bus.Subscription) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case m := <-sub.Channel():
			st, ok := m.Payload.(types.HALState)
			if !ok {
				continue
			}
			glog.V(1).Infof("hal %s %s", st.Level, st.Status)
			if st.Level == "ready" {
				return true
			}
		}
	}
}
