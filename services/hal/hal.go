// Package hal owns the hardware: it builds devices from the retained
// config/hal document, polls their capabilities and publishes values and
// status under hal/capability/<kind>/<name>/...
package hal

import (
	"context"

	"zacwire-go/bus"
	"zacwire-go/services/hal/internal/core"
	"zacwire-go/services/hal/internal/provider"
	"zacwire-go/services/hal/internal/provider/setups"
	"zacwire-go/types"

	// device builders
	_ "zacwire-go/services/hal/devices/zacwire"
)

type (
	ResourceRegistry = core.ResourceRegistry
	SimRegistry      = provider.SimRegistry
)

// NewSimRegistry returns a registry of software sensor lines for hosts and
// tests.
func NewSimRegistry() *SimRegistry { return provider.NewSimRegistry() }

// Run serves the HAL on conn until ctx is cancelled. A nil reg selects the
// platform registry.
func Run(ctx context.Context, conn *bus.Connection, reg ResourceRegistry) {
	if reg == nil {
		reg = provider.NewResources()
	}
	core.NewHAL(conn, reg).Run(ctx)
}

// InitialConfig is the board setup the firmware publishes on config/hal.
func InitialConfig() types.HALConfig { return setups.Probe }

// GroundPins lists pins the board drives low to power the sensor.
func GroundPins() []int { return setups.GroundPins }

// ---- Topics ----

func ConfigTopic() bus.Topic { return core.ConfigTopic() }

func StateTopic() bus.Topic { return core.StateTopic() }

func InfoTopic(name string) bus.Topic { return core.InfoTopic(types.KindTemperature, name) }

func ValueTopic(name string) bus.Topic { return core.ValueTopic(types.KindTemperature, name) }

func StatusTopic(name string) bus.Topic { return core.StatusTopic(types.KindTemperature, name) }

func StatsTopic(name string) bus.Topic {
	return core.EventTopic(types.KindTemperature, name).Append("stats")
}

func ControlTopic(name, verb string) bus.Topic {
	return core.ControlTopic(types.KindTemperature, name, verb)
}
