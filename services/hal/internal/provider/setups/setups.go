// Package setups holds the board wiring shipped with the firmware.
package setups

import "zacwire-go/types"

// Probe is a TSic sensor on GP16 with its ground on GP17, sampled at the
// sensor's native rate and smoothed over five frames.
var Probe = types.HALConfig{
	Devices: []types.HALDevice{
		{ID: "tsic0", Type: "zacwire", Params: types.ZACwireParams{
			Name:         "probe",
			Pin:          16,
			PulseChannel: 0,
			StopChannel:  1,
			Start:        true,
			Filter:       5,
			Timeout:      4,
			PollMS:       125,
		}},
	},
}

// GroundPins are driven low at boot to power the sensor's return path.
var GroundPins = []int{17}
