package core

import (
	"zacwire-go/bus"
	"zacwire-go/types"
)

func T(tokens ...any) bus.Topic { return bus.T(tokens...) }

func topicConfigHAL() bus.Topic { return T("config", "hal") }

func topicHALState() bus.Topic { return T("hal", "state") }

// hal/capability/<kind>/<name>/...
func capBase(kind types.Kind, name string) bus.Topic {
	return T("hal", "capability", string(kind), name)
}

func capInfo(kind types.Kind, name string) bus.Topic   { return capBase(kind, name).Append("info") }
func capStatus(kind types.Kind, name string) bus.Topic { return capBase(kind, name).Append("status") }
func capValue(kind types.Kind, name string) bus.Topic  { return capBase(kind, name).Append("value") }
func capEvent(kind types.Kind, name string) bus.Topic  { return capBase(kind, name).Append("event") }

// hal/capability/<kind>/<name>/control/<verb>
func capCtrl(kind types.Kind, name, verb string) bus.Topic {
	return capBase(kind, name).Append("control", verb)
}

// hal/capability/+/+/control/+
func ctrlWildcard() bus.Topic {
	return T("hal", "capability", "+", "+", "control", "+")
}

// Exported forms for services outside the HAL.

func ConfigTopic() bus.Topic { return topicConfigHAL() }

func StateTopic() bus.Topic { return topicHALState() }

func InfoTopic(kind types.Kind, name string) bus.Topic { return capInfo(kind, name) }

func StatusTopic(kind types.Kind, name string) bus.Topic { return capStatus(kind, name) }

func ValueTopic(kind types.Kind, name string) bus.Topic { return capValue(kind, name) }

func EventTopic(kind types.Kind, name string) bus.Topic { return capEvent(kind, name) }

func ControlTopic(kind types.Kind, name, verb string) bus.Topic { return capCtrl(kind, name, verb) }
