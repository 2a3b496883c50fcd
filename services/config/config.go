// Package config publishes the board configuration as retained config/<name>
// documents and accepts replacements at runtime.
package config

import (
	"context"
	"errors"

	"zacwire-go/bus"
	"zacwire-go/errcode"
	"zacwire-go/types"
)

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key used for device ID
)

// Boards maps a device ID (placed in ctx under CtxDeviceKey) to its
// documents. Each entry becomes one retained config/<key> message.
type Boards map[string]map[string]any

type ConfigService struct {
	Name   string
	boards Boards
}

func NewConfigService(boards Boards) *ConfigService {
	return &ConfigService{Name: serviceName, boards: boards}
}

// Set topics: config/set/<key>. The reply is a types.ControlReply.
func setWildcard() bus.Topic { return bus.T(configPrefix, "set", "+") }

func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return errors.New("missing device ID in context")
	}
	docs, ok := s.boards[device]
	if !ok || len(docs) == 0 {
		return errors.New("no embedded config for device: " + device)
	}
	for k, v := range docs {
		conn.Publish(conn.NewMessage(bus.T(configPrefix, k), v, true))
	}
	return nil
}

func (s *ConfigService) serviceLoop(ctx context.Context, conn *bus.Connection, sub *bus.Subscription) {
	defer conn.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-sub.Channel():
			key, _ := m.Topic.At(2).(string)
			if err := validate(key, m.Payload); err != nil {
				conn.Reply(m, types.ControlReply{OK: false, Error: string(errcode.Of(err))}, false)
				continue
			}
			conn.Publish(conn.NewMessage(bus.T(configPrefix, key), m.Payload, true))
			conn.Reply(m, types.ControlReply{OK: true}, false)
		}
	}
}

// validate only checks documents with a known shape.
func validate(key string, v any) error {
	switch key {
	case "hal":
		if _, ok := v.(types.HALConfig); !ok {
			return errcode.InvalidParams
		}
	case "telemetry":
		if _, ok := v.(types.TelemetryConfig); !ok {
			return errcode.InvalidParams
		}
	case "":
		return errcode.InvalidParams
	}
	return nil
}

// Start publishes the board documents and serves config/set/<key>.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) error {
	sub := conn.Subscribe(setWildcard())
	if err := s.publishConfig(ctx, conn); err != nil {
		conn.Unsubscribe(sub)
		return err
	}
	go s.serviceLoop(ctx, conn, sub)
	return nil
}
