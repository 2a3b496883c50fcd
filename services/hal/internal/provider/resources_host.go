//go:build !rp2040 && !rp2350

package provider

import "zacwire-go/services/hal/internal/core"

// NewResources on the host is a simulated line per pin.
func NewResources() core.ResourceRegistry { return NewSimRegistry() }
