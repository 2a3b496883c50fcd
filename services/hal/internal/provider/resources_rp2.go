//go:build rp2040 || rp2350

package provider

import "zacwire-go/services/hal/internal/core"

// NewResources constructs the registry for the running board.
func NewResources() core.ResourceRegistry { return newRP2Registry() }
