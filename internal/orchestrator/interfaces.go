package orchestrator

import (
	"context"

	"github.com/Cyclone1070/rizz/internal/provider"
)

// agent is the part of *loop.Loop the session drives.
type agent interface {
	Run(ctx context.Context, input string) (provider.Message, error)
	Reset()
}

// usageSource reports cumulative token usage, e.g. *provider.Metered.
type usageSource interface {
	Stats() provider.UsageStats
}
