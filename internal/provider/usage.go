package provider

import (
	"context"
	"sync"

	"github.com/Cyclone1070/rizz/internal/tool"
)

// UsageStats is the cumulative accounting of a Metered transport.
type UsageStats struct {
	Requests         int
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Metered wraps a Transport and accumulates token usage of successful calls.
// Stats may be read from another goroutine while Send runs.
type Metered struct {
	next  Transport
	mu    sync.Mutex
	stats UsageStats
}

// NewMetered wraps next.
func NewMetered(next Transport) *Metered {
	return &Metered{next: next}
}

// Send forwards to the wrapped transport and records the reported usage.
func (m *Metered) Send(ctx context.Context, conversation []Message, tools []tool.Declaration) (*ChatResult, error) {
	res, err := m.next.Send(ctx, conversation, tools)
	if err != nil || res == nil {
		return res, err
	}

	m.mu.Lock()
	m.stats.Requests++
	m.stats.PromptTokens += res.Usage.PromptTokens
	m.stats.CompletionTokens += res.Usage.CompletionTokens
	m.stats.TotalTokens += res.Usage.TotalTokens
	m.mu.Unlock()

	return res, nil
}

// Stats returns a snapshot of the accumulated usage.
func (m *Metered) Stats() UsageStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}
