package provider

import (
	"context"

	"github.com/Cyclone1070/rizz/internal/tool"
)

// Transport converts a conversation into either a final answer or a set of
// requested tool calls.
//
// Implementations own the wire protocol: raw tool arguments must be decoded
// into ToolCall.Args before Send returns. A payload that cannot be decoded is
// reported as *MalformedToolCallError, every other provider or network
// failure as *TransportError. Send never retries.
type Transport interface {
	Send(ctx context.Context, conversation []Message, tools []tool.Declaration) (*ChatResult, error)
}
