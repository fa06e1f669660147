package loop

import (
	"context"

	"github.com/Cyclone1070/rizz/internal/provider"
	"github.com/Cyclone1070/rizz/internal/tool"
)

// chatTransport communicates with an LLM.
type chatTransport interface {
	// Send sends the conversation and returns either a final answer or tool calls.
	Send(ctx context.Context, conversation []provider.Message, tools []tool.Declaration) (*provider.ChatResult, error)
}

// toolRegistry stores the tools the model may call.
type toolRegistry interface {
	// Declarations returns all tool schemas for the LLM, in registration order.
	Declarations() []tool.Declaration

	// Resolve returns the tool registered under name or *tool.UnknownToolError.
	Resolve(name string) (*tool.Spec, error)
}
