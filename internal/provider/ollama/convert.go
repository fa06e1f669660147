package ollama

import (
	"fmt"

	"github.com/Cyclone1070/rizz/internal/provider"
	"github.com/Cyclone1070/rizz/internal/tool"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/ollama/ollama/api"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// toMessages converts the conversation. Arguments go through JSON because the
// SDK argument type is not a plain map.
func toMessages(conversation []provider.Message) ([]api.Message, error) {
	out := make([]api.Message, 0, len(conversation))
	for _, m := range conversation {
		msg := api.Message{
			Role:    string(m.Role),
			Content: m.Content,
		}
		if m.Role == provider.RoleTool {
			msg.ToolCallID = m.ToolCallID
		}
		for _, tc := range m.ToolCalls {
			var args api.ToolCallFunctionArguments
			if err := roundTrip(tc.Args, &args); err != nil {
				return nil, err
			}
			msg.ToolCalls = append(msg.ToolCalls, api.ToolCall{
				ID: tc.ID,
				Function: api.ToolCallFunction{
					Name:      tc.Name,
					Arguments: args,
				},
			})
		}
		out = append(out, msg)
	}
	return out, nil
}

// toolEnvelope is the wire shape of an Ollama function tool.
type toolEnvelope struct {
	Type     string           `json:"type"`
	Function tool.Declaration `json:"function"`
}

func toTools(decls []tool.Declaration) ([]api.Tool, error) {
	if len(decls) == 0 {
		return nil, nil
	}
	envelopes := make([]toolEnvelope, 0, len(decls))
	for _, d := range decls {
		envelopes = append(envelopes, toolEnvelope{Type: "function", Function: d})
	}
	var tools []api.Tool
	if err := roundTrip(envelopes, &tools); err != nil {
		return nil, err
	}
	return tools, nil
}

func fromResponse(resp api.ChatResponse) (*provider.ChatResult, error) {
	var calls []provider.ToolCall
	for _, tc := range resp.Message.ToolCalls {
		id := tc.ID
		if id == "" {
			id = "call_" + uuid.NewString()
		}
		if tc.Function.Name == "" {
			return nil, &provider.MalformedToolCallError{CallID: id, Err: provider.ErrEmptyToolName}
		}
		args := map[string]any{}
		if err := roundTrip(tc.Function.Arguments, &args); err != nil {
			return nil, &provider.MalformedToolCallError{CallID: id, ToolName: tc.Function.Name, Raw: rawArguments(tc.Function.Arguments), Err: err}
		}
		if args == nil {
			args = map[string]any{}
		}
		calls = append(calls, provider.ToolCall{ID: id, Name: tc.Function.Name, Args: args})
	}

	res := provider.NewResult(resp.Message.Content, calls)
	res.Usage = provider.Usage{
		PromptTokens:     resp.PromptEvalCount,
		CompletionTokens: resp.EvalCount,
		TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
	}
	return res, nil
}

// rawArguments renders arguments for error reports, falling back to %v when
// they cannot be encoded.
func rawArguments(args any) string {
	raw, err := json.MarshalToString(args)
	if err != nil {
		return fmt.Sprint(args)
	}
	return raw
}

func roundTrip(in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
