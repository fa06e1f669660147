package openailm

import (
	"github.com/Cyclone1070/rizz/internal/provider"
	"github.com/Cyclone1070/rizz/internal/tool"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// toMessages converts the conversation to chat completion messages.
func toMessages(conversation []provider.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(conversation))

	for _, msg := range conversation {
		switch msg.Role {
		case provider.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case provider.RoleUser:
			out = append(out, openai.UserMessage(msg.Content))
		case provider.RoleTool:
			out = append(out, openai.ToolMessage(msg.Content, msg.ToolCallID))
		case provider.RoleAssistant:
			if len(msg.ToolCalls) == 0 {
				out = append(out, openai.AssistantMessage(msg.Content))
				continue
			}
			assistant, err := toAssistantWithCalls(msg)
			if err != nil {
				return nil, err
			}
			out = append(out, assistant)
		}
	}

	return out, nil
}

func toAssistantWithCalls(msg provider.Message) (openai.ChatCompletionMessageParamUnion, error) {
	calls := make([]openai.ChatCompletionMessageToolCallUnionParam, 0, len(msg.ToolCalls))
	for _, tc := range msg.ToolCalls {
		args, err := json.Marshal(tc.Args)
		if err != nil {
			return openai.ChatCompletionMessageParamUnion{}, err
		}
		if tc.Args == nil {
			args = []byte("{}")
		}
		calls = append(calls, openai.ChatCompletionMessageToolCallUnionParam{
			OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
				ID: tc.ID,
				Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
					Name:      tc.Name,
					Arguments: string(args),
				},
			},
		})
	}

	assistant := &openai.ChatCompletionAssistantMessageParam{ToolCalls: calls}
	if msg.Content != "" {
		assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
			OfString: openai.String(msg.Content),
		}
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: assistant}, nil
}

// toTools converts declarations to function tools. Parameter schemas travel
// as plain JSON objects.
func toTools(decls []tool.Declaration) ([]openai.ChatCompletionToolUnionParam, error) {
	if len(decls) == 0 {
		return nil, nil
	}

	tools := make([]openai.ChatCompletionToolUnionParam, 0, len(decls))
	for _, d := range decls {
		def := shared.FunctionDefinitionParam{
			Name:        d.Name,
			Description: openai.String(d.Description),
		}
		if d.Parameters != nil {
			params, err := toParameters(d.Parameters)
			if err != nil {
				return nil, err
			}
			def.Parameters = params
		}
		tools = append(tools, openai.ChatCompletionFunctionTool(def))
	}
	return tools, nil
}

func toParameters(s *tool.Schema) (shared.FunctionParameters, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var params shared.FunctionParameters
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, err
	}
	return params, nil
}

// decodeArguments parses the raw argument string of a tool call. An empty
// string means no arguments.
func decodeArguments(callID, name, raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, &provider.MalformedToolCallError{CallID: callID, ToolName: name, Raw: raw, Err: err}
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// fromCompletion converts the first choice to a ChatResult.
func fromCompletion(resp *openai.ChatCompletion) (*provider.ChatResult, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return nil, &provider.TransportError{
			Code:       provider.ErrorCodeInvalidRequest,
			Message:    "no choices in response",
			Underlying: provider.ErrNoChoices,
		}
	}

	choice := resp.Choices[0]
	if choice.FinishReason == "content_filter" {
		return nil, &provider.TransportError{
			Code:       provider.ErrorCodeContentBlocked,
			Message:    "content blocked by safety filters",
			Underlying: provider.ErrContentBlocked,
		}
	}

	var calls []provider.ToolCall
	for _, tc := range choice.Message.ToolCalls {
		id := tc.ID
		if id == "" {
			id = "call_" + uuid.NewString()
		}
		if tc.Function.Name == "" {
			return nil, &provider.MalformedToolCallError{CallID: id, Raw: tc.Function.Arguments, Err: provider.ErrEmptyToolName}
		}
		args, err := decodeArguments(id, tc.Function.Name, tc.Function.Arguments)
		if err != nil {
			return nil, err
		}
		calls = append(calls, provider.ToolCall{ID: id, Name: tc.Function.Name, Args: args})
	}

	res := provider.NewResult(choice.Message.Content, calls)
	res.Usage = provider.Usage{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}
	return res, nil
}
