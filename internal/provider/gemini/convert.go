package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Cyclone1070/rizz/internal/provider"
	"github.com/Cyclone1070/rizz/internal/tool"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

const (
	roleUser  = "user"
	roleModel = "model"
)

// toGeminiContents splits the conversation into the system instruction and
// the turn contents. Consecutive tool messages become one user content so
// every function response of a turn travels together.
func toGeminiContents(conversation []provider.Message) (*genai.Content, []*genai.Content) {
	var systemParts []*genai.Part
	contents := make([]*genai.Content, 0, len(conversation))

	for _, msg := range conversation {
		switch msg.Role {
		case provider.RoleSystem:
			if msg.Content != "" {
				systemParts = append(systemParts, genai.NewPartFromText(msg.Content))
			}

		case provider.RoleTool:
			part := &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       msg.ToolCallID,
					Name:     msg.Name,
					Response: map[string]any{"content": msg.Content},
				},
			}
			if last := lastContent(contents); last != nil && isFunctionResponses(last) {
				last.Parts = append(last.Parts, part)
				continue
			}
			contents = append(contents, &genai.Content{Role: roleUser, Parts: []*genai.Part{part}})

		case provider.RoleAssistant:
			parts := make([]*genai.Part, 0, len(msg.ToolCalls)+1)
			if msg.Content != "" {
				parts = append(parts, genai.NewPartFromText(msg.Content))
			}
			for _, tc := range msg.ToolCalls {
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						ID:   tc.ID,
						Name: tc.Name,
						Args: tc.Args,
					},
				})
			}
			if len(parts) > 0 {
				contents = append(contents, &genai.Content{Role: roleModel, Parts: parts})
			}

		default:
			if msg.Content != "" {
				contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
			}
		}
	}

	var system *genai.Content
	if len(systemParts) > 0 {
		system = &genai.Content{Parts: systemParts}
	}
	return system, contents
}

func lastContent(contents []*genai.Content) *genai.Content {
	if len(contents) == 0 {
		return nil
	}
	return contents[len(contents)-1]
}

func isFunctionResponses(c *genai.Content) bool {
	if c.Role != roleUser || len(c.Parts) == 0 {
		return false
	}
	for _, p := range c.Parts {
		if p.FunctionResponse == nil {
			return false
		}
	}
	return true
}

// toGeminiConfig builds the request config.
func toGeminiConfig(opts Options, system *genai.Content, tools []tool.Declaration) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		SystemInstruction: system,
		SafetySettings:    defaultSafetySettings(),
		Tools:             toGeminiTools(tools),
	}

	temperature := opts.Temperature
	config.Temperature = &temperature
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	return config
}

// defaultSafetySettings returns safety settings with BLOCK_NONE for all categories.
func defaultSafetySettings() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{
			Category:  genai.HarmCategoryHateSpeech,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategoryDangerousContent,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategoryHarassment,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategorySexuallyExplicit,
			Threshold: genai.HarmBlockThresholdOff,
		},
	}
}

// toGeminiTools converts declarations to a single Gemini tool.
func toGeminiTools(decls []tool.Declaration) []*genai.Tool {
	if len(decls) == 0 {
		return nil
	}

	fds := make([]*genai.FunctionDeclaration, 0, len(decls))
	for _, d := range decls {
		fd := &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
		}
		if d.Parameters != nil {
			fd.Parameters = toGeminiSchema(d.Parameters)
		}
		fds = append(fds, fd)
	}

	return []*genai.Tool{{FunctionDeclarations: fds}}
}

// toGeminiSchema converts a parameter schema, recursing into properties and items.
func toGeminiSchema(s *tool.Schema) *genai.Schema {
	schema := &genai.Schema{
		Type:        toGeminiType(s.Type),
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
		Default:     s.Default,
		Minimum:     s.Minimum,
		Maximum:     s.Maximum,
	}

	if len(s.Properties) > 0 {
		schema.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			schema.Properties[name] = toGeminiSchema(prop)
		}
	}
	if s.Items != nil {
		schema.Items = toGeminiSchema(s.Items)
	}

	return schema
}

// toGeminiType converts a schema type to Gemini Type.
func toGeminiType(t tool.Type) genai.Type {
	switch t {
	case tool.TypeString:
		return genai.TypeString
	case tool.TypeNumber:
		return genai.TypeNumber
	case tool.TypeInteger:
		return genai.TypeInteger
	case tool.TypeBoolean:
		return genai.TypeBoolean
	case tool.TypeArray:
		return genai.TypeArray
	case tool.TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

// fromGeminiResponse converts the first candidate to a ChatResult.
func fromGeminiResponse(resp *genai.GenerateContentResponse) (*provider.ChatResult, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, &provider.TransportError{
				Code:       provider.ErrorCodeContentBlocked,
				Message:    fmt.Sprintf("prompt blocked: %s", resp.PromptFeedback.BlockReason),
				Underlying: provider.ErrContentBlocked,
			}
		}
		return nil, &provider.TransportError{
			Code:       provider.ErrorCodeInvalidRequest,
			Message:    "no candidates in response",
			Underlying: provider.ErrNoChoices,
		}
	}

	candidate := resp.Candidates[0]

	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, &provider.TransportError{
			Code:       provider.ErrorCodeContentBlocked,
			Message:    "content blocked by safety filters",
			Underlying: provider.ErrContentBlocked,
		}
	}

	var text strings.Builder
	var calls []provider.ToolCall
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" && !part.Thought {
				text.WriteString(part.Text)
			}
			if part.FunctionCall == nil {
				continue
			}
			call, err := toToolCall(part.FunctionCall)
			if err != nil {
				return nil, err
			}
			calls = append(calls, call)
		}
	}

	res := provider.NewResult(text.String(), calls)
	res.Usage = toUsage(resp.UsageMetadata)
	return res, nil
}

func toToolCall(fc *genai.FunctionCall) (provider.ToolCall, error) {
	id := fc.ID
	if id == "" {
		id = "call_" + uuid.NewString()
	}
	if fc.Name == "" {
		return provider.ToolCall{}, &provider.MalformedToolCallError{CallID: id, Err: provider.ErrEmptyToolName}
	}
	args := fc.Args
	if args == nil {
		args = map[string]any{}
	}
	return provider.ToolCall{ID: id, Name: fc.Name, Args: args}, nil
}

func toUsage(usage *genai.GenerateContentResponseUsageMetadata) provider.Usage {
	if usage == nil {
		return provider.Usage{}
	}
	return provider.Usage{
		PromptTokens:     int(usage.PromptTokenCount),
		CompletionTokens: int(usage.CandidatesTokenCount),
		TotalTokens:      int(usage.TotalTokenCount),
	}
}

func isTruncated(resp *genai.GenerateContentResponse) bool {
	return len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonMaxTokens
}

// mapGeminiError maps Gemini API errors to transport errors.
func mapGeminiError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &provider.TransportError{
			Code:       provider.ErrorCodeTimeout,
			Message:    "request timed out",
			Underlying: err,
			Retryable:  true,
		}
	}

	apiErr, ok := asAPIError(err)
	if !ok {
		return &provider.TransportError{
			Code:       provider.ErrorCodeNetwork,
			Message:    "network error",
			Underlying: err,
			Retryable:  true,
		}
	}

	switch apiErr.Code {
	case 401, 403:
		return &provider.TransportError{
			Code:       provider.ErrorCodeAuth,
			Message:    "authentication failed",
			Underlying: err,
		}
	case 429:
		return &provider.TransportError{
			Code:       provider.ErrorCodeRateLimit,
			Message:    "rate limit exceeded",
			Underlying: err,
			Retryable:  true,
			RetryAfter: parseRetryAfter(apiErr),
		}
	case 400:
		code := provider.ErrorCodeInvalidRequest
		if strings.Contains(strings.ToLower(apiErr.Message), "token") {
			code = provider.ErrorCodeContextLength
		}
		return &provider.TransportError{
			Code:       code,
			Message:    fmt.Sprintf("invalid request: %s", apiErr.Message),
			Underlying: err,
		}
	case 500, 502, 503, 504:
		return &provider.TransportError{
			Code:       provider.ErrorCodeUnavailable,
			Message:    "service unavailable",
			Underlying: err,
			Retryable:  true,
		}
	default:
		return &provider.TransportError{
			Code:       provider.ErrorCodeUnknown,
			Message:    fmt.Sprintf("API error: %s", apiErr.Message),
			Underlying: err,
		}
	}
}

// asAPIError finds the SDK error in the chain. The SDK has returned it both
// by value and by pointer.
func asAPIError(err error) (*genai.APIError, bool) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch v := any(e).(type) {
		case *genai.APIError:
			return v, v != nil
		case genai.APIError:
			return &v, true
		}
	}
	return nil, false
}

// parseRetryAfter reads the retryDelay of a google.rpc.RetryInfo detail.
func parseRetryAfter(apiErr *genai.APIError) *time.Duration {
	for _, detail := range apiErr.Details {
		if t, _ := detail["@type"].(string); !strings.HasSuffix(t, "google.rpc.RetryInfo") {
			continue
		}
		delay, _ := detail["retryDelay"].(string)
		if d, err := time.ParseDuration(delay); err == nil {
			return &d
		}
	}
	return nil
}
