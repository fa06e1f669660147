package openailm

import (
	"context"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ChatClient is the part of the SDK the transport uses. It is satisfied by
// *openai.ChatCompletionService and by test doubles.
type ChatClient interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Dial creates a chat completions client for an OpenAI-compatible endpoint.
// SDK retries are disabled: a failed request surfaces to the caller at once.
func Dial(apiKey, baseURL string, timeout time.Duration) ChatClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}

	client := openai.NewClient(opts...)
	return &client.Chat.Completions
}
