package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
)

// ChatClient is the part of the Ollama API client the transport uses.
type ChatClient interface {
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

// Dial creates an API client for the Ollama server at host.
func Dial(host string, timeout time.Duration) (ChatClient, error) {
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	return api.NewClient(u, &http.Client{Timeout: timeout}), nil
}
