// Package websearch implements the web_search tool on top of the DuckDuckGo
// HTML endpoint.
package websearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Cyclone1070/rizz/internal/tool"
)

const (
	Name               = "web_search"
	DefaultEndpoint    = "https://html.duckduckgo.com/html/"
	DefaultMaxResults  = 5
	MaxResultsLimit    = 20
	userAgent          = "Mozilla/5.0 (X11; Linux x86_64) rizz/1.0"
	noResultsFound     = "No results found."
	maxResponseBytes   = 4 << 20
	defaultHTTPTimeout = 15 * time.Second
)

var ErrEmptyQuery = errors.New("query is empty")

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Result is one organic search hit.
type Result struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Body  string `json:"body"`
}

// Searcher queries the search endpoint.
type Searcher struct {
	client     HTTPDoer
	endpoint   string
	maxResults int
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithEndpoint overrides the search endpoint.
func WithEndpoint(endpoint string) Option {
	return func(s *Searcher) { s.endpoint = endpoint }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(s *Searcher) { s.client = client }
}

// WithMaxResults sets the number of results used when the model gives none.
func WithMaxResults(n int) Option {
	return func(s *Searcher) {
		if n > 0 && n <= MaxResultsLimit {
			s.maxResults = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) { s.logger = logger }
}

func NewSearcher(opts ...Option) *Searcher {
	s := &Searcher{
		client:     &http.Client{Timeout: defaultHTTPTimeout},
		endpoint:   DefaultEndpoint,
		maxResults: DefaultMaxResults,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns at most maxResults hits for query.
func (s *Searcher) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	s.logger.Debug("Searching the web", "query", query, "max_results", maxResults)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request failed: status %d", resp.StatusCode)
	}

	results, err := parseResults(io.LimitReader(resp.Body, maxResponseBytes), maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	s.logger.Info("Web search finished", "query", query, "results", len(results))
	return results, nil
}

// Request is the argument object of the web_search tool.
type Request struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrEmptyQuery
	}
	if r.MaxResults < 0 || r.MaxResults > MaxResultsLimit {
		return fmt.Errorf("max_results must be between 1 and %d", MaxResultsLimit)
	}
	return nil
}

// Spec returns the web_search tool backed by s.
func (s *Searcher) Spec() tool.Spec {
	return tool.NewTyped(Name,
		"Search the web for information. Use this to find CPU/GPU specifications, benchmarks, and performance data.",
		&tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"query": {
					Type:        tool.TypeString,
					Description: "The search query (e.g., 'AMD Ryzen 9 7950X specifications', 'RTX 4090 benchmarks')",
				},
				"max_results": {
					Type:        tool.TypeInteger,
					Description: fmt.Sprintf("Maximum number of results to return (default: %d)", s.maxResults),
					Default:     s.maxResults,
					Minimum:     tool.Float(1),
					Maximum:     tool.Float(MaxResultsLimit),
				},
			},
			Required: []string{"query"},
		},
		func(ctx context.Context, req Request) (string, error) {
			results, err := s.Search(ctx, req.Query, req.MaxResults)
			if err != nil {
				return "", err
			}
			return Format(results), nil
		},
	)
}

// Format renders results as the numbered text the model reads.
func Format(results []Result) string {
	if len(results) == 0 {
		return noResultsFound
	}

	blocks := make([]string, 0, len(results))
	for i, r := range results {
		blocks = append(blocks, fmt.Sprintf("%d. %s\n   URL: %s\n   %s\n", i+1, r.Title, r.URL, r.Body))
	}
	return strings.Join(blocks, "\n")
}
