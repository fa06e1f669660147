package websearch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Cyclone1070/rizz/internal/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<html><body>
<div class="result results_links result--ad">
  <a class="result__a" href="https://ads.example.com">Sponsored GPU</a>
  <a class="result__snippet">Buy now</a>
</div>
<div class="result results_links">
  <h2 class="result__title">
    <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.amd.com%2Fryzen-9-7950x&amp;rut=abc">AMD Ryzen 9 7950X</a>
  </h2>
  <a class="result__snippet" href="#">16 cores, 32 threads,
    boost clock up to 5.7 GHz.</a>
</div>
<div class="result results_links">
  <h2 class="result__title"><a class="result__a" href="https://example.com/review">7950X <b>review</b></a></h2>
  <div class="result__snippet">Benchmarks and thermals.</div>
</div>
<div class="result results_links">
  <h2 class="result__title"><a class="result__a" href="https://example.com/third">Third</a></h2>
  <div class="result__snippet">Third body.</div>
</div>
</body></html>`

type searchServer struct {
	*httptest.Server
	query  url.Values
	method string
}

func newSearchServer(t *testing.T, status int, body string) *searchServer {
	t.Helper()
	s := &searchServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.method = r.Method
		_ = r.ParseForm()
		s.query = r.PostForm
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(s.Close)
	return s
}

func TestSearch_ParsesOrganicResults(t *testing.T) {
	srv := newSearchServer(t, http.StatusOK, resultsPage)
	s := NewSearcher(WithEndpoint(srv.URL))

	results, err := s.Search(context.Background(), "ryzen 7950x", 5)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, srv.method)
	assert.Equal(t, "ryzen 7950x", srv.query.Get("q"))
	require.Len(t, results, 3)
	assert.Equal(t, Result{
		Title: "AMD Ryzen 9 7950X",
		URL:   "https://www.amd.com/ryzen-9-7950x",
		Body:  "16 cores, 32 threads, boost clock up to 5.7 GHz.",
	}, results[0])
	assert.Equal(t, "7950X review", results[1].Title)
	assert.Equal(t, "https://example.com/review", results[1].URL)
}

func TestSearch_MaxResults_Truncates(t *testing.T) {
	srv := newSearchServer(t, http.StatusOK, resultsPage)
	s := NewSearcher(WithEndpoint(srv.URL))

	results, err := s.Search(context.Background(), "ryzen", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_ZeroMaxResults_UsesDefault(t *testing.T) {
	srv := newSearchServer(t, http.StatusOK, resultsPage)
	s := NewSearcher(WithEndpoint(srv.URL), WithMaxResults(1))

	results, err := s.Search(context.Background(), "ryzen", 0)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_NonOKStatus_ReturnsError(t *testing.T) {
	srv := newSearchServer(t, http.StatusAccepted, "slow down")
	s := NewSearcher(WithEndpoint(srv.URL))

	_, err := s.Search(context.Background(), "rtx 4090", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 202")
}

func TestSearch_EmptyQuery_ReturnsError(t *testing.T) {
	s := NewSearcher(WithEndpoint("http://127.0.0.1:0"))

	_, err := s.Search(context.Background(), "   ", 5)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearch_CancelledContext_ReturnsError(t *testing.T) {
	srv := newSearchServer(t, http.StatusOK, resultsPage)
	s := NewSearcher(WithEndpoint(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Search(ctx, "rtx 4090", 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormat_NumbersResults(t *testing.T) {
	out := Format([]Result{
		{Title: "A", URL: "https://a", Body: "first"},
		{Title: "B", URL: "https://b", Body: "second"},
	})

	assert.Equal(t, "1. A\n   URL: https://a\n   first\n\n2. B\n   URL: https://b\n   second\n", out)
}

func TestFormat_NoResults(t *testing.T) {
	assert.Equal(t, "No results found.", Format(nil))
}

func TestSpec_InvokesThroughRegistry(t *testing.T) {
	srv := newSearchServer(t, http.StatusOK, resultsPage)
	s := NewSearcher(WithEndpoint(srv.URL))

	reg, err := tool.NewRegistry(s.Spec())
	require.NoError(t, err)

	spec, err := reg.Resolve(Name)
	require.NoError(t, err)

	out, err := spec.Invoke(context.Background(), map[string]any{"query": "ryzen", "max_results": float64(1)})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "1. AMD Ryzen 9 7950X\n   URL: https://www.amd.com/ryzen-9-7950x\n"))
	assert.NotContains(t, out, "2. ")
}

func TestSpec_EmptyPage_ReportsNoResults(t *testing.T) {
	srv := newSearchServer(t, http.StatusOK, "<html><body></body></html>")
	s := NewSearcher(WithEndpoint(srv.URL))

	spec := s.Spec()
	out, err := spec.Invoke(context.Background(), map[string]any{"query": "nothing"})
	require.NoError(t, err)
	assert.Equal(t, "No results found.", out)
}

func TestSpec_MissingQuery_Fails(t *testing.T) {
	s := NewSearcher(WithEndpoint("http://127.0.0.1:0"))
	reg, err := tool.NewRegistry(s.Spec())
	require.NoError(t, err)
	spec, err := reg.Resolve(Name)
	require.NoError(t, err)

	_, err = spec.Invoke(context.Background(), map[string]any{})

	var execErr *tool.ToolExecutionError
	assert.ErrorAs(t, err, &execErr)
}

func TestUnwrapRedirect(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fa&rut=x", "https://example.com/a"},
		{"https://example.com/plain", "https://example.com/plain"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, unwrapRedirect(tt.in), tt.in)
	}
}
