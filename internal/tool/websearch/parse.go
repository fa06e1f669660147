package websearch

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// parseResults extracts organic results from a DuckDuckGo HTML page. Ads
// (inside a result--ad container) are skipped.
func parseResults(r io.Reader, limit int) ([]Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var results []Result
	var current *Result

	var walk func(n *html.Node, ad bool)
	walk = func(n *html.Node, ad bool) {
		if len(results) >= limit && current == nil {
			return
		}
		if n.Type == html.ElementNode {
			classes := classList(n)
			if classes["result--ad"] {
				ad = true
			}
			switch {
			case !ad && classes["result__a"]:
				flush(&results, current, limit)
				current = &Result{
					Title: collapse(textOf(n)),
					URL:   unwrapRedirect(attr(n, "href")),
				}
				return
			case !ad && classes["result__snippet"] && current != nil:
				current.Body = collapse(textOf(n))
				flush(&results, current, limit)
				current = nil
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, ad)
		}
	}
	walk(doc, false)
	flush(&results, current, limit)

	return results, nil
}

func flush(results *[]Result, r *Result, limit int) {
	if r == nil || r.Title == "" || len(*results) >= limit {
		return
	}
	for _, existing := range *results {
		if existing == *r {
			return
		}
	}
	*results = append(*results, *r)
}

func classList(n *html.Node) map[string]bool {
	classes := map[string]bool{}
	for _, c := range strings.Fields(attr(n, "class")) {
		classes[c] = true
	}
	return classes
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// unwrapRedirect turns //duckduckgo.com/l/?uddg=<target> links into the target.
func unwrapRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
