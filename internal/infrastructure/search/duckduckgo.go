package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/srijan008/MedGamma-Server/config"
	"github.com/srijan008/MedGamma-Server/internal/logging"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	endpoint  = "https://html.duckduckgo.com/html/"
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Result is one search hit.
type Result struct {
	Title string
	URL   string
	Body  string
}

// DuckDuckGo scrapes the DuckDuckGo HTML endpoint. News results are tried
// first so the deep fetch lands on an article rather than a homepage; plain
// results are the fallback. Every failure degrades to an empty string.
type DuckDuckGo struct {
	client       *http.Client
	maxResults   int
	maxPageChars int
}

func NewDuckDuckGo(cfg config.SearchConfig) *DuckDuckGo {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 3
	}
	maxPageChars := cfg.MaxPageChars
	if maxPageChars <= 0 {
		maxPageChars = 2000
	}
	return &DuckDuckGo{
		client:       &http.Client{Timeout: timeout},
		maxResults:   maxResults,
		maxPageChars: maxPageChars,
	}
}

// Search runs the query and formats highlights plus a deep dive into the top
// article the way the chat prompt expects.
func (d *DuckDuckGo) Search(ctx context.Context, query string) string {
	results, err := d.query(ctx, query+" news")
	if err != nil || len(results) == 0 {
		logging.L().Debug("no news results, falling back to text search", zap.String("query", query))
		results, err = d.query(ctx, query)
	}
	if err != nil {
		logging.L().Warn("web search failed", zap.Error(err))
		return ""
	}
	if len(results) == 0 {
		return ""
	}
	if len(results) > d.maxResults {
		results = results[:d.maxResults]
	}

	var out strings.Builder
	out.WriteString("**Search Highlights:**\n")
	for _, r := range results {
		fmt.Fprintf(&out, "- [%s](%s): %s\n", r.Title, r.URL, r.Body)
	}

	// Deep dive into the top result, falling back to the second.
	for i, r := range results {
		if i > 1 {
			break
		}
		content := d.FetchContent(ctx, r.URL)
		if content != "" {
			fmt.Fprintf(&out, "\n\n**Detailed Concept from Top Source (%s):**\n%s\n", r.Title, content)
			break
		}
	}
	return out.String()
}

func (d *DuckDuckGo) query(ctx context.Context, query string) ([]Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		endpoint+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}
	return parseResults(resp.Body), nil
}

// FetchContent downloads url and extracts paragraph text, capped at the
// configured length.
func (d *DuckDuckGo) FetchContent(ctx context.Context, pageURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		logging.L().Debug("page fetch failed", zap.String("url", pageURL), zap.Error(err))
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	return truncateAtRuneBoundary(ExtractParagraphText(resp.Body), d.maxPageChars)
}

// truncateAtRuneBoundary caps s at max bytes without splitting a UTF-8 rune.
func truncateAtRuneBoundary(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// parseResults walks the DuckDuckGo HTML response collecting result anchors
// (class result__a) and their snippets (class result__snippet).
func parseResults(r io.Reader) []Result {
	doc, err := html.Parse(r)
	if err != nil {
		return nil
	}
	var results []Result
	var current *Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result__a"):
				if current != nil {
					results = append(results, *current)
				}
				current = &Result{
					Title: nodeText(n),
					URL:   resolveDDGLink(attr(n, "href")),
				}
			case hasClass(n, "result__snippet"):
				if current != nil && current.Body == "" {
					current.Body = nodeText(n)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if current != nil {
		results = append(results, *current)
	}
	return results
}

// ExtractParagraphText collects the text of all <p> elements, whitespace
// collapsed.
func ExtractParagraphText(r io.Reader) string {
	doc, err := html.Parse(r)
	if err != nil {
		return ""
	}
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "p" {
			if t := nodeText(n); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(strings.Fields(strings.Join(parts, "\n")), " ")
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// resolveDDGLink unwraps DuckDuckGo's redirect links (//duckduckgo.com/l/?uddg=...)
// to the target URL.
func resolveDDGLink(href string) string {
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if strings.Contains(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}
	if u.Scheme == "" && strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return href
}
