package search

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serpPage = `<html><body>
<div class="result results_links results_links_deep web-result">
  <h2 class="result__title">
    <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fflu-season&amp;rut=abc">Flu season peaks early</a>
  </h2>
  <a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fflu-season">Cases are rising across the region this winter.</a>
</div>
<div class="result results_links results_links_deep web-result">
  <h2 class="result__title">
    <a rel="nofollow" class="result__a" href="https://example.org/vaccines">Vaccine guidance updated</a>
  </h2>
  <a class="result__snippet" href="https://example.org/vaccines">New recommendations for the current strain.</a>
</div>
</body></html>`

func TestParseResults(t *testing.T) {
	results := parseResults(strings.NewReader(serpPage))
	require.Len(t, results, 2)

	assert.Equal(t, "Flu season peaks early", results[0].Title)
	assert.Equal(t, "https://example.com/flu-season", results[0].URL)
	assert.Equal(t, "Cases are rising across the region this winter.", results[0].Body)

	assert.Equal(t, "Vaccine guidance updated", results[1].Title)
	assert.Equal(t, "https://example.org/vaccines", results[1].URL)
	assert.Equal(t, "New recommendations for the current strain.", results[1].Body)
}

func TestParseResults_EmptyPage(t *testing.T) {
	assert.Empty(t, parseResults(strings.NewReader("<html><body>no results</body></html>")))
}

func TestExtractParagraphText(t *testing.T) {
	page := `<html><body>
<nav>menu items</nav>
<p>  First   paragraph
with broken    spacing. </p>
<div><p>Second <b>bold</b> paragraph.</p></div>
<script>ignored()</script>
</body></html>`

	got := ExtractParagraphText(strings.NewReader(page))
	assert.Equal(t, "First paragraph with broken spacing. Second bold paragraph.", got)
	assert.NotContains(t, got, "menu items")
	assert.NotContains(t, got, "ignored")
}

func TestResolveDDGLink(t *testing.T) {
	tests := []struct {
		name string
		href string
		want string
	}{
		{"empty", "", ""},
		{"direct", "https://example.com/page", "https://example.com/page"},
		{"redirect", "//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Farticle&rut=x", "https://example.com/article"},
		{"protocol relative", "//example.com/page", "https://example.com/page"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveDDGLink(tt.href))
		})
	}
}

func TestTruncateAtRuneBoundary(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"under cap", "hello", 10, "hello"},
		{"exact cap", "hello", 5, "hello"},
		{"ascii cut", "hello world", 5, "hello"},
		{"multibyte kept whole", "abc你好", 6, "abc你"},
		{"cut inside rune", "abc你好", 5, "abc"},
		{"cut inside emoji", "ab🚑cd", 4, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateAtRuneBoundary(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
