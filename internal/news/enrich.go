package news

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

const (
	enrichTimeout = 30 * time.Second
	maxWords      = 2000
)

// browserHeaders sets browser-like request headers so sites that check
// Accept or User-Agent don't reject the request.
func browserHeaders(r *http.Request) {
	r.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	r.Header.Set("User-Agent", "Mozilla/5.0 (compatible; NewsWire/1.0; +https://github.com/hoanghai1803/newswire)")
}

// Enricher fetches an article's full readable text for analysis, so the
// model sees more than the provider's truncated description.
type Enricher struct{}

// NewEnricher creates an Enricher.
func NewEnricher() *Enricher {
	return &Enricher{}
}

// FullText extracts the main readable text of the page at the given URL,
// truncated to a bounded word count.
func (e *Enricher) FullText(articleURL string) (string, error) {
	article, err := readability.FromURL(articleURL, enrichTimeout, browserHeaders)
	if err != nil {
		return "", fmt.Errorf("readability extraction: %w", err)
	}
	return truncateWords(article.TextContent, maxWords), nil
}

// truncateWords returns the first maxWords whitespace-delimited words from s.
func truncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ")
}
