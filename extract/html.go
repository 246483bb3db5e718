package extract

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/go-shiori/go-readability"
)

var _ Extractor = (*HTMLExtractor)(nil)

// HTMLExtractor extracts the readable article text from an HTML document.
type HTMLExtractor struct{}

// Extract runs readability extraction over the HTML content. The document
// has no real location, so relative links resolve against a placeholder.
func (HTMLExtractor) Extract(content []byte) (string, error) {
	pageURL, _ := url.Parse("https://localhost/")
	article, err := readability.FromReader(bytes.NewReader(content), pageURL)
	if err != nil {
		return "", fmt.Errorf("readability: %w", err)
	}
	return normalize(article.TextContent), nil
}
