// Package extract converts raw document files to plain text for chunking.
//
// The batch driver receives already-extracted text; this package serves the
// single-file CLI mode and any caller holding raw PDF, HTML, or Markdown
// bytes. All extractors return NFC-normalized text.
package extract

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Extractor converts raw content to plain text.
type Extractor interface {
	Extract(content []byte) (string, error)
}

// ContentType identifies the MIME type of content for extraction.
type ContentType string

const (
	TypePlainText ContentType = "text/plain"
	TypeHTML      ContentType = "text/html"
	TypeMarkdown  ContentType = "text/markdown"
	TypePDF       ContentType = "application/pdf"
)

// ContentTypeFromExtension maps file extensions to content types.
func ContentTypeFromExtension(ext string) ContentType {
	switch strings.ToLower(ext) {
	case "md", "markdown":
		return TypeMarkdown
	case "html", "htm":
		return TypeHTML
	case "pdf":
		return TypePDF
	default:
		return TypePlainText
	}
}

// ForContentType returns the extractor handling the given content type,
// defaulting to plain text.
func ForContentType(ct ContentType) Extractor {
	switch ct {
	case TypeHTML:
		return HTMLExtractor{}
	case TypeMarkdown:
		return MarkdownExtractor{}
	case TypePDF:
		return NewPDFExtractor()
	default:
		return PlainTextExtractor{}
	}
}

// PlainTextExtractor returns content as-is, normalized.
type PlainTextExtractor struct{}

func (PlainTextExtractor) Extract(content []byte) (string, error) {
	return normalize(string(content)), nil
}

// normalize trims and NFC-normalizes extracted text so the same characters
// always tokenize identically regardless of the source encoding form.
func normalize(text string) string {
	return strings.TrimSpace(norm.NFC.String(text))
}
