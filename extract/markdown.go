package extract

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var _ Extractor = (*MarkdownExtractor)(nil)

// MarkdownExtractor converts Markdown to plain text by walking the parsed
// AST. Heading text is kept on its own line so downstream enrichment can
// still discern the structural heading a chunk belongs to.
type MarkdownExtractor struct{}

// Extract parses the Markdown and collects its text content.
func (MarkdownExtractor) Extract(content []byte) (string, error) {
	gm := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := gm.Parser().Parse(text.NewReader(content))

	var out strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.ListItem, *ast.Blockquote:
			if out.Len() > 0 {
				out.WriteString("\n")
			}
		case *ast.Text:
			out.Write(node.Segment.Value(content))
			if node.SoftLineBreak() || node.HardLineBreak() {
				out.WriteString(" ")
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if out.Len() > 0 {
				out.WriteString("\n")
			}
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				out.Write(seg.Value(content))
			}
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			out.Write(node.URL(content))
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}
	return normalize(out.String()), nil
}
