package ingest

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	b, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	if _, err := buf.ReadFrom(b); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	return strings.Join(strings.Fields(buf.String()), " "), nil
}

func extractMarkdown(path string) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return MarkdownText(source), nil
}

// MarkdownText returns the readable text of a Markdown document: one line per heading,
// paragraph, list item or code block, with markup removed.
func MarkdownText(source []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var blocks []string
	var current strings.Builder
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			blocks = append(blocks, s)
		}
		current.Reset()
	}

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
			if !entering {
				flush()
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := node.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					current.Write(seg.Value(source))
				}
				flush()
			}
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				current.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					current.WriteByte(' ')
				}
			}
		case *ast.String:
			if entering {
				current.Write(node.Value)
			}
		case *ast.AutoLink:
			if entering {
				current.Write(node.URL(source))
			}
		}
		return ast.WalkContinue, nil
	})
	flush()

	return strings.Join(blocks, "\n")
}
