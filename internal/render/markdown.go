package render

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// MarkdownRenderer turns product descriptions into HTML. Raw HTML in the source is dropped
// since descriptions come from an external data file.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	return &MarkdownRenderer{md: md}
}

func (r *MarkdownRenderer) Render(src string) (template.HTML, error) {
	if src == "" {
		return "", nil
	}
	b := []byte(src)
	doc := r.md.Parser().Parse(text.NewReader(b))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, b, doc); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
