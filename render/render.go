// Package render converts assistant-generated markdown into HTML safe
// to insert into markup. Raw HTML in model output is never trusted:
// goldmark escapes text content and omits embedded HTML, and a
// transformer strips images and neutralizes links outside the allowed
// schemes.
package render

import (
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// neutralizedHref replaces link destinations with disallowed schemes.
const neutralizedHref = "#"

var allowedSchemes = []string{"http://", "https://", "mailto:"}

// Renderer renders the allowed markdown subset to HTML.
type Renderer struct {
	md goldmark.Markdown
}

// New builds a renderer. Raw HTML pass-through stays disabled; only the
// structural subset goldmark produces from markdown reaches the output.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(&sanitizer{}, 100),
			),
		),
	)
	return &Renderer{md: md}
}

// HTML converts markdown to sanitized HTML. A parse failure degrades to
// the fully-escaped input rather than dropping the content.
func (r *Renderer) HTML(markdown string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "<p>" + html.EscapeString(markdown) + "</p>"
	}
	return buf.String()
}

// sanitizer strips images and rewrites link destinations whose scheme
// is not on the allow list.
type sanitizer struct{}

func (s *sanitizer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	var drop []ast.Node
	var rewrite []*ast.AutoLink

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Image:
			drop = append(drop, node)
			return ast.WalkSkipChildren, nil
		case *ast.Link:
			if !allowedDestination(string(node.Destination)) {
				node.Destination = []byte(neutralizedHref)
			}
		case *ast.AutoLink:
			if !allowedDestination(string(node.URL(source))) {
				rewrite = append(rewrite, node)
			}
		}
		return ast.WalkContinue, nil
	})

	for _, node := range drop {
		if parent := node.Parent(); parent != nil {
			parent.RemoveChild(parent, node)
		}
	}
	for _, node := range rewrite {
		if parent := node.Parent(); parent != nil {
			parent.ReplaceChild(parent, node, ast.NewString(node.Label(source)))
		}
	}
}

func allowedDestination(dest string) bool {
	lower := strings.ToLower(strings.TrimSpace(dest))
	for _, scheme := range allowedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}
