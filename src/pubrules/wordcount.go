package pubrules

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New()

/*
The canonical word count for an article body. Markup is stripped by parsing
the body as markdown and collecting only text content, then splitting on
whitespace.

Every place that shows or gates on a word count must go through this function.
If a preview counted words one way and the approve gate counted them another,
an article could look ready and still fail at the gate.
*/
func WordCount(body string) int {
	return len(strings.Fields(ExtractText(body)))
}

// Parses markup and returns only its human-readable text content.
func ExtractText(body string) string {
	source := []byte(body)
	doc := md.Parser().Parse(text.NewReader(source))

	var b strings.Builder
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(source))
			b.WriteString(" ")
		case *ast.String:
			b.Write(node.Value)
			b.WriteString(" ")
		case *ast.CodeBlock:
			writeLines(&b, node.Lines(), source)
		case *ast.FencedCodeBlock:
			writeLines(&b, node.Lines(), source)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

func writeLines(b *strings.Builder, lines *text.Segments, source []byte) {
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(source))
		b.WriteString(" ")
	}
}
