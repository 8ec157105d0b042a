package textproc

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExtractMarkdown flattens markdown to plain text so headings, lists and
// emphasis markers do not leak into embeddings. Block contents are joined
// with blank lines; fenced code is kept verbatim.
func ExtractMarkdown(markdown string) string {
	md := goldmark.New()
	reader := text.NewReader([]byte(markdown))
	doc := md.Parser().Parse(reader)

	var blocks []string
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.FencedCodeBlock:
			var code strings.Builder
			for i := 0; i < n.Lines().Len(); i++ {
				line := n.Lines().At(i)
				code.Write(line.Value(reader.Source()))
			}
			if txt := strings.TrimSpace(code.String()); txt != "" {
				blocks = append(blocks, txt)
			}
		default:
			if txt := extractText(node, reader.Source()); txt != "" {
				blocks = append(blocks, txt)
			}
		}
	}
	return strings.Join(blocks, "\n\n")
}

func extractText(n ast.Node, source []byte) string {
	var sb strings.Builder
	ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if node.Type() == ast.TypeBlock || node.Type() == ast.TypeInline {
			if node.Kind() == ast.KindText {
				sb.Write(node.(*ast.Text).Segment.Value(source))
				sb.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
