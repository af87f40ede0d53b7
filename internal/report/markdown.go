package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs discovery reports in Markdown format for
// documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the discovery report in Markdown format.
func (w *MarkdownWriter) Write(discovery *Discovery) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Site Discovery Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Start URL", "`" + discovery.StartURL + "`"},
			{"Platform", discovery.Platform},
			{"Generated", discovery.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Pages Found", strconv.Itoa(len(discovery.Pages))},
		},
	})
	md.PlainText("")

	md.H2("Pages")
	md.PlainText("")

	rows := make([][]string, 0, len(discovery.Pages))
	for _, page := range discovery.Pages {
		rows = append(rows, []string{page.Title, "`" + page.URL + "`", "`" + page.Path + "`"})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Title", "URL", "Local Path"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}
