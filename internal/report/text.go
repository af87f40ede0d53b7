package report

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// TextWriter outputs discovery reports as a plain table for terminal
// display. This is the default format of the discover command.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the discovery report as an aligned text table.
func (w *TextWriter) Write(discovery *Discovery) (int, error) {
	counter := &countingWriter{w: w.output}

	fmt.Fprintf(counter, "Discovered %d pages on %s\n\n", len(discovery.Pages), discovery.StartURL)

	tw := tabwriter.NewWriter(counter, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tURL\tLOCAL PATH")
	for _, page := range discovery.Pages {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", page.Title, page.URL, page.Path)
	}
	if err := tw.Flush(); err != nil {
		return counter.n, err
	}

	return counter.n, nil
}

// countingWriter tracks bytes written through it.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
