package report

import (
	"io"
	"time"

	"github.com/nao1215/sitemirror/internal/model"
)

// Discovery is what discovery mode hands to report writers.
type Discovery struct {
	// StartURL is the URL discovery was seeded with.
	StartURL string `json:"start_url"`

	// Platform is the platform name discovery ran for.
	Platform string `json:"platform"`

	// GeneratedAt is when discovery finished.
	GeneratedAt time.Time `json:"generated_at"`

	// Pages lists the discovered pages in traversal order.
	Pages []model.DiscoveredPage `json:"pages"`
}

// Writer defines the interface for discovery report output.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(discovery *Discovery) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(discovery *Discovery) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(discovery)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
