package report

import (
	"encoding/json"
	"io"
)

// JSONWriter outputs discovery reports in JSON format for tool
// integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON output.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the discovery report as JSON.
func (w *JSONWriter) Write(discovery *Discovery) (int, error) {
	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(discovery, "", "  ")
	} else {
		data, err = json.Marshal(discovery)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
