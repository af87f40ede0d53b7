// Package report renders discovery results in text, JSON, and Markdown
// formats through a common Writer interface.
package report
