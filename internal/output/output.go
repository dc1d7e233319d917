// Package output handles formatting command output in different formats.
//
// Structured values (install summaries, removal summaries, doctor reports)
// render as text by default and as JSON or YAML when requested. Text
// rendering of doctor results uses colored status symbols.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/mcsetup/mcs/internal/types"
)

// Format represents an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format string into a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// Writer renders values in the configured format.
type Writer struct {
	format Format
	w      io.Writer
}

// NewWriter creates a new output writer.
func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{format: format, w: w}
}

// Format returns the writer's configured format.
func (w *Writer) Format() Format {
	return w.format
}

// Write outputs the given value in the configured format. In text format the
// value's fmt.Stringer is used when available.
func (w *Writer) Write(v interface{}) error {
	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(w.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w.w)
		enc.SetIndent(2)
		return enc.Encode(v)
	default:
		if s, ok := v.(fmt.Stringer); ok {
			_, err := fmt.Fprintln(w.w, s.String())
			return err
		}
		_, err := fmt.Fprintf(w.w, "%+v\n", v)
		return err
	}
}

var (
	passColor = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed)
	boldColor = color.New(color.Bold)
)

// StatusSymbol returns the colored one-character marker for a check status.
func StatusSymbol(status types.CheckStatus) string {
	switch status {
	case types.CheckPass:
		return passColor.Sprint("✓")
	case types.CheckWarn:
		return warnColor.Sprint("!")
	default:
		return failColor.Sprint("✗")
	}
}

// StatusLine formats one doctor result line: symbol, name, and an optional
// trailing message.
func StatusLine(status types.CheckStatus, name, message string) string {
	if message == "" {
		return fmt.Sprintf("  %s %s", StatusSymbol(status), name)
	}
	return fmt.Sprintf("  %s %s: %s", StatusSymbol(status), name, message)
}

// SectionHeader formats a bold section heading for grouped text output.
func SectionHeader(name string) string {
	return boldColor.Sprint(name)
}

// Successf writes a green confirmation line in text format; other formats
// suppress it so structured output stays parseable.
func (w *Writer) Successf(format string, args ...interface{}) {
	if w.format != FormatText {
		return
	}
	fmt.Fprintln(w.w, passColor.Sprintf(format, args...))
}

// Warnf writes a yellow warning line in text format only.
func (w *Writer) Warnf(format string, args ...interface{}) {
	if w.format != FormatText {
		return
	}
	fmt.Fprintln(w.w, warnColor.Sprintf(format, args...))
}

// Textf writes a plain line in text format only.
func (w *Writer) Textf(format string, args ...interface{}) {
	if w.format != FormatText {
		return
	}
	fmt.Fprintf(w.w, format+"\n", args...)
}
