// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cli provides output adapters for CLI commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/janderssonse/appscout/internal/domain"
)

var (
	// ErrUnsupportedFormat is returned when an unsupported output format is requested.
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// OutputAdapter implements domain.OutputPort for CLI output.
type OutputAdapter struct {
	writer io.Writer
	format OutputFormat
	quiet  bool
}

var _ domain.OutputPort = (*OutputAdapter)(nil)

// OutputFormat represents the output format type.
type OutputFormat int

const (
	// TextFormat outputs aligned human-readable tables.
	TextFormat OutputFormat = iota
	// JSONFormat outputs machine-readable JSON.
	JSONFormat
	// PlainFormat outputs tab-separated rows without headers or decoration.
	PlainFormat
)

// NewOutputAdapter creates a new output adapter writing to stdout.
func NewOutputAdapter(format OutputFormat, quiet bool) *OutputAdapter {
	return NewOutputAdapterWithWriter(os.Stdout, format, quiet)
}

// NewOutputAdapterWithWriter creates a new output adapter with a custom writer for testing.
func NewOutputAdapterWithWriter(writer io.Writer, format OutputFormat, quiet bool) *OutputAdapter {
	return &OutputAdapter{
		writer: writer,
		format: format,
		quiet:  quiet,
	}
}

// Success outputs a success message with optional structured data.
// Structured data is the command result, so quiet mode still prints it.
func (o *OutputAdapter) Success(message string, data interface{}) error {
	if o.format == JSONFormat && data != nil {
		return o.outputJSON(data)
	}

	if message != "" && !o.quiet {
		_, _ = fmt.Fprintln(o.writer, message)
	}

	return nil
}

// Error outputs an error message.
func (o *OutputAdapter) Error(message string) error {
	if o.quiet {
		return nil
	}

	switch o.format {
	case JSONFormat:
		return o.outputJSON(map[string]string{"error": message})
	case PlainFormat:
		_, _ = fmt.Fprintf(o.writer, "error: %s\n", message)
	default:
		_, _ = fmt.Fprintf(o.writer, "Error: %s\n", message)
	}

	return nil
}

// Info outputs an informational message.
func (o *OutputAdapter) Info(message string) error {
	if o.quiet || o.format == PlainFormat {
		return nil
	}

	if o.format == JSONFormat {
		return o.outputJSON(map[string]string{"info": message})
	}

	_, _ = fmt.Fprintln(o.writer, message)

	return nil
}

// Progress outputs progress information for long-running operations.
func (o *OutputAdapter) Progress(message string) error {
	if o.quiet || o.format != TextFormat {
		return nil
	}

	_, _ = fmt.Fprintf(o.writer, "\r%s", message)

	return nil
}

// Table outputs tabular data.
func (o *OutputAdapter) Table(headers []string, rows [][]string) error {
	switch o.format {
	case JSONFormat:
		return o.outputJSON(map[string]interface{}{
			"headers": headers,
			"rows":    rows,
		})
	case PlainFormat:
		for _, row := range rows {
			_, _ = fmt.Fprintln(o.writer, strings.Join(row, "\t"))
		}

		return nil
	}

	if o.quiet {
		return nil
	}

	w := tabwriter.NewWriter(o.writer, 0, 0, 2, ' ', 0)

	defer func() { _ = w.Flush() }()

	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))

	separators := make([]string, len(headers))
	for i := range headers {
		separators[i] = strings.Repeat("-", len(headers[i]))
	}

	_, _ = fmt.Fprintln(w, strings.Join(separators, "\t"))

	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	return nil
}

// IsQuiet returns true if output should be suppressed.
func (o *OutputAdapter) IsQuiet() bool {
	return o.quiet
}

// Format returns the configured format.
func (o *OutputAdapter) Format() OutputFormat {
	return o.format
}

func (o *OutputAdapter) outputJSON(data interface{}) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(data)
}

// ParseOutputFormat parses a string into an OutputFormat.
func ParseOutputFormat(format string) (OutputFormat, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return TextFormat, nil
	case "json":
		return JSONFormat, nil
	case "plain":
		return PlainFormat, nil
	default:
		return TextFormat, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// OutputFromFlags creates an OutputAdapter from global CLI flags.
func OutputFromFlags(writer io.Writer, jsonFlag, plainFlag, quietFlag bool) *OutputAdapter {
	format := TextFormat

	switch {
	case jsonFlag:
		format = JSONFormat
	case plainFlag:
		format = PlainFormat
	}

	return NewOutputAdapterWithWriter(writer, format, quietFlag)
}
