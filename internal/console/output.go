// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

// Package console formats terminal messages around command results.
package console

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"golang.org/x/term"
)

// Color modes accepted by --color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// OutputState holds global output configuration.
type OutputState struct {
	Verbose bool
	JSON    bool
	Plain   bool
	Quiet   bool
	Color   string

	// Out and Err default to os.Stdout and os.Stderr.
	Out io.Writer
	Err io.Writer
}

// DefaultOutput provides output formatting utilities.
var DefaultOutput = &OutputState{} //nolint:gochecknoglobals

// SetMode configures output mode.
func (o *OutputState) SetMode(verbose, json, plain, quiet bool, color string) {
	o.Verbose = verbose
	o.JSON = json
	o.Plain = plain
	o.Quiet = quiet
	o.Color = color
}

// IsTTY checks if fd is a terminal (not piped/redirected).
func (o *OutputState) IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// ColorEnabled reports whether ANSI styling may be written to stdout.
func (o *OutputState) ColorEnabled() bool {
	if o.JSON || o.Plain {
		return false
	}

	switch o.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	// Check no-color.org standards
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}

	file, ok := o.stdout().(*os.File)

	return ok && o.IsTTY(file.Fd())
}

// Bold formats text with bold when colors are enabled, uppercase otherwise.
func (o *OutputState) Bold(text string) string {
	if o.JSON || o.Plain {
		return text
	}

	if o.ColorEnabled() {
		return "\033[1m" + text + "\033[0m"
	}

	if o.Color == ColorNever || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return text
	}

	// Pipes and redirects get uppercase instead.
	return strings.ToUpper(text)
}

// Header formats section headers consistently.
func (o *OutputState) Header(text string) string {
	return o.Bold(text)
}

// Progressf writes progress messages to stderr (only if verbose and not JSON/Plain).
func (o *OutputState) Progressf(format string, args ...any) {
	if o.Verbose && !o.JSON && !o.Plain && !o.Quiet {
		_, _ = fmt.Fprintf(o.stderr(), format+"\n", args...)
	}
}

// Successf writes success messages to stderr (only if not JSON/Plain/Quiet).
func (o *OutputState) Successf(format string, args ...any) {
	if !o.JSON && !o.Plain && !o.Quiet {
		_, _ = fmt.Fprintf(o.stderr(), "✓ "+format+"\n", args...)
	}
}

// Warningf writes warning messages to stderr (always visible unless quiet).
func (o *OutputState) Warningf(format string, args ...any) {
	if o.Quiet {
		return
	}

	if o.Plain {
		_, _ = fmt.Fprintf(o.stderr(), "warning: "+format+"\n", args...)
	} else {
		_, _ = fmt.Fprintf(o.stderr(), "⚠ "+format+"\n", args...)
	}
}

// Errorf writes error messages to stderr (always visible).
func (o *OutputState) Errorf(format string, args ...any) {
	if o.Plain {
		_, _ = fmt.Fprintf(o.stderr(), "error: "+format+"\n", args...)
	} else {
		_, _ = fmt.Fprintf(o.stderr(), "✗ "+format+"\n", args...)
	}
}

// Result writes command results to stdout (machine-readable primary output).
func (o *OutputState) Result(data any) {
	_, _ = fmt.Fprintf(o.stdout(), "%v\n", data)
}

// JSONResult writes structured JSON results to stdout.
func (o *OutputState) JSONResult(status string, data map[string]any) {
	result := map[string]any{
		"status": status,
	}
	maps.Copy(result, data)

	if err := json.NewEncoder(o.stdout()).Encode(result); err != nil {
		// Best effort - output encoding errors shouldn't crash the program
		_, _ = fmt.Fprintf(o.stderr(), "error encoding JSON: %v\n", err)
	}
}

// SuccessResult outputs success result to stdout with optional stderr message.
func (o *OutputState) SuccessResult(result any, message string) {
	if message != "" {
		o.Successf("%s", message)
	}

	if o.JSON {
		o.JSONResult("success", map[string]any{"result": result})
	} else {
		o.Result(result)
	}
}

// ErrorResult outputs an error as JSON on stdout when in JSON mode, and
// always on stderr.
func (o *OutputState) ErrorResult(err error, code int) {
	if o.JSON {
		o.JSONResult("error", map[string]any{
			"error": err.Error(),
			"code":  code,
		})
	}

	o.Errorf("%s", err.Error())
}

// PlainKeyValue outputs key:value pairs for machine parsing.
func (o *OutputState) PlainKeyValue(key, value string) {
	_, _ = fmt.Fprintf(o.stdout(), "%s:%s\n", key, value)
}

func (o *OutputState) stdout() io.Writer {
	if o.Out != nil {
		return o.Out
	}

	return os.Stdout
}

func (o *OutputState) stderr() io.Writer {
	if o.Err != nil {
		return o.Err
	}

	return os.Stderr
}
