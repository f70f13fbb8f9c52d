// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

// Package handlers implements CLI command execution logic.
package handlers

import (
	"context"
	"io"
	"os"
	"time"

	cliAdapter "github.com/janderssonse/appscout/internal/adapters/cli"
	"github.com/janderssonse/appscout/internal/domain"
)

// BaseHandler provides common functionality for all command handlers.
type BaseHandler struct {
	Verbose bool
	JSON    bool
	Quiet   bool
	Plain   bool
	Timeout time.Duration
	Output  domain.OutputPort
}

// NewBaseHandler creates a base handler writing to w (stdout when nil).
func NewBaseHandler(w io.Writer, verbose, json, quiet, plain bool, timeout time.Duration) *BaseHandler {
	if w == nil {
		w = os.Stdout
	}

	return &BaseHandler{
		Verbose: verbose,
		JSON:    json,
		Quiet:   quiet,
		Plain:   plain,
		Timeout: timeout,
		Output:  cliAdapter.OutputFromFlags(w, json, plain, quiet),
	}
}

// WithTimeout applies timeout to context if configured.
func (h *BaseHandler) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.Timeout > 0 {
		return context.WithTimeout(ctx, h.Timeout)
	}

	return ctx, func() {}
}

// GetOutput returns the output port for CLI rendering.
func (h *BaseHandler) GetOutput() domain.OutputPort {
	if h.Output == nil {
		h.Output = cliAdapter.OutputFromFlags(os.Stdout, h.JSON, h.Plain, h.Quiet)
	}

	return h.Output
}
