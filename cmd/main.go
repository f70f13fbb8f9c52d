// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

// Package main provides the CLI entry point for appscout.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/janderssonse/appscout/internal/cli"
	"github.com/janderssonse/appscout/internal/domain"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewCLI()

	defer func() {
		_ = app.Close()
	}()

	out := app.Output()

	err := app.Run(ctx, os.Args)
	if err == nil {
		return domain.ExitSuccess
	}

	if ctx.Err() != nil {
		out.Errorf("interrupted")

		return domain.ExitInterruptError
	}

	exitErr := &domain.ExitError{}
	if errors.As(err, &exitErr) {
		msg := exitErr.Message
		if out.Verbose {
			msg = exitErr.Error()
		}

		out.ErrorResult(errors.New(msg), exitErr.Code)

		return exitErr.Code
	}

	// Flag parsing errors from the command library.
	out.ErrorResult(err, domain.ExitUsageError)

	return domain.ExitUsageError
}
