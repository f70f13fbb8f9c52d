// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

// Package logging builds the structured logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options controls where and how much is logged.
type Options struct {
	// File receives JSON lines; empty disables file logging.
	File string
	// Level is a zerolog level name, "info" when empty.
	Level string
	// Console mirrors human-readable output to Stderr.
	Console bool
	Stderr  io.Writer
	NoColor bool
}

// New returns a logger and a closer for the log file. Logging failures never
// block the program: an unopenable file falls back to a no-op sink.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	var (
		writers []io.Writer
		closer  io.Closer = nopCloser{}
		openErr error
	)

	if opts.File != "" {
		file, err := openLogFile(opts.File)
		if err != nil {
			openErr = err
		} else {
			writers = append(writers, file)
			closer = file
		}
	}

	if opts.Console {
		out := opts.Stderr
		if out == nil {
			out = os.Stderr
		}

		writers = append(writers, zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    opts.NoColor,
		})
	}

	if len(writers) == 0 {
		return zerolog.Nop(), closer, openErr
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Str("service", "appscout").
		Logger().
		Level(ParseLevel(opts.Level))

	return logger, closer, openErr
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(raw string) zerolog.Level {
	if raw == "" {
		return zerolog.InfoLevel
	}

	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return zerolog.InfoLevel
	}

	return level
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
