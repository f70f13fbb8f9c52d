// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Common domain errors.
var (
	ErrEmptyTerm          = errors.New("search term is empty")
	ErrUnknownEntity      = errors.New("unknown entity")
	ErrUnknownCountry     = errors.New("unknown country")
	ErrNetworkFailure     = errors.New("network failure")
	ErrServiceUnavailable = errors.New("search service unavailable")
	ErrInvalidResponse    = errors.New("invalid response from search service")
	ErrAccountExists      = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidAccount     = errors.New("invalid account")
)

// Exit codes follow standard Unix conventions for better scripting support.
const (
	ExitSuccess         = 0  // Operation completed successfully
	ExitGeneralError    = 1  // Generic failure (catch-all)
	ExitUsageError      = 2  // Invalid command line usage
	ExitConfigError     = 3  // Configuration file error
	ExitPermissionError = 4  // Permission denied
	ExitNotFoundError   = 5  // Requested resource not found
	ExitNetworkError    = 11 // Network operation failed
	ExitSystemError     = 12 // System call failed
	ExitTimeoutError    = 13 // Operation timed out
	ExitInterruptError  = 14 // User interrupted (Ctrl+C)
	ExitServiceError    = 20 // Search service unavailable or misbehaving
)

// ExitCodeFor maps an error to its process exit code.
func ExitCodeFor(err error) int {
	var exitErr *ExitError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, context.Canceled):
		return ExitInterruptError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	case errors.Is(err, ErrEmptyTerm), errors.Is(err, ErrUnknownEntity),
		errors.Is(err, ErrUnknownCountry), errors.Is(err, ErrInvalidAccount):
		return ExitUsageError
	case errors.Is(err, ErrAccountNotFound):
		return ExitNotFoundError
	case errors.Is(err, ErrServiceUnavailable), errors.Is(err, ErrInvalidResponse):
		return ExitServiceError
	case errors.Is(err, ErrNetworkFailure):
		return ExitNetworkError
	case errors.Is(err, os.ErrPermission):
		return ExitPermissionError
	default:
		return ExitGeneralError
	}
}

// ExitError carries a process exit code alongside a user-facing message.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// NewExitError creates an ExitError with the specified code and message.
func NewExitError(code int, message string, err error) *ExitError {
	return &ExitError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// SearchError is a failed search, with the message shown to the user.
type SearchError struct {
	Op      string
	Message string
	Err     error
}

func (e *SearchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	return e.Op + ": " + e.Message
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// ErrorInfo provides user-friendly error information.
type ErrorInfo struct {
	Message     string   // User-friendly message
	Suggestions []string // Actionable suggestions
	ShowDetails bool     // Whether to show technical details
}

// getErrorMatchers returns error patterns and their corresponding info.
func getErrorMatchers() []struct {
	patterns []string
	info     ErrorInfo
} {
	return []struct {
		patterns []string
		info     ErrorInfo
	}{
		{
			patterns: []string{"circuit breaker is open", "too many requests", "unavailable", "503"},
			info: ErrorInfo{
				Message:     "The App Store search service is unavailable",
				Suggestions: []string{"Wait a moment and search again"},
			},
		},
		{
			patterns: []string{"deadline exceeded", "timeout", "connection", "no such host", "network"},
			info: ErrorInfo{
				Message:     "Network connection failed",
				Suggestions: []string{"Check your internet connection", "Verify proxy settings if applicable"},
			},
		},
		{
			patterns: []string{"invalid response", "decode", "unmarshal"},
			info: ErrorInfo{
				Message:     "The search service returned an unexpected response",
				Suggestions: []string{"Try a different search term"},
			},
		},
		{
			patterns: []string{"unknown country"},
			info: ErrorInfo{
				Message:     "Unknown country or region",
				Suggestions: []string{"List supported regions: appscout regions"},
			},
		},
		{
			patterns: []string{"unknown entity"},
			info: ErrorInfo{
				Message:     "Unknown device type",
				Suggestions: []string{"Use iPhone or iPad"},
			},
		},
	}
}

// GetErrorInfo analyzes an error and returns user-friendly information.
func GetErrorInfo(err error, verbose bool) ErrorInfo {
	if err == nil {
		return ErrorInfo{}
	}

	errStr := strings.ToLower(err.Error())

	for _, matcher := range getErrorMatchers() {
		for _, pattern := range matcher.patterns {
			if strings.Contains(errStr, pattern) {
				info := matcher.info
				info.ShowDetails = verbose

				return info
			}
		}
	}

	return ErrorInfo{
		Message:     "Search failed",
		Suggestions: []string{"Run with --verbose for more details"},
		ShowDetails: verbose,
	}
}

// UserMessage returns the displayable message for err. A SearchError keeps
// its own message; anything else is classified by GetErrorInfo.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var searchErr *SearchError
	if errors.As(err, &searchErr) && searchErr.Message != "" {
		return searchErr.Message
	}

	return GetErrorInfo(err, false).Message
}

// FormatErrorMessage formats an error for terminal display.
func FormatErrorMessage(err error, verbose bool) string {
	info := GetErrorInfo(err, verbose)

	var result strings.Builder

	result.WriteString("✗ ")
	result.WriteString(UserMessage(err))

	if info.ShowDetails && err != nil {
		result.WriteString("\n  Technical details: ")
		result.WriteString(err.Error())
	}

	if len(info.Suggestions) > 0 && !verbose {
		result.WriteString(" (")
		result.WriteString(info.Suggestions[0])
		result.WriteString(")")
	} else if len(info.Suggestions) > 0 {
		result.WriteString("\n  Suggestions:")

		for _, suggestion := range info.Suggestions {
			result.WriteString("\n    • ")
			result.WriteString(suggestion)
		}
	}

	return result.String()
}
