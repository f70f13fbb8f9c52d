// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import "time"

// OutputPort defines the interface for presenting command results.
// This is a domain port that adapters implement for different output formats.
type OutputPort interface {
	// Success outputs a success message with optional structured data
	Success(message string, data interface{}) error

	// Error outputs an error message
	Error(message string) error

	// Info outputs an informational message
	Info(message string) error

	// Progress outputs progress information for long-running operations
	Progress(message string) error

	// Table outputs tabular data
	Table(headers []string, rows [][]string) error

	// IsQuiet returns true if output should be suppressed
	IsQuiet() bool
}

// SearchOutput is the structured result of the search command.
type SearchOutput struct {
	Term      string         `json:"term"`
	Country   CountryCode    `json:"country"`
	Entity    Entity         `json:"entity"`
	Results   []SearchResult `json:"results"`
	Total     int            `json:"total"`
	Duration  time.Duration  `json:"duration"`
	Timestamp time.Time      `json:"timestamp"`
}

// RegionEntry is one country in a regions listing.
type RegionEntry struct {
	Code CountryCode `json:"code"`
	Name string      `json:"name"`
}

// RegionsOutput is the structured result of the regions command.
type RegionsOutput struct {
	Available []RegionEntry `json:"available"`
	All       []RegionEntry `json:"all,omitempty"`
}
