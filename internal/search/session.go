// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

// Package search implements the search submission lifecycle: validating a
// submission, tracking the single in-flight request and applying its outcome.
package search

import (
	"context"
	"strings"
	"time"

	"github.com/janderssonse/appscout/internal/domain"
	"github.com/rs/zerolog"
)

// Phase is the observable phase of the query lifecycle.
type Phase int

// Query lifecycle phases.
const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the tagged lifecycle state. Results are only set when the phase
// is PhaseSucceeded and Message only when it is PhaseFailed.
type State struct {
	phase   Phase
	results []domain.SearchResult
	message string
}

// Phase returns the current phase.
func (s State) Phase() Phase {
	return s.phase
}

// Loading reports whether a request is in flight.
func (s State) Loading() bool {
	return s.phase == PhaseLoading
}

// Error returns the failure message, or "" outside PhaseFailed.
func (s State) Error() string {
	return s.message
}

// Results returns the results of the last successful search.
func (s State) Results() []domain.SearchResult {
	return s.results
}

func idle() State {
	return State{phase: PhaseIdle}
}

func loading() State {
	return State{phase: PhaseLoading}
}

func succeeded(results []domain.SearchResult) State {
	if results == nil {
		results = []domain.SearchResult{}
	}

	return State{phase: PhaseSucceeded, results: results}
}

func failed(message string) State {
	return State{phase: PhaseFailed, message: message}
}

// Request is one accepted submission waiting to be dispatched.
type Request struct {
	Seq   uint64
	Query domain.SearchQuery
}

// Outcome is the completion of a dispatched request.
type Outcome struct {
	Seq      uint64
	Results  []domain.SearchResult
	Err      error
	Duration time.Duration
}

// Session owns the query lifecycle of one search view. It is not safe for
// concurrent use; the owning event loop serializes calls.
type Session struct {
	state  State
	query  domain.SearchQuery
	seq    uint64
	limit  int
	logger zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for lifecycle transitions.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithLimit sets the result limit attached to every query.
func WithLimit(limit int) Option {
	return func(s *Session) {
		s.limit = limit
	}
}

// NewSession creates an idle session.
func NewSession(opts ...Option) *Session {
	session := &Session{state: idle(), logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(session)
	}

	return session
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Query returns the query of the latest accepted submission.
func (s *Session) Query() domain.SearchQuery {
	return s.query
}

// SetLimit changes the result limit of later submissions.
func (s *Session) SetLimit(limit int) {
	s.limit = limit
}

// CanSubmit reports whether the submit trigger is enabled for term.
func (s *Session) CanSubmit(term string) bool {
	return !s.state.Loading() && strings.TrimSpace(term) != ""
}

// Submit accepts a submission. Blank terms and submissions while a request
// is in flight are ignored and report false without touching the state.
func (s *Session) Submit(term string, country domain.CountryCode, entity domain.Entity) (Request, bool) {
	if s.state.Loading() {
		s.logger.Debug().Str("term", term).Msg("submission ignored while loading")

		return Request{}, false
	}

	query, err := domain.NewSearchQuery(term, country, entity)
	if err != nil {
		return Request{}, false
	}

	query.Limit = s.limit

	s.seq++
	s.state = loading()
	s.query = query

	s.logger.Debug().
		Uint64("seq", s.seq).
		Str("term", query.Term).
		Str("country", string(query.Country)).
		Str("entity", string(query.Entity)).
		Msg("search submitted")

	return Request{Seq: s.seq, Query: query}, true
}

// Resolve applies an outcome. Outcomes for anything but the latest request
// are stale and dropped; Resolve reports whether the outcome was applied.
func (s *Session) Resolve(outcome Outcome) bool {
	if outcome.Seq != s.seq || !s.state.Loading() {
		s.logger.Debug().
			Uint64("seq", outcome.Seq).
			Uint64("latest", s.seq).
			Msg("stale search outcome dropped")

		return false
	}

	if outcome.Err != nil {
		s.state = failed(domain.UserMessage(outcome.Err))

		s.logger.Warn().
			Err(outcome.Err).
			Uint64("seq", outcome.Seq).
			Dur("duration", outcome.Duration).
			Msg("search failed")

		return true
	}

	s.state = succeeded(outcome.Results)

	s.logger.Debug().
		Uint64("seq", outcome.Seq).
		Int("results", len(outcome.Results)).
		Dur("duration", outcome.Duration).
		Msg("search succeeded")

	return true
}

// Dispatch runs req against svc and returns its outcome.
func Dispatch(ctx context.Context, svc domain.SearchService, req Request) Outcome {
	start := time.Now()
	results, err := svc.Search(ctx, req.Query)

	return Outcome{
		Seq:      req.Seq,
		Results:  results,
		Err:      err,
		Duration: time.Since(start),
	}
}

// Run validates term and performs one synchronous search. It is the
// non-interactive form of Submit, Dispatch and Resolve.
func (s *Session) Run(ctx context.Context, svc domain.SearchService, term string, country domain.CountryCode, entity domain.Entity) (State, error) {
	req, ok := s.Submit(term, country, entity)
	if !ok {
		if strings.TrimSpace(term) == "" {
			return s.state, domain.ErrEmptyTerm
		}

		return s.state, nil
	}

	outcome := Dispatch(ctx, svc, req)
	s.Resolve(outcome)

	return s.state, outcome.Err
}
