// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/janderssonse/appscout/internal/domain"
	"github.com/janderssonse/appscout/internal/render"
	"github.com/janderssonse/appscout/internal/search"
	"github.com/janderssonse/appscout/internal/storefront"
	"github.com/rs/zerolog"
)

const nameWidth = 40

// SearchHandler runs one search and prints the results.
type SearchHandler struct {
	*BaseHandler

	Service   domain.SearchService
	Catalog   *storefront.Catalog
	Localizer domain.Localizer
	Logger    zerolog.Logger
	Limit     int

	now func() time.Time
}

// Execute searches for term in country. A blank term is a usage error.
func (h *SearchHandler) Execute(ctx context.Context, term string, country domain.CountryCode, entity domain.Entity) error {
	if h.Catalog != nil && !h.Catalog.Contains(country) {
		return domain.NewExitError(domain.ExitUsageError, "Unknown country or region: "+string(country),
			domain.ErrUnknownCountry)
	}

	ctx, cancel := h.WithTimeout(ctx)
	defer cancel()

	session := search.NewSession(search.WithLogger(h.Logger), search.WithLimit(h.Limit))

	started := h.clock()
	state, err := session.Run(ctx, h.Service, term, country, entity)

	if errors.Is(err, domain.ErrEmptyTerm) {
		return domain.NewExitError(domain.ExitUsageError, "Search term must not be empty", err)
	}

	if err != nil {
		return domain.NewExitError(domain.ExitCodeFor(err), state.Error(), err)
	}

	return h.print(session.Query(), state, h.clock().Sub(started))
}

func (h *SearchHandler) print(query domain.SearchQuery, state search.State, took time.Duration) error {
	output := h.GetOutput()
	results := state.Results()

	if h.JSON {
		return output.Success("", domain.SearchOutput{
			Term:      query.Term,
			Country:   query.Country,
			Entity:    query.Entity,
			Results:   results,
			Total:     len(results),
			Duration:  took,
			Timestamp: h.clock(),
		})
	}

	if render.ShowEmpty(state) {
		return output.Info(h.Localizer.T("search.empty", "No results"))
	}

	headers := []string{
		"ID",
		h.Localizer.T("search.results", "Results"),
		h.Localizer.T("detail.developer", "Developer"),
		h.Localizer.T("detail.price", "Price"),
		h.Localizer.T("detail.rating", "Rating"),
	}

	rows := make([][]string, 0, len(results))
	for _, row := range render.Rows(results, h.Localizer) {
		rows = append(rows, []string{
			idString(row.ID),
			render.Truncate(row.Name, nameWidth),
			render.Truncate(row.Artist, nameWidth/2),
			row.Price,
			row.Rating,
		})
	}

	return output.Table(headers, rows)
}

func (h *SearchHandler) clock() time.Time {
	if h.now != nil {
		return h.now()
	}

	return time.Now()
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
