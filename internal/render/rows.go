// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

// Package render turns search results into display rows.
package render

import (
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/janderssonse/appscout/internal/domain"
	"github.com/janderssonse/appscout/internal/search"
	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
)

// Row is one result prepared for display.
type Row struct {
	ID         int64
	Name       string
	Artist     string
	ArtworkURL string
	Price      string
	Genre      string
	Rating     string
	Link       string
	StoreURL   string
}

// Rows maps results to rows, one per result, in input order.
func Rows(results []domain.SearchResult, loc domain.Localizer) []Row {
	rows := make([]Row, 0, len(results))
	for _, result := range results {
		rows = append(rows, NewRow(result, loc))
	}

	return rows
}

// NewRow derives the display fields of a single result.
func NewRow(result domain.SearchResult, loc domain.Localizer) Row {
	return Row{
		ID:         result.ID,
		Name:       result.Name,
		Artist:     result.ArtistName,
		ArtworkURL: result.ArtworkURL,
		Price:      Price(result, loc),
		Genre:      result.PrimaryGenreName,
		Rating:     Rating(result.AverageUserRating, result.UserRatingCount),
		Link:       Link(result.ID),
		StoreURL:   result.TrackViewURL,
	}
}

// Price is the formatted price, or the localized "free" label when absent.
func Price(result domain.SearchResult, loc domain.Localizer) string {
	if result.FormattedPrice != nil {
		return *result.FormattedPrice
	}

	return loc.T("search.free", "Free")
}

// Rating formats the average to one decimal followed by the count,
// e.g. "4.5 (1203)". A zero count is shown as is.
//
// Rounding works on the exact binary value of average, half away from zero,
// so 4.35 (stored as 4.3499...) becomes "4.3" and 0.25 becomes "0.3".
func Rating(average float64, count int) string {
	return fmt.Sprintf("%s (%d)", oneDecimal(average), count)
}

func oneDecimal(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}

	return exactDecimal(f).StringFixed(1)
}

// exactDecimal converts f without the shortest-representation step of
// decimal.NewFromFloat: f = mant * 2^shift = mant * 5^-shift * 10^shift.
func exactDecimal(f float64) decimal.Decimal {
	frac, exp := math.Frexp(f)
	mant := big.NewInt(int64(frac * (1 << 53)))

	shift := exp - 53
	if shift >= 0 {
		return decimal.NewFromBigInt(mant.Lsh(mant, uint(shift)), 0)
	}

	five := new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(-shift)), nil)

	return decimal.NewFromBigInt(mant.Mul(mant, five), int32(shift))
}

// Link is the navigation target of a result's detail view.
func Link(id int64) string {
	return "/search/" + strconv.FormatInt(id, 10)
}

// ShowEmpty reports whether the "no results" placeholder replaces the list:
// no results, nothing in flight and no error.
func ShowEmpty(state search.State) bool {
	return len(state.Results()) == 0 && !state.Loading() && state.Error() == ""
}

// Truncate shortens s to width terminal cells, ending in an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}

	return runewidth.Truncate(s, width, "…")
}
