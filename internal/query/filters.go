// Package query turns opportunity filter parameters into parameterized SQL.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// SortKey selects the result ordering of an opportunity listing.
type SortKey string

const (
	SortDeadline  SortKey = "deadline"
	SortAmount    SortKey = "amount"
	SortRecent    SortKey = "recent"
	SortTitle     SortKey = "title"
	SortTitleDesc SortKey = "title_desc"
)

// AllValue disables the fundingType and fonds filters.
const AllValue = "all"

// ParseSortKey falls back to SortDeadline for anything unrecognized.
func ParseSortKey(raw string) SortKey {
	switch k := SortKey(strings.TrimSpace(raw)); k {
	case SortDeadline, SortAmount, SortRecent, SortTitle, SortTitleDesc:
		return k
	}
	return SortDeadline
}

// Filters is the set of optional listing criteria. Zero values mean "not set";
// for amounts this mirrors the listing's treatment of 0 as absent.
type Filters struct {
	Sector      string  `json:"sector,omitempty"`
	FundingType string  `json:"fundingType,omitempty"`
	Status      string  `json:"status,omitempty"`
	MinAmount   int64   `json:"minAmount,omitempty"`
	MaxAmount   int64   `json:"maxAmount,omitempty"`
	Deadline    string  `json:"deadline,omitempty"`
	SearchTerm  string  `json:"searchTerm,omitempty"`
	Fonds       string  `json:"fonds,omitempty"`
	SortBy      SortKey `json:"sortBy,omitempty"`
}

// Active reports whether any predicate will be applied.
func (f Filters) Active() bool {
	return len(f.Conditions()) > 0
}

// ParseFilters reads listing parameters from a query string. It returns an
// error on the first malformed value.
func ParseFilters(values url.Values) (Filters, error) {
	f := Filters{
		Sector:      strings.TrimSpace(values.Get("sector")),
		FundingType: strings.TrimSpace(values.Get("fundingType")),
		Status:      strings.TrimSpace(values.Get("status")),
		Deadline:    strings.TrimSpace(values.Get("deadline")),
		SearchTerm:  strings.TrimSpace(values.Get("searchTerm")),
		Fonds:       strings.TrimSpace(values.Get("fonds")),
		SortBy:      ParseSortKey(values.Get("sortBy")),
	}

	var err error
	if f.MinAmount, err = parseAmount(values, "minAmount"); err != nil {
		return Filters{}, err
	}
	if f.MaxAmount, err = parseAmount(values, "maxAmount"); err != nil {
		return Filters{}, err
	}

	return f, nil
}

// FromValues is the fail-closed form of ParseFilters: any malformed value
// discards the whole set and yields the default listing.
func FromValues(values url.Values) (Filters, bool) {
	f, err := ParseFilters(values)
	if err != nil {
		return Filters{SortBy: SortDeadline}, false
	}
	return f, true
}

func parseAmount(values url.Values, key string) (int64, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: must not be negative, got %d", key, n)
	}
	return n, nil
}

// fondsPatterns maps recognized fund codes to the substring matched against
// the funding program. Unlisted values are used as given.
var fondsPatterns = map[string]string{
	"GCF": "GCF",
	"GEF": "GEF",
	"CIF": "CIF",
}

// FondsPattern resolves a fonds filter value to its substring pattern.
func FondsPattern(fonds string) string {
	if p, ok := fondsPatterns[fonds]; ok {
		return p
	}
	return fonds
}
