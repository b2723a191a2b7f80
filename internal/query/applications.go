package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ApplicationFilters narrows the dossier listing.
type ApplicationFilters struct {
	Status     string `json:"status,omitempty"`
	SearchTerm string `json:"searchTerm,omitempty"`
	ClientID   int64  `json:"clientId,omitempty"`
}

// ParseApplicationFilters reads dossier listing parameters.
func ParseApplicationFilters(values url.Values) (ApplicationFilters, error) {
	f := ApplicationFilters{
		Status:     strings.TrimSpace(values.Get("status")),
		SearchTerm: strings.TrimSpace(values.Get("searchTerm")),
	}
	if raw := strings.TrimSpace(values.Get("clientId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return ApplicationFilters{}, fmt.Errorf("clientId: %q is not a positive integer", raw)
		}
		f.ClientID = id
	}
	return f, nil
}

// Conditions uses the a (applications), c (clients) and o (opportunities) aliases.
func (f ApplicationFilters) Conditions() []Condition {
	var conds []Condition

	if f.Status != "" && f.Status != AllValue {
		conds = append(conds, cond("a.status = ?", f.Status))
	}
	if f.SearchTerm != "" {
		p := Contains(f.SearchTerm)
		conds = append(conds, cond("(c.organization_name ILIKE ? OR o.title ILIKE ?)", p, p))
	}
	if f.ClientID > 0 {
		conds = append(conds, cond("a.client_id = ?", f.ClientID))
	}

	return conds
}
