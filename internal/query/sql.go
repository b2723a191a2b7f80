package query

import (
	"strings"
	"time"

	"funding-tracker/internal/models"
)

var opportunityColumnList = []string{
	"id", "title", "funding_program", "description", "eligibility_criteria",
	"required_documents", "external_link", "deadline", "min_amount", "max_amount",
	"funding_type", "status", "sectors", "created_at", "updated_at",
}

// OpportunityColumns is the column list every opportunity read selects, in scan order.
var OpportunityColumns = strings.Join(opportunityColumnList, ", ")

// QualifiedOpportunityColumns prefixes each opportunity column with alias.
func QualifiedOpportunityColumns(alias string) string {
	cols := make([]string, len(opportunityColumnList))
	for i, c := range opportunityColumnList {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// OrderBy returns the ORDER BY clause for a sort key. id breaks ties so pages
// are stable.
func OrderBy(key SortKey) string {
	switch key {
	case SortAmount:
		return " ORDER BY max_amount DESC NULLS LAST, id ASC"
	case SortRecent:
		return " ORDER BY created_at DESC, id ASC"
	case SortTitle:
		return " ORDER BY title ASC, id ASC"
	case SortTitleDesc:
		return " ORDER BY title DESC, id ASC"
	default:
		return " ORDER BY deadline ASC, id ASC"
	}
}

// ListOpportunitiesSQL builds the listing query for f.
func ListOpportunitiesSQL(f Filters) (string, []interface{}) {
	where, args := Where(f.Conditions(), 1)
	return "SELECT " + OpportunityColumns + " FROM funding_opportunities" + where + OrderBy(f.SortBy), args
}

// StatisticsSQL is the single-pass dashboard aggregate. The weekly lower bound
// is inclusive and computed from now by the caller.
const StatisticsSQL = `SELECT
	COUNT(*) FILTER (WHERE status = $1),
	COUNT(*) FILTER (WHERE status = $2),
	COALESCE(SUM(max_amount) FILTER (WHERE status = $1), 0),
	COUNT(*) FILTER (WHERE created_at >= $3)
FROM funding_opportunities`

// StatisticsWindow is the trailing period counted as "this week".
const StatisticsWindow = 7 * 24 * time.Hour

// StatisticsArgs returns the arguments for StatisticsSQL evaluated at now.
func StatisticsArgs(now time.Time) []interface{} {
	return []interface{}{models.StatusOpen, models.StatusUpcoming, now.Add(-StatisticsWindow)}
}
