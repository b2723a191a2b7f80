package search

import (
	"strings"

	"funding-tracker/internal/query"
)

// searchFields are the relevance fields with their boosts.
var searchFields = []string{"title^3", "fundingProgram^2", "description"}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func containsWildcard(field, s string) map[string]interface{} {
	return map[string]interface{}{
		"wildcard": map[string]interface{}{
			field: map[string]interface{}{
				"value":            "*" + wildcardEscaper.Replace(s) + "*",
				"case_insensitive": true,
			},
		},
	}
}

func term(field string, value interface{}) map[string]interface{} {
	return map[string]interface{}{"term": map[string]interface{}{field: value}}
}

func rangeClause(field, op string, value int64) map[string]interface{} {
	return map[string]interface{}{
		"range": map[string]interface{}{field: map[string]interface{}{op: value}},
	}
}

// BuildSearchQuery returns the request body ranking opportunities by
// relevance to text. Filters narrow the hits the same way the listing does.
func BuildSearchQuery(text string, f query.Filters) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if text = strings.TrimSpace(text); text != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  text,
				"fields": searchFields,
				"type":   "best_fields",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	if f.Sector != "" {
		filter = append(filter, term("sectors", f.Sector))
	}
	if f.FundingType != "" && f.FundingType != query.AllValue {
		filter = append(filter, containsWildcard("fundingType", f.FundingType))
	}
	if f.Status != "" {
		filter = append(filter, term("status", f.Status))
	}
	if f.MinAmount > 0 {
		filter = append(filter, rangeClause("minAmount", "gte", f.MinAmount))
	}
	if f.MaxAmount > 0 {
		filter = append(filter, rangeClause("maxAmount", "lte", f.MaxAmount))
	}
	if f.Deadline != "" {
		filter = append(filter, containsWildcard("deadline", f.Deadline))
	}
	if f.SearchTerm != "" {
		// keyword subfields skip values past ignore_above, so the phrase
		// clauses keep very long texts matchable on whole words
		filter = append(filter, map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					containsWildcard("title.keyword", f.SearchTerm),
					containsWildcard("description.keyword", f.SearchTerm),
					containsWildcard("fundingProgram.keyword", f.SearchTerm),
					matchPhrase("title", f.SearchTerm),
					matchPhrase("description", f.SearchTerm),
					matchPhrase("fundingProgram", f.SearchTerm),
				},
				"minimum_should_match": 1,
			},
		})
	}
	if f.Fonds != "" && f.Fonds != query.AllValue {
		filter = append(filter, containsWildcard("fundingProgram.keyword", query.FondsPattern(f.Fonds)))
	}

	boolQuery := map[string]interface{}{"must": must}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"id": "asc"},
		},
		"_source": false,
	}
}

func matchPhrase(field, text string) map[string]interface{} {
	return map[string]interface{}{"match_phrase": map[string]interface{}{field: text}}
}
