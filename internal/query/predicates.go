package query

import (
	"strconv"
	"strings"
)

// Condition is one predicate with "?" placeholders, one per argument.
type Condition struct {
	Clause string
	Args   []interface{}
}

func cond(clause string, args ...interface{}) Condition {
	return Condition{Clause: clause, Args: args}
}

// Conditions returns one predicate per set filter, in a fixed order.
func (f Filters) Conditions() []Condition {
	var conds []Condition

	if f.Sector != "" {
		conds = append(conds, cond("? = ANY(sectors)", f.Sector))
	}
	if f.FundingType != "" && f.FundingType != AllValue {
		conds = append(conds, cond("funding_type ILIKE ?", Contains(f.FundingType)))
	}
	if f.Status != "" {
		conds = append(conds, cond("status = ?", f.Status))
	}
	if f.MinAmount > 0 {
		conds = append(conds, cond("min_amount >= ?", f.MinAmount))
	}
	if f.MaxAmount > 0 {
		conds = append(conds, cond("max_amount <= ?", f.MaxAmount))
	}
	if f.Deadline != "" {
		conds = append(conds, cond("deadline ILIKE ?", Contains(f.Deadline)))
	}
	if f.SearchTerm != "" {
		p := Contains(f.SearchTerm)
		conds = append(conds, cond("(title ILIKE ? OR description ILIKE ? OR funding_program ILIKE ?)", p, p, p))
	}
	if f.Fonds != "" && f.Fonds != AllValue {
		conds = append(conds, cond("funding_program ILIKE ?", Contains(FondsPattern(f.Fonds))))
	}

	return conds
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains builds a LIKE pattern matching s literally anywhere in the column.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// Where folds conditions with AND and numbers placeholders from $start.
// It returns an empty clause when there is nothing to filter on.
func Where(conds []Condition, start int) (string, []interface{}) {
	if len(conds) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(conds))
	var args []interface{}
	n := start
	for _, c := range conds {
		var b strings.Builder
		for _, r := range c.Clause {
			if r == '?' {
				b.WriteString("$" + strconv.Itoa(n))
				n++
				continue
			}
			b.WriteRune(r)
		}
		parts = append(parts, b.String())
		args = append(args, c.Args...)
	}

	return " WHERE " + strings.Join(parts, " AND "), args
}
