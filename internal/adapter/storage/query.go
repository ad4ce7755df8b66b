package storage

import (
	"fmt"
	"strings"
)

// whereBuilder accumulates AND-ed conditions with numbered placeholders
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page appends ORDER BY, LIMIT and OFFSET and returns the full args
func (w *whereBuilder) page(orderBy string, limit, offset int) (string, []any) {
	args := append(append([]any(nil), w.args...), limit, offset)
	return fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", orderBy, len(args)-1, len(args)), args
}

// orderClause resolves a sort key against an allow-list
func orderClause(allowed map[string]string, sort, fallback string, desc bool) string {
	column, ok := allowed[sort]
	if !ok {
		column = allowed[fallback]
	}
	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	return fmt.Sprintf("%s %s NULLS LAST, id ASC", column, direction)
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
