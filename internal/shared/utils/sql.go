package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// WhereBuilder gom các điều kiện WHERE và tự đánh số placeholder ($1, $2, ...)
//
//	wb := utils.NewWhereBuilder()
//	wb.Add("type = ?", "REVENUE")
//	wb.Add("date >= ?", from)
//	query += wb.SQL() // " WHERE type = $1 AND date >= $2"
type WhereBuilder struct {
	clauses []string
	args    []any
}

func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{}
}

// Add appends a clause; each "?" in the clause consumes one arg in order
func (w *WhereBuilder) Add(clause string, args ...any) {
	for _, arg := range args {
		w.args = append(w.args, arg)
		clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.clauses = append(w.clauses, clause)
}

// SQL returns " WHERE ..." or "" when no clause was added
func (w *WhereBuilder) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + JoinWithAnd(w.clauses)
}

func (w *WhereBuilder) Args() []any {
	return w.args
}

// Next returns the placeholder for an argument appended after the WHERE
// args (LIMIT/OFFSET), and records the value.
func (w *WhereBuilder) Next(arg any) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}
