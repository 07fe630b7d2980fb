package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// bindings collects positional arguments and hands out $n placeholders in
// the order the SQL text is written.
type bindings struct {
	args []any
}

func (b *bindings) bind(value any) string {
	b.args = append(b.args, value)
	return "$" + strconv.Itoa(len(b.args))
}

// Condition is one predicate of a WHERE clause. Conditions are joined with AND.
type Condition interface {
	render(b *bindings) string
}

type comparison struct {
	column string
	op     string
	value  any
}

func (c comparison) render(b *bindings) string {
	return c.column + " " + c.op + " " + b.bind(c.value)
}

// Eq renders column = value.
func Eq(column string, value any) Condition {
	return comparison{column: column, op: "=", value: value}
}

// Gte renders column >= value.
func Gte(column string, value any) Condition {
	return comparison{column: column, op: ">=", value: value}
}

type rawCondition struct {
	sql  string
	args []any
}

// Expr is a literal predicate. Each "?" is bound to the next arg; surplus
// question marks are written as-is.
func Expr(sql string, args ...any) Condition {
	return rawCondition{sql: sql, args: args}
}

func (c rawCondition) render(b *bindings) string {
	if len(c.args) == 0 {
		return c.sql
	}

	var out strings.Builder
	remaining := c.args
	for _, r := range c.sql {
		if r == '?' && len(remaining) > 0 {
			out.WriteString(b.bind(remaining[0]))
			remaining = remaining[1:]
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

type SelectBuilder struct {
	columns    []string
	from       string
	joins      []string
	conditions []Condition
	orderBy    []string
	limit      int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (s *SelectBuilder) From(table string) *SelectBuilder {
	s.from = strings.TrimSpace(table)
	return s
}

func (s *SelectBuilder) Join(table, on string) *SelectBuilder {
	s.joins = append(s.joins, fmt.Sprintf("JOIN %s ON %s", table, on))
	return s
}

func (s *SelectBuilder) LeftJoin(table, on string) *SelectBuilder {
	s.joins = append(s.joins, fmt.Sprintf("LEFT JOIN %s ON %s", table, on))
	return s
}

func (s *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	s.conditions = append(s.conditions, conditions...)
	return s
}

func (s *SelectBuilder) OrderBy(terms ...string) *SelectBuilder {
	s.orderBy = append(s.orderBy, terms...)
	return s
}

func (s *SelectBuilder) Limit(n int) *SelectBuilder {
	s.limit = n
	return s
}

func (s *SelectBuilder) ToSQL() (string, []any, error) {
	switch {
	case len(s.columns) == 0:
		return "", nil, fmt.Errorf("select columns are required")
	case s.from == "":
		return "", nil, fmt.Errorf("select table is required")
	}

	parts := []string{"SELECT " + strings.Join(s.columns, ", "), "FROM " + s.from}
	parts = append(parts, s.joins...)

	var b bindings
	if len(s.conditions) > 0 {
		predicates := make([]string, 0, len(s.conditions))
		for _, c := range s.conditions {
			predicates = append(predicates, c.render(&b))
		}
		parts = append(parts, "WHERE "+strings.Join(predicates, " AND "))
	}
	if len(s.orderBy) > 0 {
		parts = append(parts, "ORDER BY "+strings.Join(s.orderBy, ", "))
	}
	if s.limit > 0 {
		parts = append(parts, "LIMIT "+strconv.Itoa(s.limit))
	}

	return strings.Join(parts, " "), b.args, nil
}

// InsertBuilder renders a multi-row INSERT. Every row must carry one value
// per column.
type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: strings.TrimSpace(table)}
}

func (i *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	i.columns = append([]string(nil), columns...)
	return i
}

func (i *InsertBuilder) Values(values ...any) *InsertBuilder {
	i.rows = append(i.rows, append([]any(nil), values...))
	return i
}

// Suffix is appended verbatim, e.g. "RETURNING lineup_id".
func (i *InsertBuilder) Suffix(sql string) *InsertBuilder {
	i.suffix = strings.TrimSpace(sql)
	return i
}

func (i *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case i.table == "":
		return "", nil, fmt.Errorf("insert table is required")
	case len(i.columns) == 0:
		return "", nil, fmt.Errorf("insert columns are required")
	case len(i.rows) == 0:
		return "", nil, fmt.Errorf("insert values are required")
	}

	var b bindings
	tuples := make([]string, 0, len(i.rows))
	for n, row := range i.rows {
		if len(row) != len(i.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", n, len(row), len(i.columns))
		}
		placeholders := make([]string, 0, len(row))
		for _, value := range row {
			placeholders = append(placeholders, b.bind(value))
		}
		tuples = append(tuples, "("+strings.Join(placeholders, ", ")+")")
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", i.table, strings.Join(i.columns, ", "), strings.Join(tuples, ", "))
	if i.suffix != "" {
		query += " " + i.suffix
	}
	return query, b.args, nil
}
