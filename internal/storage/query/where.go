// Package query builds the dynamic parts of inspection queries (WHERE,
// ORDER BY, LIMIT) for both SQL backends. Placeholder style and the
// case-insensitive match operator come from the Dialect.
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/classcheck/internal/core"
)

// Dialect describes the SQL differences between backends.
type Dialect struct {
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
	// ILike is the case-insensitive pattern operator.
	ILike string
	// Date converts a civil date into the backend's bind value.
	Date func(time.Time) any
}

// Postgres uses $n placeholders and ILIKE.
var Postgres = Dialect{
	Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	ILike:       "ILIKE",
	Date:        func(t time.Time) any { return core.CivilDate(t) },
}

// SQLite uses ? placeholders; its LIKE is already case-insensitive for
// ASCII. Dates are stored as YYYY-MM-DD text.
var SQLite = Dialect{
	Placeholder: func(int) string { return "?" },
	ILike:       "LIKE",
	Date:        func(t time.Time) any { return t.Format(time.DateOnly) },
}

// WhereBuilder accumulates AND-ed conditions and their arguments.
type WhereBuilder struct {
	dialect    Dialect
	conditions []string
	args       []any
	argIndex   int
}

// NewWhereBuilder starts an empty builder for d.
func NewWhereBuilder(d Dialect) *WhereBuilder {
	return &WhereBuilder{dialect: d, argIndex: 1}
}

func (wb *WhereBuilder) bind(v any) string {
	p := wb.dialect.Placeholder(wb.argIndex)
	wb.args = append(wb.args, v)
	wb.argIndex++
	return p
}

// Add appends "column = value". Zero values are skipped.
func (wb *WhereBuilder) Add(column string, value any) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return
		}
	case int64:
		if v == 0 {
			return
		}
	case nil:
		return
	}
	wb.conditions = append(wb.conditions, fmt.Sprintf("%s = %s", column, wb.bind(value)))
}

// AddDateRange appends inclusive bounds on a date column. Nil bounds are skipped.
func (wb *WhereBuilder) AddDateRange(column string, from, to *time.Time) {
	if from != nil {
		wb.conditions = append(wb.conditions, fmt.Sprintf("%s >= %s", column, wb.bind(wb.dialect.Date(*from))))
	}
	if to != nil {
		wb.conditions = append(wb.conditions, fmt.Sprintf("%s <= %s", column, wb.bind(wb.dialect.Date(*to))))
	}
}

// AddAnyEquals appends "(c1 = v OR c2 = v ...)" with one bind per column.
func (wb *WhereBuilder) AddAnyEquals(columns []string, value string) {
	if value == "" || len(columns) == 0 {
		return
	}
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = fmt.Sprintf("%s = %s", c, wb.bind(value))
	}
	wb.conditions = append(wb.conditions, "("+strings.Join(parts, " OR ")+")")
}

// AddSearch appends a case-insensitive substring match over columns.
func (wb *WhereBuilder) AddSearch(columns []string, term string) {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return
	}
	pattern := "%" + escapeLike(term) + "%"
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = fmt.Sprintf("%s %s %s ESCAPE '\\'", c, wb.dialect.ILike, wb.bind(pattern))
	}
	wb.conditions = append(wb.conditions, "("+strings.Join(parts, " OR ")+")")
}

// Build returns " WHERE ..." (or "") and the bind arguments.
func (wb *WhereBuilder) Build() (string, []any) {
	if len(wb.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(wb.conditions, " AND "), wb.args
}

// Args returns the arguments bound so far.
func (wb *WhereBuilder) Args() []any {
	return wb.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Column names used by the inspection queries. The detail select joins
// classrooms as c and inspectors as p.
var statusColumns = []string{
	"i.projector_status",
	"i.dust_filter_status",
	"i.speaker_status",
	"i.hdmi_status",
	"i.charger_status",
}

var searchColumns = []string{"c.name", "p.name", "i.general_comment"}

// DetailFrom is the FROM clause shared by detail list and count queries.
const DetailFrom = ` FROM inspections i
JOIN classrooms c ON c.id = i.classroom_id
JOIN inspectors p ON p.id = i.inspector_id`

// DetailColumns lists the selected columns in scan order.
const DetailColumns = `i.id, i.inspection_date, i.classroom_id, i.inspector_id,
    i.projector_status, i.dust_filter_status, i.speaker_status, i.hdmi_status, i.charger_status,
    i.projector_comment, i.lamp_hours, i.lamp_life_remaining,
    i.speaker_comment, i.hdmi_comment, i.charger_comment, i.general_comment,
    i.created_at, c.name, p.name`

// Where builds the WHERE clause for f.
func Where(f core.InspectionFilter, d Dialect) *WhereBuilder {
	wb := NewWhereBuilder(d)
	wb.Add("i.classroom_id", f.ClassroomID)
	wb.Add("i.inspector_id", f.InspectorID)
	wb.AddDateRange("i.inspection_date", f.From, f.To)
	wb.AddAnyEquals(statusColumns, string(f.Status))
	wb.AddSearch(searchColumns, f.Search)
	return wb
}

// OrderBy renders the ORDER BY clause for f. Unknown sort keys fall back to
// date. Ties break on id so paging is stable.
func OrderBy(f core.InspectionFilter) string {
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	switch f.SortBy {
	case core.SortByClassroom:
		return fmt.Sprintf(" ORDER BY c.name %s, i.inspection_date DESC, i.id DESC", dir)
	case core.SortByInspector:
		return fmt.Sprintf(" ORDER BY p.name %s, i.inspection_date DESC, i.id DESC", dir)
	default:
		return fmt.Sprintf(" ORDER BY i.inspection_date %s, i.id %s", dir, dir)
	}
}

// Limit renders LIMIT/OFFSET binds for f, continuing wb's numbering.
// It returns "" when f has no limit.
func Limit(f core.InspectionFilter, wb *WhereBuilder) string {
	if f.Limit <= 0 {
		return ""
	}
	clause := " LIMIT " + wb.bind(f.Limit)
	if f.Offset > 0 {
		clause += " OFFSET " + wb.bind(f.Offset)
	}
	return clause
}

// Count returns the COUNT query and its args for f.
func Count(f core.InspectionFilter, d Dialect) (string, []any) {
	where, args := Where(f, d).Build()
	return "SELECT COUNT(*)" + DetailFrom + where, args
}

// List returns the detail SELECT and its args for f.
func List(f core.InspectionFilter, d Dialect) (string, []any) {
	wb := Where(f, d)
	where, _ := wb.Build()
	limit := Limit(f, wb)
	return "SELECT " + DetailColumns + DetailFrom + where + OrderBy(f) + limit, wb.Args()
}
