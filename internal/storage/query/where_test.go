package query

import (
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/classcheck/internal/core"
)

func TestNewWhereBuilder(t *testing.T) {
	wb := NewWhereBuilder(Postgres)
	if wb.argIndex != 1 {
		t.Errorf("argIndex = %d, want 1", wb.argIndex)
	}
	where, args := wb.Build()
	if where != "" || args != nil {
		t.Errorf("Build() on empty builder = (%q, %v), want empty", where, args)
	}
}

func TestWhereBuilder_Add(t *testing.T) {
	tests := []struct {
		name      string
		dialect   Dialect
		add       func(*WhereBuilder)
		wantWhere string
		wantArgs  int
	}{
		{
			name:      "single postgres condition",
			dialect:   Postgres,
			add:       func(wb *WhereBuilder) { wb.Add("status", "OK") },
			wantWhere: " WHERE status = $1",
			wantArgs:  1,
		},
		{
			name:    "multiple postgres conditions",
			dialect: Postgres,
			add: func(wb *WhereBuilder) {
				wb.Add("a", "x")
				wb.Add("b", int64(3))
			},
			wantWhere: " WHERE a = $1 AND b = $2",
			wantArgs:  2,
		},
		{
			name:    "zero values skipped",
			dialect: Postgres,
			add: func(wb *WhereBuilder) {
				wb.Add("a", "")
				wb.Add("b", int64(0))
				wb.Add("c", "y")
			},
			wantWhere: " WHERE c = $1",
			wantArgs:  1,
		},
		{
			name:    "sqlite placeholders",
			dialect: SQLite,
			add: func(wb *WhereBuilder) {
				wb.Add("a", "x")
				wb.Add("b", "y")
			},
			wantWhere: " WHERE a = ? AND b = ?",
			wantArgs:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := NewWhereBuilder(tt.dialect)
			tt.add(wb)
			where, args := wb.Build()
			if where != tt.wantWhere {
				t.Errorf("where = %q, want %q", where, tt.wantWhere)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("len(args) = %d, want %d", len(args), tt.wantArgs)
			}
		})
	}
}

func TestWhereBuilder_AddDateRange(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	wb := NewWhereBuilder(SQLite)
	wb.AddDateRange("d", &from, &to)
	where, args := wb.Build()

	if where != " WHERE d >= ? AND d <= ?" {
		t.Errorf("where = %q", where)
	}
	if args[0] != "2024-01-01" || args[1] != "2024-12-31" {
		t.Errorf("args = %v, want ISO date strings", args)
	}

	wb = NewWhereBuilder(Postgres)
	wb.AddDateRange("d", nil, &to)
	where, _ = wb.Build()
	if where != " WHERE d <= $1" {
		t.Errorf("upper bound only: where = %q", where)
	}
}

func TestWhereBuilder_AddSearchEscapes(t *testing.T) {
	wb := NewWhereBuilder(Postgres)
	wb.AddSearch([]string{"a", "b"}, " 50%_off ")
	where, args := wb.Build()

	want := ` WHERE (a ILIKE $1 ESCAPE '\' OR b ILIKE $2 ESCAPE '\')`
	if where != want {
		t.Errorf("where = %q, want %q", where, want)
	}
	if args[0] != `%50\%\_off%` {
		t.Errorf("pattern = %q", args[0])
	}
}

func TestList(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	f := core.InspectionFilter{
		ClassroomID: 7,
		From:        &from,
		Status:      core.StatusNotOK,
		Search:      "r0",
		SortBy:      core.SortByClassroom,
		SortDesc:    true,
		Limit:       20,
		Offset:      40,
	}

	sql, args := List(f, Postgres)

	for _, want := range []string{
		"i.classroom_id = $1",
		"i.inspection_date >= $2",
		"(i.projector_status = $3 OR",
		"i.charger_status = $7)",
		"c.name ILIKE $8",
		"ORDER BY c.name DESC",
		"LIMIT $11 OFFSET $12",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("query missing %q:\n%s", want, sql)
		}
	}
	if len(args) != 12 {
		t.Errorf("len(args) = %d, want 12", len(args))
	}
	if args[10] != 20 || args[11] != 40 {
		t.Errorf("limit/offset args = %v, %v", args[10], args[11])
	}
}

func TestCount_NoFilter(t *testing.T) {
	sql, args := Count(core.InspectionFilter{}, SQLite)
	if strings.Contains(sql, "WHERE") || args != nil {
		t.Errorf("unfiltered count = %q %v", sql, args)
	}
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		f    core.InspectionFilter
		want string
	}{
		{core.InspectionFilter{}, " ORDER BY i.inspection_date ASC, i.id ASC"},
		{core.InspectionFilter{SortDesc: true}, " ORDER BY i.inspection_date DESC, i.id DESC"},
		{core.InspectionFilter{SortBy: core.SortByInspector}, " ORDER BY p.name ASC, i.inspection_date DESC, i.id DESC"},
		{core.InspectionFilter{SortBy: "bogus", SortDesc: true}, " ORDER BY i.inspection_date DESC, i.id DESC"},
	}
	for _, tt := range tests {
		if got := OrderBy(tt.f); got != tt.want {
			t.Errorf("OrderBy(%+v) = %q, want %q", tt.f, got, tt.want)
		}
	}
}
