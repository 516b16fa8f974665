// Package templates renders the server-side HTML pages. The components are
// written in report.templ; report_templ.go is the generated Go code.
package templates

//go:generate templ generate

import (
	"strconv"

	"github.com/JonMunkholm/classcheck/internal/core"
)

// Option is one entry of a <select>.
type Option struct {
	Value string
	Label string
}

// ReportParams is everything the report page shows.
type ReportParams struct {
	Headings   []string
	Rows       [][]string
	Overall    []core.Status // overall status per row, parallel to Rows
	Classrooms []Option
	Inspectors []Option

	// Current filter values, echoed back into the form.
	Classroom string
	Inspector string
	Status    string
	Search    string
	From      string
	To        string
	SortBy    string
	SortOrder string

	ExportURL string
}

// overall is the overall status of row i; rows without one count as OK.
func (p ReportParams) overall(i int) core.Status {
	if i < len(p.Overall) {
		return p.Overall[i]
	}
	return core.StatusOK
}

var statusOptions = []Option{
	{"", "Alle"},
	{string(core.StatusOK), core.StatusOK.Display()},
	{string(core.StatusNotOK), core.StatusNotOK.Display()},
}

var sortOptions = []Option{
	{core.SortByDate, "Dato"},
	{core.SortByClassroom, "Klasserom"},
	{core.SortByInspector, "Inspektør"},
}

var orderOptions = []Option{
	{"desc", "Synkende"},
	{"asc", "Stigende"},
}

func withAll(opts []Option) []Option {
	return append([]Option{{"", "Alle"}}, opts...)
}

// IDOptions converts id/name pairs into select options.
func IDOptions[T any](items []T, id func(T) int64, name func(T) string) []Option {
	out := make([]Option, len(items))
	for i, it := range items {
		out[i] = Option{Value: strconv.FormatInt(id(it), 10), Label: name(it)}
	}
	return out
}
