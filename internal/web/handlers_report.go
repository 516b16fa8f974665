package web

import (
	"net/http"

	"github.com/JonMunkholm/classcheck/internal/core"
	"github.com/JonMunkholm/classcheck/internal/web/templates"
)

// handleReportPage renders the filterable report with an export link that
// carries the same query.
func (s *Server) handleReportPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f, err := parseFilter(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	items, err := s.service.Report(ctx, f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rooms, err := s.service.ListClassrooms(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	people, err := s.service.ListInspectors(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	p := templates.ReportParams{
		Headings: reportHeadings,
		Classrooms: templates.IDOptions(rooms,
			func(c core.Classroom) int64 { return c.ID },
			func(c core.Classroom) string { return c.Name }),
		Inspectors: templates.IDOptions(people,
			func(i core.Inspector) int64 { return i.ID },
			func(i core.Inspector) string { return i.Name }),
		Classroom: q.Get("classroom"),
		Inspector: q.Get("inspector"),
		Status:    string(f.Status),
		Search:    f.Search,
		From:      q.Get("from"),
		To:        q.Get("to"),
		SortBy:    f.SortBy,
		SortOrder: "desc",
		ExportURL: "/api/inspections/export?" + q.Encode(),
	}
	if !f.SortDesc {
		p.SortOrder = "asc"
	}
	for _, d := range items {
		p.Rows = append(p.Rows, reportRow(d))
		p.Overall = append(p.Overall, d.Overall())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ReportPage(p).Render(ctx, w); err != nil {
		s.fail(w, r, err)
	}
}
