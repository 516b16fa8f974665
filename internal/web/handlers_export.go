package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/classcheck/internal/core"
	"github.com/JonMunkholm/classcheck/internal/logging"
)

// reportHeadings are the column titles of the report table and export.
var reportHeadings = []string{
	"Dato", "Klasserom", "Inspektør",
	"Projektor", "Støvfilter", "Høyttalere", "HDMI", "Lader",
	"Generell kommentar",
}

// reportDate renders a date the way Norwegian spreadsheets expect (5.3.2024).
func reportDate(t time.Time) string {
	return t.Format("2.1.2006")
}

// reportRow formats one inspection in reportHeadings order.
func reportRow(d core.InspectionDetail) []string {
	comment := ""
	if d.GeneralComment != nil {
		comment = *d.GeneralComment
	}
	return []string{
		reportDate(d.InspectionDate),
		d.Classroom.Name,
		d.Inspector.Name,
		d.ProjectorStatus.Display(),
		d.DustFilterStatus.Display(),
		d.SpeakerStatus.Display(),
		d.HDMIStatus.Display(),
		d.ChargerStatus.Display(),
		comment,
	}
}

// handleExportInspections streams the filtered report as a semicolon
// separated UTF-8 CSV file that opens directly in Excel.
func (s *Server) handleExportInspections(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	items, err := s.service.Report(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	filename := fmt.Sprintf("inspeksjonsrapport_%s.csv", time.Now().Format(time.DateOnly))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	// BOM so Excel detects UTF-8 (ø, æ, å).
	if _, err := w.Write([]byte("\xEF\xBB\xBF")); err != nil {
		return
	}

	cw := csv.NewWriter(w)
	cw.Comma = core.DefaultDelimiter
	if err := cw.Write(reportHeadings); err != nil {
		return
	}
	for _, d := range items {
		if err := cw.Write(reportRow(d)); err != nil {
			break
		}
	}
	cw.Flush()

	// Headers are sent; errors can only be logged.
	if err := cw.Error(); err != nil {
		logging.FromContext(r.Context()).Error("export write failed", "error", err)
	}
}
