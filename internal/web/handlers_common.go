package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/classcheck/internal/core"
)

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, newBadRequest(errInvalidID, map[string]string{"id": "must be a positive integer"})
	}
	return id, nil
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// parseIDParam parses an optional id query parameter. Empty means no filter.
func parseIDParam(r *http.Request, name string) (int64, error) {
	val := r.URL.Query().Get(name)
	if val == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil || id <= 0 {
		return 0, newBadRequest(errInvalidID, map[string]string{name: "must be a positive integer"})
	}
	return id, nil
}

// parseDateParam parses an optional date query parameter.
func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	val := r.URL.Query().Get(name)
	if val == "" {
		return nil, nil
	}
	d, err := parseDateField(name, val)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseFilter reads the report filters shared by the listing, the export
// and the report page: classroom, inspector, status, search, from, to,
// sortBy and sortOrder.
func parseFilter(r *http.Request) (core.InspectionFilter, error) {
	q := r.URL.Query()
	var (
		f   core.InspectionFilter
		err error
	)

	if f.ClassroomID, err = parseIDParam(r, "classroom"); err != nil {
		return f, err
	}
	if f.InspectorID, err = parseIDParam(r, "inspector"); err != nil {
		return f, err
	}
	if f.From, err = parseDateParam(r, "from"); err != nil {
		return f, err
	}
	if f.To, err = parseDateParam(r, "to"); err != nil {
		return f, err
	}

	if v := q.Get("status"); v != "" {
		st, ok := core.NormalizeStatus(v)
		if !ok {
			return f, newBadRequest(errInvalidBody, map[string]string{"status": "must be OK or IKKE_OK"})
		}
		f.Status = st
	}
	f.Search = strings.TrimSpace(q.Get("search"))

	switch sortBy := q.Get("sortBy"); sortBy {
	case core.SortByClassroom, core.SortByInspector, core.SortByDate:
		f.SortBy = sortBy
	default:
		f.SortBy = core.SortByDate
	}
	f.SortDesc = q.Get("sortOrder") != "asc"

	f.Limit = parseIntParam(r, "limit", 0)
	return f, nil
}
