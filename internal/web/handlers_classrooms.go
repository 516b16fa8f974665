package web

import (
	"net/http"

	"github.com/JonMunkholm/classcheck/internal/core"
)

// handleListClassrooms returns all classrooms ordered by name.
func (s *Server) handleListClassrooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.service.ListClassrooms(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if rooms == nil {
		rooms = []core.Classroom{}
	}
	writeJSON(w, http.StatusOK, rooms)
}

// handleListInspectors returns all inspectors ordered by name.
func (s *Server) handleListInspectors(w http.ResponseWriter, r *http.Request) {
	people, err := s.service.ListInspectors(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if people == nil {
		people = []core.Inspector{}
	}
	writeJSON(w, http.StatusOK, people)
}

// handleClassroomHistory returns one page of a classroom's inspections,
// newest first. limit overrides page/pageSize.
func (s *Server) handleClassroomHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	q := core.HistoryQuery{
		Page:     parseIntParam(r, "page", 1),
		PageSize: parseIntParam(r, "pageSize", core.DefaultPageSize),
		Limit:    parseIntParam(r, "limit", 0),
	}
	if q.From, err = parseDateParam(r, "from"); err != nil {
		s.fail(w, r, err)
		return
	}
	if q.To, err = parseDateParam(r, "to"); err != nil {
		s.fail(w, r, err)
		return
	}

	page, err := s.service.ClassroomHistory(r.Context(), id, q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// handleClassroomStatus returns the latest inspection and overall status.
// Both are null when the classroom has never been inspected.
func (s *Server) handleClassroomStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	status, err := s.service.LatestStatus(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
