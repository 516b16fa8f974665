package web

import (
	"net/http"

	"github.com/JonMunkholm/classcheck/internal/core"
	"github.com/JonMunkholm/classcheck/internal/logging"
)

// handleListInspections returns the filtered report listing.
func (s *Server) handleListInspections(w http.ResponseWriter, r *http.Request) {
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
	if items == nil {
		items = []core.InspectionDetail{}
	}
	writeJSON(w, http.StatusOK, items)
}

// handleGetInspection returns one inspection with classroom and inspector.
func (s *Server) handleGetInspection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ins, err := s.service.GetInspection(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ins)
}

// handleCreateInspection stores a new inspection and answers 201.
func (s *Server) handleCreateInspection(w http.ResponseWriter, r *http.Request) {
	var req inspectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ins, err := s.service.CreateInspection(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("inspection created",
		"inspection_id", ins.ID, "classroom_id", ins.ClassroomID)
	writeJSON(w, http.StatusCreated, ins)
}

// handleUpdateInspection applies a partial update.
func (s *Server) handleUpdateInspection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req patchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	patch, err := req.patch()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ins, err := s.service.UpdateInspection(r.Context(), id, patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ins)
}
