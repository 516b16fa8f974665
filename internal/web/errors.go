package web

// errors.go turns handler errors into responses.
//
// Every error goes through core.MapError so clients get a stable code and
// a user-facing message. The technical error is logged with the request id.
// API routes answer JSON; pages answer plain text.

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/JonMunkholm/classcheck/internal/core"
	"github.com/JonMunkholm/classcheck/internal/logging"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Action  string            `json:"action,omitempty"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

var (
	errInvalidID   = errors.New("invalid id")
	errNoFile      = errors.New("no file provided")
	errInvalidBody = errors.New("invalid request body")
)

// badRequestError carries per-field problems of a rejected payload.
type badRequestError struct {
	err    error
	fields map[string]string
}

func newBadRequest(err error, fields map[string]string) error {
	return &badRequestError{err: err, fields: fields}
}

func (e *badRequestError) Error() string {
	if len(e.fields) == 0 {
		return e.err.Error()
	}
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return e.err.Error() + ": " + strings.Join(keys, ", ")
}

func (e *badRequestError) Unwrap() error {
	return e.err
}

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	var (
		ve  *core.ValidationError
		bre *badRequestError
		mbe *http.MaxBytesError
	)
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &ve), errors.As(err, &bre), errors.Is(err, core.ErrEmptyFile):
		return http.StatusBadRequest
	}

	switch core.MapError(err).Code {
	case "DB003", "FILE002", "FILE003", "FILE005":
		return http.StatusBadRequest
	case "FILE001":
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

// fail responds with the status derived from err.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.respondError(w, r, err, statusFor(err))
}

// respondError logs err and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	ue := core.NewUserError(err)
	msg := ue.User

	logger := logging.FromContext(r.Context())
	attrs := []any{"path", r.URL.Path, "method", r.Method, "status", status, "code", msg.Code, "error", ue.Technical.Error()}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	if !strings.HasPrefix(r.URL.Path, "/api/") {
		http.Error(w, msg.Message+" ("+msg.Code+")", status)
		return
	}

	resp := ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}
	var bre *badRequestError
	if errors.As(err, &bre) {
		resp.Fields = bre.fields
	}
	var ve *core.ValidationError
	if errors.As(err, &ve) && len(ve.Fields) > 0 {
		resp.Fields = make(map[string]string, len(ve.Fields))
		for _, f := range ve.Fields {
			resp.Fields[f] = ve.Err.Error()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
