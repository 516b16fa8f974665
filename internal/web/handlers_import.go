package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/JonMunkholm/classcheck/internal/core"
	"github.com/JonMunkholm/classcheck/internal/logging"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temp file.
const multipartMemory = 8 << 20

const defaultImportTimeout = 10 * time.Minute

// handleImport runs an uploaded CSV file through the import pipeline.
// Form fields: file (required), encoding and delimiter (optional).
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) || core.MapError(err).Code == "FILE001" {
			s.fail(w, r, err)
			return
		}
		s.fail(w, r, newBadRequest(errNoFile, map[string]string{"file": err.Error()}))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, newBadRequest(errNoFile, nil))
		return
	}
	defer file.Close()

	src := core.SourceOptions{Encoding: r.FormValue("encoding")}
	if d := []rune(r.FormValue("delimiter")); len(d) == 1 {
		src.Delimiter = d[0]
	}

	timeout := s.cfg.Import.Timeout
	if timeout <= 0 {
		timeout = defaultImportTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	res, err := s.service.ImportReader(ctx, header.Filename, file, src)
	if err != nil {
		if res != nil {
			logging.FromContext(r.Context()).Warn("import aborted",
				"file", header.Filename, "imported", res.Imported, "rows", res.Rows)
		}
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleImportStatus reports the import limiter so clients can tell whether
// an upload would start right away.
func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Limiter().Status())
}
