package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/classcheck/internal/config"
	"github.com/JonMunkholm/classcheck/internal/core"
	"github.com/JonMunkholm/classcheck/internal/storage/sqlite"
)

type testEnv struct {
	srv     *Server
	service *core.Service
	rooms   map[string]int64
	people  map[string]int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "web.db"))
	if err != nil {
		t.Fatalf("sqlite.Open() error: %v", err)
	}
	t.Cleanup(store.Close)

	cfg := &config.Config{
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		Import: config.ImportConfig{MaxFileSize: 1 << 20, Timeout: 5 * time.Second},
	}
	service := core.NewService(store, core.NewImportLimiter(1, 20*time.Millisecond),
		core.ImportOptions{Source: core.SourceOptions{Encoding: "utf-8"}})

	env := &testEnv{
		srv:     NewServer(service, cfg),
		service: service,
		rooms:   map[string]int64{},
		people:  map[string]int64{},
	}
	for _, name := range []string{"R01", "R02"} {
		c, err := store.UpsertClassroom(context.Background(), name)
		if err != nil {
			t.Fatalf("UpsertClassroom() error: %v", err)
		}
		env.rooms[name] = c.ID
	}
	for _, name := range []string{"Ida", "Tore"} {
		p, err := store.UpsertInspector(context.Background(), name)
		if err != nil {
			t.Fatalf("UpsertInspector() error: %v", err)
		}
		env.people[name] = p.ID
	}
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.srv.Router().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) payload(room, person, date string) map[string]any {
	return map[string]any{
		"inspectionDate":   date,
		"classroomId":      e.rooms[room],
		"inspectorId":      e.people[person],
		"projectorStatus":  "OK",
		"dustFilterStatus": "OK",
		"speakerStatus":    "OK",
		"hdmiStatus":       "OK",
		"chargerStatus":    "OK",
	}
}

func (e *testEnv) create(t *testing.T, body map[string]any) core.Inspection {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/inspections", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/inspections = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var ins core.Inspection
	if err := json.Unmarshal(rec.Body.Bytes(), &ins); err != nil {
		t.Fatalf("decode inspection: %v", err)
	}
	return ins
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", rec.Code)
	}
}

func TestListClassroomsAndInspectors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/classrooms", nil)
	var rooms []core.Classroom
	if err := json.Unmarshal(rec.Body.Bytes(), &rooms); err != nil {
		t.Fatalf("decode classrooms: %v", err)
	}
	if len(rooms) != 2 || rooms[0].Name != "R01" {
		t.Errorf("classrooms = %v", rooms)
	}

	rec = env.do(t, http.MethodGet, "/api/inspectors", nil)
	var people []core.Inspector
	if err := json.Unmarshal(rec.Body.Bytes(), &people); err != nil {
		t.Fatalf("decode inspectors: %v", err)
	}
	if len(people) != 2 || people[0].Name != "Ida" {
		t.Errorf("inspectors = %v", people)
	}
}

func TestCreateInspection(t *testing.T) {
	env := newTestEnv(t)

	body := env.payload("R01", "Ida", "2024-05-01")
	body["generalComment"] = "alt fint"
	ins := env.create(t, body)
	if ins.ID == 0 || ins.GeneralComment == nil || *ins.GeneralComment != "alt fint" {
		t.Errorf("created inspection = %+v", ins)
	}

	t.Run("duplicate", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/inspections", env.payload("R01", "Ida", "2024-05-01"))
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409: %s", rec.Code, rec.Body.String())
		}
		if got := decodeError(t, rec).Code; got != "DB001" {
			t.Errorf("code = %s, want DB001", got)
		}
	})

	t.Run("ids as strings", func(t *testing.T) {
		body := env.payload("R02", "Tore", "2024-05-01T00:00:00.000Z")
		body["classroomId"] = "2"
		body["inspectorId"] = "2"
		env.create(t, body)
	})

	t.Run("invalid status", func(t *testing.T) {
		body := env.payload("R01", "Tore", "2024-05-02")
		body["hdmiStatus"] = "MAYBE"
		rec := env.do(t, http.MethodPost, "/api/inspections", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		resp := decodeError(t, rec)
		if resp.Code != "VAL005" {
			t.Errorf("code = %s, want VAL005", resp.Code)
		}
		if _, ok := resp.Fields["hdmiStatus"]; !ok {
			t.Errorf("fields = %v, want hdmiStatus", resp.Fields)
		}
	})

	t.Run("invalid date", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/inspections", env.payload("R01", "Tore", "soon"))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if got := decodeError(t, rec).Code; got != "VAL003" {
			t.Errorf("code = %s, want VAL003", got)
		}
	})

	t.Run("unknown classroom", func(t *testing.T) {
		body := env.payload("R01", "Tore", "2024-05-03")
		body["classroomId"] = 999
		rec := env.do(t, http.MethodPost, "/api/inspections", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
		}
		if got := decodeError(t, rec).Code; got != "DB003" {
			t.Errorf("code = %s, want DB003", got)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/inspections", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		env.srv.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestGetInspection(t *testing.T) {
	env := newTestEnv(t)
	ins := env.create(t, env.payload("R01", "Ida", "2024-05-01"))

	rec := env.do(t, http.MethodGet, "/api/inspections/"+itoa(ins.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got core.InspectionDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Classroom.Name != "R01" || got.Inspector.Name != "Ida" {
		t.Errorf("relations = %q/%q", got.Classroom.Name, got.Inspector.Name)
	}

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/api/inspections/999", http.StatusNotFound, "DB008"},
		{"/api/inspections/abc", http.StatusBadRequest, "VAL004"},
		{"/api/inspections/0", http.StatusBadRequest, "VAL004"},
	}
	for _, tt := range tests {
		rec := env.do(t, http.MethodGet, tt.path, nil)
		if rec.Code != tt.status {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.status)
			continue
		}
		if got := decodeError(t, rec).Code; got != tt.code {
			t.Errorf("GET %s code = %s, want %s", tt.path, got, tt.code)
		}
	}
}

func TestUpdateInspection_Partial(t *testing.T) {
	env := newTestEnv(t)
	body := env.payload("R01", "Ida", "2024-05-01")
	body["generalComment"] = "behold"
	ins := env.create(t, body)

	rec := env.do(t, http.MethodPut, "/api/inspections/"+itoa(ins.ID), map[string]any{
		"speakerStatus":  "IKKE_OK",
		"speakerComment": "skurrer",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var got core.Inspection
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.SpeakerStatus != core.StatusNotOK || got.SpeakerComment == nil || *got.SpeakerComment != "skurrer" {
		t.Errorf("speaker = %s %v", got.SpeakerStatus, got.SpeakerComment)
	}
	if got.GeneralComment == nil || *got.GeneralComment != "behold" {
		t.Errorf("GeneralComment = %v, want unchanged", got.GeneralComment)
	}
	if got.ProjectorStatus != core.StatusOK {
		t.Errorf("ProjectorStatus = %s, want unchanged OK", got.ProjectorStatus)
	}
	if !got.CreatedAt.Equal(ins.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", ins.CreatedAt, got.CreatedAt)
	}

	rec = env.do(t, http.MethodPut, "/api/inspections/999", map[string]any{"speakerStatus": "OK"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("PUT unknown = %d, want 404", rec.Code)
	}
}

func TestClassroomStatus(t *testing.T) {
	env := newTestEnv(t)
	path := "/api/classrooms/" + itoa(env.rooms["R01"]) + "/status"

	rec := env.do(t, http.MethodGet, path, nil)
	var empty map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &empty); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if empty["latest"] != nil || empty["overallStatus"] != nil {
		t.Errorf("status without inspections = %v, want nulls", empty)
	}

	env.create(t, env.payload("R01", "Ida", "2024-01-01"))
	failing := env.payload("R01", "Tore", "2024-02-01")
	failing["chargerStatus"] = "IKKE_OK"
	env.create(t, failing)

	rec = env.do(t, http.MethodGet, path, nil)
	var st core.ClassroomStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.OverallStatus == nil || *st.OverallStatus != core.StatusNotOK {
		t.Errorf("OverallStatus = %v, want IKKE_OK", st.OverallStatus)
	}
	if st.Latest == nil || st.Latest.Inspector.Name != "Tore" {
		t.Errorf("Latest = %+v, want newest inspection", st.Latest)
	}
}

func TestClassroomHistory(t *testing.T) {
	env := newTestEnv(t)
	for _, d := range []string{"2024-01-01", "2024-02-01", "2024-03-01"} {
		env.create(t, env.payload("R01", "Ida", d))
	}
	env.create(t, env.payload("R02", "Ida", "2024-04-01"))
	base := "/api/classrooms/" + itoa(env.rooms["R01"]) + "/inspections"

	tests := []struct {
		query string
		items int
		total int64
		first string
	}{
		{"", 3, 3, "2024-03-01"},
		{"?pageSize=2&page=2", 1, 3, "2024-01-01"},
		{"?limit=1", 1, 3, "2024-03-01"},
		{"?from=2024-02-01&to=2024-02-28", 1, 1, "2024-02-01"},
	}
	for _, tt := range tests {
		rec := env.do(t, http.MethodGet, base+tt.query, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s = %d", tt.query, rec.Code)
		}
		var page core.HistoryPage
		if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(page.Items) != tt.items || page.Total != tt.total {
			t.Errorf("%q: items/total = %d/%d, want %d/%d", tt.query, len(page.Items), page.Total, tt.items, tt.total)
			continue
		}
		if got := page.Items[0].InspectionDate.Format(time.DateOnly); got != tt.first {
			t.Errorf("%q: first date = %s, want %s", tt.query, got, tt.first)
		}
	}
}

func TestListInspections_Filters(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, env.payload("R01", "Ida", "2024-01-01"))
	bad := env.payload("R02", "Tore", "2024-02-01")
	bad["projectorStatus"] = "IKKE_OK"
	env.create(t, bad)

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?status=IKKE_OK", 1},
		{"?status=ikke ok", 1},
		{"?inspector=" + itoa(env.people["Ida"]), 1},
		{"?search=tore", 1},
		{"?sortBy=classroom&sortOrder=asc", 2},
	}
	for _, tt := range tests {
		rec := env.do(t, http.MethodGet, "/api/inspections"+strings.ReplaceAll(tt.query, " ", "%20"), nil)
		var items []core.InspectionDetail
		if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
			t.Fatalf("%q: decode: %v", tt.query, err)
		}
		if len(items) != tt.want {
			t.Errorf("%q: %d items, want %d", tt.query, len(items), tt.want)
		}
	}

	rec := env.do(t, http.MethodGet, "/api/inspections?classroom=x", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid classroom filter = %d, want 400", rec.Code)
	}
}

func TestExportInspections(t *testing.T) {
	env := newTestEnv(t)
	body := env.payload("R01", "Ida", "2024-03-05")
	body["hdmiStatus"] = "IKKE_OK"
	body["generalComment"] = "kabel; løs"
	env.create(t, body)

	rec := env.do(t, http.MethodGet, "/api/inspections/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "inspeksjonsrapport_") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	out := strings.TrimPrefix(rec.Body.String(), "\xEF\xBB\xBF")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("export has %d lines, want 2:\n%s", len(lines), out)
	}
	if lines[0] != "Dato;Klasserom;Inspektør;Projektor;Støvfilter;Høyttalere;HDMI;Lader;Generell kommentar" {
		t.Errorf("heading = %q", lines[0])
	}
	if want := `5.3.2024;R01;Ida;OK;OK;OK;IKKE OK;OK;"kabel; løs"`; lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
}

func multipartBody(t *testing.T, field, name, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		fw.Write([]byte(content))
	}
	mw.WriteField("encoding", "utf-8")
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func postImport(t *testing.T, env *testEnv, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestImport(t *testing.T) {
	env := newTestEnv(t)
	csv := "date;room;inspector;projectorstatus;dustfilter;speakerstatus;hdmi;charger_status\n" +
		"2024-03-05;R01;Ida;OK;OK;Kontrollert;ok;IKKE OK\n" +
		"2024-03-05;;Tore;OK;OK;OK;OK;OK\n" +
		"2024-03-05;R09;Tore;OK;OK;OK;OK;OK\n"

	body, ct := multipartBody(t, "file", "inspections.csv", csv)
	rec := postImport(t, env, body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/import = %d: %s", rec.Code, rec.Body.String())
	}
	var res core.ImportResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Imported != 2 || res.Skipped != 1 || res.File != "inspections.csv" {
		t.Errorf("result = %+v", res)
	}

	// R09 did not exist before the import.
	rooms, err := env.service.ListClassrooms(context.Background())
	if err != nil {
		t.Fatalf("ListClassrooms() error: %v", err)
	}
	if len(rooms) != 3 {
		t.Errorf("classrooms after import = %d, want 3", len(rooms))
	}
}

func TestImport_Errors(t *testing.T) {
	env := newTestEnv(t)

	t.Run("no file", func(t *testing.T) {
		body, ct := multipartBody(t, "", "", "")
		rec := postImport(t, env, body, ct)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if got := decodeError(t, rec).Code; got != "FILE004" {
			t.Errorf("code = %s, want FILE004", got)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		body, ct := multipartBody(t, "file", "empty.csv", "")
		rec := postImport(t, env, body, ct)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if got := decodeError(t, rec).Code; got != "FILE005" {
			t.Errorf("code = %s, want FILE005", got)
		}
	})

	t.Run("too large", func(t *testing.T) {
		body, ct := multipartBody(t, "file", "big.csv", strings.Repeat("x", 2<<20))
		rec := postImport(t, env, body, ct)
		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("status = %d, want 413", rec.Code)
		}
	})

	t.Run("busy", func(t *testing.T) {
		if !env.service.Limiter().TryAcquire() {
			t.Fatal("TryAcquire() = false on idle limiter")
		}
		defer env.service.Limiter().Release()

		status := env.do(t, http.MethodGet, "/api/import/status", nil)
		var st core.ImportLimiterStatus
		if err := json.NewDecoder(status.Body).Decode(&st); err != nil {
			t.Fatalf("decode status: %v", err)
		}
		if st.Active != 1 || st.Available != 0 || st.MaxConcurrent != 1 {
			t.Errorf("import status = %+v, want 1 active, 0 available of 1", st)
		}

		body, ct := multipartBody(t, "file", "x.csv", "room;inspector\n")
		rec := postImport(t, env, body, ct)
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
		if got := decodeError(t, rec).Code; got != "IMP002" {
			t.Errorf("code = %s, want IMP002", got)
		}
	})
}

func TestReportPage(t *testing.T) {
	env := newTestEnv(t)
	body := env.payload("R02", "Tore", "2024-03-05")
	body["generalComment"] = "<script>alert(1)</script>"
	body["chargerStatus"] = "IKKE_OK"
	env.create(t, body)

	rec := env.do(t, http.MethodGet, "/?search=R02", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}
	page := rec.Body.String()
	for _, want := range []string{"Inspeksjonsrapport", "Viser 1 inspeksjoner", "R02", "IKKE OK", "/api/inspections/export?search=R02"} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(page, "<script>alert") {
		t.Error("comment was not escaped")
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	env := newTestEnv(t)
	if err := env.srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
	if err := env.srv.Start(); !errors.Is(err, http.ErrServerClosed) {
		t.Errorf("Start() after Shutdown = %v, want http.ErrServerClosed", err)
	}
}
