package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/classcheck/internal/logging"
)

// DefaultPageSize is the history page size when the caller gives none.
const DefaultPageSize = 20

// Service is the entry point used by the HTTP layer and the CLI. It holds
// the store, the import limiter and the import defaults.
type Service struct {
	store      Store
	limiter    *ImportLimiter
	importOpts ImportOptions
}

// NewService creates a Service. A nil limiter selects a sequential one.
func NewService(store Store, limiter *ImportLimiter, opts ImportOptions) *Service {
	if limiter == nil {
		limiter = NewImportLimiter(DefaultMaxConcurrentImports, DefaultImportWait)
	}
	return &Service{store: store, limiter: limiter, importOpts: opts}
}

// Limiter exposes the import limiter for graceful shutdown.
func (s *Service) Limiter() *ImportLimiter {
	return s.limiter
}

// Ping checks that the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// ListClassrooms returns every classroom ordered by name.
func (s *Service) ListClassrooms(ctx context.Context) ([]Classroom, error) {
	return s.store.ListClassrooms(ctx)
}

// ListInspectors returns every inspector ordered by name.
func (s *Service) ListInspectors(ctx context.Context) ([]Inspector, error) {
	return s.store.ListInspectors(ctx)
}

// HistoryQuery selects one page of a classroom's inspection history.
// Limit, when positive, overrides paging and returns the newest Limit rows.
type HistoryQuery struct {
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
	Limit    int
}

// HistoryPage is one page of history plus the unpaged total.
type HistoryPage struct {
	Items []InspectionDetail `json:"items"`
	Total int64              `json:"total"`
}

// ClassroomHistory returns inspections of one classroom, newest first.
func (s *Service) ClassroomHistory(ctx context.Context, classroomID int64, q HistoryQuery) (HistoryPage, error) {
	take := q.PageSize
	if take <= 0 {
		take = DefaultPageSize
	}
	offset := 0
	if q.Limit > 0 {
		take = q.Limit
	} else if q.Page > 1 {
		offset = (q.Page - 1) * take
	}

	f := InspectionFilter{
		ClassroomID: classroomID,
		From:        q.From,
		To:          q.To,
		SortBy:      SortByDate,
		SortDesc:    true,
		Limit:       take,
		Offset:      offset,
	}

	total, err := s.store.CountInspections(ctx, f)
	if err != nil {
		return HistoryPage{}, fmt.Errorf("count history: %w", err)
	}
	items, err := s.store.ListInspections(ctx, f)
	if err != nil {
		return HistoryPage{}, fmt.Errorf("list history: %w", err)
	}
	if items == nil {
		items = []InspectionDetail{}
	}
	return HistoryPage{Items: items, Total: total}, nil
}

// ClassroomStatus is the latest inspection of a classroom and its rollup.
// Latest and OverallStatus are nil when the classroom was never inspected.
type ClassroomStatus struct {
	ClassroomID   int64             `json:"classroomId"`
	Latest        *InspectionDetail `json:"latest"`
	OverallStatus *Status           `json:"overallStatus"`
}

// LatestStatus returns the newest inspection of a classroom with its
// overall status: IKKE_OK if any equipment failed, otherwise OK.
func (s *Service) LatestStatus(ctx context.Context, classroomID int64) (ClassroomStatus, error) {
	out := ClassroomStatus{ClassroomID: classroomID}

	latest, err := s.store.LatestInspection(ctx, classroomID)
	if errors.Is(err, ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("latest inspection: %w", err)
	}

	overall := latest.Overall()
	out.Latest = &latest
	out.OverallStatus = &overall
	return out, nil
}

// Report returns inspections matching f for the report page and export.
func (s *Service) Report(ctx context.Context, f InspectionFilter) ([]InspectionDetail, error) {
	if f.SortBy == "" {
		f.SortBy = SortByDate
		f.SortDesc = true
	}
	items, err := s.store.ListInspections(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	return items, nil
}

// GetInspection returns one inspection with classroom and inspector.
func (s *Service) GetInspection(ctx context.Context, id int64) (InspectionDetail, error) {
	return s.store.GetInspection(ctx, id)
}

// CreateInspection validates and stores a new inspection. A second
// inspection for the same classroom, inspector and date fails with
// ErrDuplicate.
func (s *Service) CreateInspection(ctx context.Context, in InspectionInput) (Inspection, error) {
	in.InspectionDate = CivilDate(in.InspectionDate)
	if err := ValidateInput(in); err != nil {
		return Inspection{}, err
	}
	return s.store.CreateInspection(ctx, in)
}

// InspectionPatch is a partial update. Nil fields keep their stored value;
// a non-nil empty comment clears the comment.
type InspectionPatch struct {
	InspectionDate *time.Time
	ClassroomID    *int64
	InspectorID    *int64

	ProjectorStatus  *Status
	DustFilterStatus *Status
	SpeakerStatus    *Status
	HDMIStatus       *Status
	ChargerStatus    *Status

	ProjectorComment  *string
	LampHours         *string
	LampLifeRemaining *string
	SpeakerComment    *string
	HDMIComment       *string
	ChargerComment    *string
	GeneralComment    *string
}

// Apply merges p over the stored inspection and returns the full input.
func (p InspectionPatch) Apply(cur Inspection) InspectionInput {
	in := InspectionInput{
		InspectionDate:    cur.InspectionDate,
		ClassroomID:       cur.ClassroomID,
		InspectorID:       cur.InspectorID,
		ProjectorStatus:   cur.ProjectorStatus,
		DustFilterStatus:  cur.DustFilterStatus,
		SpeakerStatus:     cur.SpeakerStatus,
		HDMIStatus:        cur.HDMIStatus,
		ChargerStatus:     cur.ChargerStatus,
		ProjectorComment:  cur.ProjectorComment,
		LampHours:         cur.LampHours,
		LampLifeRemaining: cur.LampLifeRemaining,
		SpeakerComment:    cur.SpeakerComment,
		HDMIComment:       cur.HDMIComment,
		ChargerComment:    cur.ChargerComment,
		GeneralComment:    cur.GeneralComment,
	}

	if p.InspectionDate != nil {
		in.InspectionDate = CivilDate(*p.InspectionDate)
	}
	if p.ClassroomID != nil {
		in.ClassroomID = *p.ClassroomID
	}
	if p.InspectorID != nil {
		in.InspectorID = *p.InspectorID
	}

	setStatus(&in.ProjectorStatus, p.ProjectorStatus)
	setStatus(&in.DustFilterStatus, p.DustFilterStatus)
	setStatus(&in.SpeakerStatus, p.SpeakerStatus)
	setStatus(&in.HDMIStatus, p.HDMIStatus)
	setStatus(&in.ChargerStatus, p.ChargerStatus)

	setComment(&in.ProjectorComment, p.ProjectorComment)
	setComment(&in.LampHours, p.LampHours)
	setComment(&in.LampLifeRemaining, p.LampLifeRemaining)
	setComment(&in.SpeakerComment, p.SpeakerComment)
	setComment(&in.HDMIComment, p.HDMIComment)
	setComment(&in.ChargerComment, p.ChargerComment)
	setComment(&in.GeneralComment, p.GeneralComment)
	return in
}

func setStatus(dst *Status, v *Status) {
	if v != nil {
		*dst = *v
	}
}

func setComment(dst **string, v *string) {
	if v == nil {
		return
	}
	*dst = optional(*v)
}

// UpdateInspection applies a partial update. created_at is never changed.
func (s *Service) UpdateInspection(ctx context.Context, id int64, p InspectionPatch) (Inspection, error) {
	cur, err := s.store.GetInspection(ctx, id)
	if err != nil {
		return Inspection{}, err
	}

	in := p.Apply(cur.Inspection)
	if err := ValidateInput(in); err != nil {
		return Inspection{}, err
	}
	return s.store.UpdateInspection(ctx, id, in)
}

// ImportReader runs the import pipeline over an uploaded file. Only as
// many imports run at once as the limiter allows. A file without a header
// row fails with ErrEmptyFile.
func (s *Service) ImportReader(ctx context.Context, name string, r io.Reader, src SourceOptions) (*ImportResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	opts := s.importOpts
	if src.Encoding != "" {
		opts.Source.Encoding = src.Encoding
	}
	if src.Delimiter != 0 {
		opts.Source.Delimiter = src.Delimiter
	}

	source, err := NewSource(r, opts.Source)
	if err != nil {
		return nil, err
	}

	ctx = logging.ContextWithFields(ctx, "file", name)
	res, err := NewImporter(s.store, nil, opts).Run(ctx, source)
	if res != nil {
		res.File = name
	}
	if err != nil {
		return res, err
	}
	if !res.HeaderFound {
		return res, ErrEmptyFile
	}
	return res, nil
}

// SeedInspectors and SeedClassrooms are the reference data created by Seed.
var (
	SeedInspectors = []string{
		"Ida Klem Henriksen",
		"Tore Glomseth Rauland",
	}
	SeedClassrooms = []string{
		"Auditoriet", "Biologi", "Fysikk", "G28", "G29", "Kjemi", "Lille kantine",
		"Naturfag", "Personalrom", "R01", "R02", "R03", "R04", "R05", "R11",
		"R12", "R13", "R14", "R15", "R16", "R21", "R22", "R23", "R24", "R25",
		"R26", "R27",
	}
)

// SeedResult counts the entities touched by Seed.
type SeedResult struct {
	Inspectors int `json:"inspectors"`
	Classrooms int `json:"classrooms"`
}

// Seed creates the reference inspectors and classrooms. Running it again
// changes nothing.
func (s *Service) Seed(ctx context.Context) (SeedResult, error) {
	var res SeedResult
	for _, name := range SeedInspectors {
		if _, err := s.store.UpsertInspector(ctx, name); err != nil {
			return res, fmt.Errorf("seed inspector %q: %w", name, err)
		}
		res.Inspectors++
	}
	for _, name := range SeedClassrooms {
		if _, err := s.store.UpsertClassroom(ctx, name); err != nil {
			return res, fmt.Errorf("seed classroom %q: %w", name, err)
		}
		res.Classrooms++
	}
	return res, nil
}
