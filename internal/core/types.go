package core

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by Store implementations. Backends translate
// driver-specific errors into these so callers never inspect driver types.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key: an inspection for this classroom, inspector and date already exists")
)

// Status is the canonical result of a single equipment check.
type Status string

const (
	StatusOK    Status = "OK"
	StatusNotOK Status = "IKKE_OK"
)

// Valid reports whether s is one of the two canonical values.
func (s Status) Valid() bool {
	return s == StatusOK || s == StatusNotOK
}

// Display returns the label shown in reports ("IKKE OK" instead of "IKKE_OK").
func (s Status) Display() string {
	if s == StatusNotOK {
		return "IKKE OK"
	}
	return string(s)
}

// Classroom is a room whose equipment gets inspected. Name is unique.
type Classroom struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Inspector is a person performing inspections. Name is unique.
type Inspector struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Inspection is one dated check of all equipment in a classroom.
// (ClassroomID, InspectorID, InspectionDate) is unique.
type Inspection struct {
	ID             int64     `json:"id"`
	InspectionDate time.Time `json:"inspectionDate"`
	ClassroomID    int64     `json:"classroomId"`
	InspectorID    int64     `json:"inspectorId"`

	ProjectorStatus  Status `json:"projectorStatus"`
	DustFilterStatus Status `json:"dustFilterStatus"`
	SpeakerStatus    Status `json:"speakerStatus"`
	HDMIStatus       Status `json:"hdmiStatus"`
	ChargerStatus    Status `json:"chargerStatus"`

	ProjectorComment  *string `json:"projectorComment"`
	LampHours         *string `json:"lampHours"`
	LampLifeRemaining *string `json:"lampLifeRemaining"`
	SpeakerComment    *string `json:"speakerComment"`
	HDMIComment       *string `json:"hdmiComment"`
	ChargerComment    *string `json:"chargerComment"`
	GeneralComment    *string `json:"generalComment"`

	CreatedAt time.Time `json:"createdAt"`
}

// Statuses returns the five equipment statuses in display order.
func (i Inspection) Statuses() []Status {
	return []Status{i.ProjectorStatus, i.DustFilterStatus, i.SpeakerStatus, i.HDMIStatus, i.ChargerStatus}
}

// Overall is IKKE_OK if any piece of equipment failed, otherwise OK.
func (i Inspection) Overall() Status {
	for _, s := range i.Statuses() {
		if s == StatusNotOK {
			return StatusNotOK
		}
	}
	return StatusOK
}

// InspectionDetail is an inspection joined with its classroom and inspector.
type InspectionDetail struct {
	Inspection
	Classroom Classroom `json:"classroom"`
	Inspector Inspector `json:"inspector"`
}

// InspectionInput carries the key and every mutable field of an inspection.
// It is the payload of upserts, creates and full updates.
type InspectionInput struct {
	InspectionDate time.Time
	ClassroomID    int64
	InspectorID    int64

	ProjectorStatus  Status
	DustFilterStatus Status
	SpeakerStatus    Status
	HDMIStatus       Status
	ChargerStatus    Status

	ProjectorComment  *string
	LampHours         *string
	LampLifeRemaining *string
	SpeakerComment    *string
	HDMIComment       *string
	ChargerComment    *string
	GeneralComment    *string
}

// UpsertResult reports the stored row and whether the upsert created it.
type UpsertResult struct {
	Inspection Inspection
	Inserted   bool
}

// Sort columns accepted by InspectionFilter.
const (
	SortByDate      = "date"
	SortByClassroom = "classroom"
	SortByInspector = "inspector"
)

// InspectionFilter selects inspections for history, report and export views.
// Zero values mean "no constraint".
type InspectionFilter struct {
	ClassroomID int64
	InspectorID int64
	From        *time.Time
	To          *time.Time
	Status      Status // matches if any of the five statuses equals it
	Search      string // classroom name, inspector name or general comment
	SortBy      string
	SortDesc    bool
	Limit       int
	Offset      int
}

// ImportStore is the persistence contract of the import pipeline.
// Implementations must make every method an atomic upsert keyed on the
// unique columns, so concurrent importers never create duplicates.
type ImportStore interface {
	UpsertClassroom(ctx context.Context, name string) (Classroom, error)
	UpsertInspector(ctx context.Context, name string) (Inspector, error)
	UpsertInspection(ctx context.Context, in InspectionInput) (UpsertResult, error)
}

// Store is the full storage contract used by the HTTP layer and tooling.
type Store interface {
	ImportStore

	Ping(ctx context.Context) error
	Close()

	ListClassrooms(ctx context.Context) ([]Classroom, error)
	ListInspectors(ctx context.Context) ([]Inspector, error)
	CountInspections(ctx context.Context, f InspectionFilter) (int64, error)
	ListInspections(ctx context.Context, f InspectionFilter) ([]InspectionDetail, error)
	GetInspection(ctx context.Context, id int64) (InspectionDetail, error)
	LatestInspection(ctx context.Context, classroomID int64) (InspectionDetail, error)
	CreateInspection(ctx context.Context, in InspectionInput) (Inspection, error)
	UpdateInspection(ctx context.Context, id int64, in InspectionInput) (Inspection, error)
}
