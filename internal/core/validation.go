package core

// validation.go decides whether a normalized record may be persisted.
//
// Two rules apply, in order:
//  1. Identity: classroom name, inspector name and a parsed date must be present.
//  2. Statuses: all five equipment statuses must have been recognized.
//
// A failing row is skipped and logged; it never aborts the import.

import (
	"errors"
	"fmt"
	"strings"
)

// SkipReason is the category recorded for a rejected row.
type SkipReason string

const (
	SkipMissingIdentity    SkipReason = "missing_identity"
	SkipUnrecognizedStatus SkipReason = "unrecognized_status"
	SkipStoreError         SkipReason = "store_error"
)

// Sentinel errors wrapped by ValidationError.
var (
	ErrMissingIdentity    = errors.New("missing classroomName/inspectorName/inspectionDate")
	ErrUnrecognizedStatus = errors.New("one or more statuses could not be normalized")
)

// ValidationError describes why a record was rejected.
type ValidationError struct {
	Reason SkipReason
	Fields []string // canonical keys that failed
	Err    error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate returns nil when rec may be persisted, or a *ValidationError.
func Validate(rec Record) error {
	var missing []string
	if rec.ClassroomName == "" {
		missing = append(missing, FieldClassroomName)
	}
	if rec.InspectorName == "" {
		missing = append(missing, FieldInspectorName)
	}
	if !rec.HasDate {
		missing = append(missing, FieldInspectionDate)
	}
	if len(missing) > 0 {
		return &ValidationError{Reason: SkipMissingIdentity, Fields: missing, Err: ErrMissingIdentity}
	}

	var bad []string
	for e := Equipment(0); e < equipmentCount; e++ {
		if !rec.Statuses[e].Valid() {
			bad = append(bad, e.Field())
		}
	}
	if len(bad) > 0 {
		return &ValidationError{Reason: SkipUnrecognizedStatus, Fields: bad, Err: ErrUnrecognizedStatus}
	}
	return nil
}

// ValidateInput checks an InspectionInput coming from the API.
func ValidateInput(in InspectionInput) error {
	var bad []string
	if in.InspectionDate.IsZero() {
		bad = append(bad, FieldInspectionDate)
	}
	if in.ClassroomID <= 0 {
		bad = append(bad, "classroomId")
	}
	if in.InspectorID <= 0 {
		bad = append(bad, "inspectorId")
	}
	if len(bad) > 0 {
		return &ValidationError{Reason: SkipMissingIdentity, Fields: bad, Err: ErrMissingIdentity}
	}

	statuses := []struct {
		field string
		s     Status
	}{
		{FieldProjectorStatus, in.ProjectorStatus},
		{FieldDustFilterStatus, in.DustFilterStatus},
		{FieldSpeakerStatus, in.SpeakerStatus},
		{FieldHDMIStatus, in.HDMIStatus},
		{FieldChargerStatus, in.ChargerStatus},
	}
	for _, st := range statuses {
		if !st.s.Valid() {
			bad = append(bad, st.field)
		}
	}
	if len(bad) > 0 {
		return &ValidationError{Reason: SkipUnrecognizedStatus, Fields: bad, Err: ErrUnrecognizedStatus}
	}
	return nil
}
