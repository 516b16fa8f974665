package web

// request.go decodes and validates JSON payloads.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/JonMunkholm/classcheck/internal/core"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New()

	english := en.New()
	uni := ut.New(english, english)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report JSON field names instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// flexInt accepts a JSON number or a numeric string; the web client sends
// ids from <select> values as strings.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("not an integer: %s", b)
	}
	*f = flexInt(n)
	return nil
}

// inspectionRequest is the body of POST /api/inspections.
type inspectionRequest struct {
	InspectionDate string  `json:"inspectionDate" validate:"required"`
	ClassroomID    flexInt `json:"classroomId" validate:"required,gt=0"`
	InspectorID    flexInt `json:"inspectorId" validate:"required,gt=0"`

	ProjectorStatus  string `json:"projectorStatus" validate:"required,oneof=OK IKKE_OK"`
	DustFilterStatus string `json:"dustFilterStatus" validate:"required,oneof=OK IKKE_OK"`
	SpeakerStatus    string `json:"speakerStatus" validate:"required,oneof=OK IKKE_OK"`
	HDMIStatus       string `json:"hdmiStatus" validate:"required,oneof=OK IKKE_OK"`
	ChargerStatus    string `json:"chargerStatus" validate:"required,oneof=OK IKKE_OK"`

	ProjectorComment  *string `json:"projectorComment" validate:"omitempty,max=2000"`
	LampHours         *string `json:"lampHours" validate:"omitempty,max=100"`
	LampLifeRemaining *string `json:"lampLifeRemaining" validate:"omitempty,max=100"`
	SpeakerComment    *string `json:"speakerComment" validate:"omitempty,max=2000"`
	HDMIComment       *string `json:"hdmiComment" validate:"omitempty,max=2000"`
	ChargerComment    *string `json:"chargerComment" validate:"omitempty,max=2000"`
	GeneralComment    *string `json:"generalComment" validate:"omitempty,max=2000"`
}

// patchRequest is the body of PUT /api/inspections/{id}. Absent fields
// keep their stored value.
type patchRequest struct {
	InspectionDate *string  `json:"inspectionDate" validate:"omitempty,min=1"`
	ClassroomID    *flexInt `json:"classroomId" validate:"omitempty,gt=0"`
	InspectorID    *flexInt `json:"inspectorId" validate:"omitempty,gt=0"`

	ProjectorStatus  *string `json:"projectorStatus" validate:"omitempty,oneof=OK IKKE_OK"`
	DustFilterStatus *string `json:"dustFilterStatus" validate:"omitempty,oneof=OK IKKE_OK"`
	SpeakerStatus    *string `json:"speakerStatus" validate:"omitempty,oneof=OK IKKE_OK"`
	HDMIStatus       *string `json:"hdmiStatus" validate:"omitempty,oneof=OK IKKE_OK"`
	ChargerStatus    *string `json:"chargerStatus" validate:"omitempty,oneof=OK IKKE_OK"`

	ProjectorComment  *string `json:"projectorComment" validate:"omitempty,max=2000"`
	LampHours         *string `json:"lampHours" validate:"omitempty,max=100"`
	LampLifeRemaining *string `json:"lampLifeRemaining" validate:"omitempty,max=100"`
	SpeakerComment    *string `json:"speakerComment" validate:"omitempty,max=2000"`
	HDMIComment       *string `json:"hdmiComment" validate:"omitempty,max=2000"`
	ChargerComment    *string `json:"chargerComment" validate:"omitempty,max=2000"`
	GeneralComment    *string `json:"generalComment" validate:"omitempty,max=2000"`
}

// decodeJSON reads a size-limited JSON body into v and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return err
		}
		return newBadRequest(errInvalidBody, map[string]string{"body": err.Error()})
	}
	return validateStruct(v)
}

// validateStruct runs the validator and converts failures into a
// badRequestError keyed by JSON field name.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return newBadRequest(errInvalidBody, nil)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Translate(translator)
	}
	return newBadRequest(errInvalidBody, fields)
}

var errInvalidDate = errors.New("invalid date")

func parseDateField(field, value string) (time.Time, error) {
	d, ok := core.ParseDate(value)
	if !ok {
		return time.Time{}, newBadRequest(errInvalidDate, map[string]string{field: "unrecognized date " + strconv.Quote(value)})
	}
	return d, nil
}

func (req inspectionRequest) input() (core.InspectionInput, error) {
	date, err := parseDateField("inspectionDate", req.InspectionDate)
	if err != nil {
		return core.InspectionInput{}, err
	}
	return core.InspectionInput{
		InspectionDate:    date,
		ClassroomID:       int64(req.ClassroomID),
		InspectorID:       int64(req.InspectorID),
		ProjectorStatus:   core.Status(req.ProjectorStatus),
		DustFilterStatus:  core.Status(req.DustFilterStatus),
		SpeakerStatus:     core.Status(req.SpeakerStatus),
		HDMIStatus:        core.Status(req.HDMIStatus),
		ChargerStatus:     core.Status(req.ChargerStatus),
		ProjectorComment:  req.ProjectorComment,
		LampHours:         req.LampHours,
		LampLifeRemaining: req.LampLifeRemaining,
		SpeakerComment:    req.SpeakerComment,
		HDMIComment:       req.HDMIComment,
		ChargerComment:    req.ChargerComment,
		GeneralComment:    req.GeneralComment,
	}, nil
}

func (req patchRequest) patch() (core.InspectionPatch, error) {
	p := core.InspectionPatch{
		ProjectorStatus:   statusPtr(req.ProjectorStatus),
		DustFilterStatus:  statusPtr(req.DustFilterStatus),
		SpeakerStatus:     statusPtr(req.SpeakerStatus),
		HDMIStatus:        statusPtr(req.HDMIStatus),
		ChargerStatus:     statusPtr(req.ChargerStatus),
		ProjectorComment:  req.ProjectorComment,
		LampHours:         req.LampHours,
		LampLifeRemaining: req.LampLifeRemaining,
		SpeakerComment:    req.SpeakerComment,
		HDMIComment:       req.HDMIComment,
		ChargerComment:    req.ChargerComment,
		GeneralComment:    req.GeneralComment,
	}
	if req.InspectionDate != nil {
		d, err := parseDateField("inspectionDate", *req.InspectionDate)
		if err != nil {
			return p, err
		}
		p.InspectionDate = &d
	}
	if req.ClassroomID != nil {
		id := int64(*req.ClassroomID)
		p.ClassroomID = &id
	}
	if req.InspectorID != nil {
		id := int64(*req.InspectorID)
		p.InspectorID = &id
	}
	return p, nil
}

func statusPtr(s *string) *core.Status {
	if s == nil {
		return nil
	}
	st := core.Status(*s)
	return &st
}
