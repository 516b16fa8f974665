package core

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Equipment identifies one of the five inspected items.
type Equipment int

const (
	Projector Equipment = iota
	DustFilter
	Speaker
	HDMI
	Charger
	equipmentCount
)

// statusFields lists the canonical status key of each Equipment, in order.
var statusFields = [equipmentCount]string{
	FieldProjectorStatus,
	FieldDustFilterStatus,
	FieldSpeakerStatus,
	FieldHDMIStatus,
	FieldChargerStatus,
}

// Field returns the canonical status key for e.
func (e Equipment) Field() string {
	if e < 0 || e >= equipmentCount {
		return ""
	}
	return statusFields[e]
}

// affirmativeStatuses are the lowercase spellings accepted as OK.
var affirmativeStatuses = map[string]struct{}{
	"ok":             {},
	"kontrollert ok": {},
	"kontrollert":    {},
	"ok ":            {},
	"o.k":            {},
	"o k":            {},
}

// negativeStatuses are the lowercase spellings accepted as IKKE_OK besides
// anything containing "ikke".
var negativeStatuses = map[string]struct{}{
	"ik":      {},
	"ikke_ok": {},
	"no":      {},
	"bad":     {},
}

// NormalizeStatus maps a free-form status token to OK or IKKE_OK.
// The second result is false when the token is not recognized.
func NormalizeStatus(v string) (Status, bool) {
	if v == "" {
		return "", false
	}
	s := strings.ToLower(strings.TrimSpace(v))
	if _, ok := affirmativeStatuses[s]; ok {
		return StatusOK, true
	}
	if strings.Contains(s, "ikke") {
		return StatusNotOK, true
	}
	if _, ok := negativeStatuses[s]; ok {
		return StatusNotOK, true
	}
	switch up := Status(strings.ToUpper(v)); up {
	case StatusOK, StatusNotOK:
		return up, true
	}
	return "", false
}

var (
	isoDate      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dayFirstDate = regexp.MustCompile(`^(\d{1,2})[./](\d{1,2})[./](\d{4})$`)
)

// fallbackDateLayouts are tried in order for inputs that are neither ISO
// nor day-first dotted/slashed dates.
var fallbackDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006.01.02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"20060102",
}

// ParseDate parses an inspection date. ISO dates are used as-is, D.M.YYYY
// and D/M/YYYY are read day-first, anything else goes through a list of
// common layouts. The result is a civil date at UTC midnight.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if isoDate.MatchString(value) {
		return parseCivil("2006-01-02", value)
	}

	if m := dayFirstDate.FindStringSubmatch(value); m != nil {
		iso := fmt.Sprintf("%s-%s-%s", m[3], padTwo(m[2]), padTwo(m[1]))
		return parseCivil("2006-01-02", iso)
	}

	for _, layout := range fallbackDateLayouts {
		if t, ok := parseCivil(layout, value); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseCivil(layout, value string) (time.Time, bool) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, false
	}
	// Timestamps with an offset name an instant; take its UTC calendar day.
	return CivilDate(t.UTC()), true
}

// CivilDate truncates t to its calendar date at UTC midnight.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func padTwo(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// Record is one source row after header mapping and normalization.
type Record struct {
	Line int               // 1-based line number within the source file
	Raw  map[string]string // field key -> raw cell value

	ClassroomName  string
	InspectorName  string
	RawDate        string
	InspectionDate time.Time
	HasDate        bool

	// Statuses holds the canonical value per Equipment; "" means the raw
	// token was missing or unrecognized.
	Statuses    [equipmentCount]Status
	RawStatuses [equipmentCount]string

	ProjectorComment  *string
	LampHours         *string
	LampLifeRemaining *string
	SpeakerComment    *string
	HDMIComment       *string
	ChargerComment    *string
	GeneralComment    *string
}

// Normalize turns one source record into a Record using the header mapping.
// Cells in ignored columns are dropped; when two columns share a key the
// rightmost wins.
func Normalize(fields []string, hm HeaderMap, line int) Record {
	raw := make(map[string]string, len(hm))
	for i, v := range fields {
		key := hm.Key(i)
		if key == "" {
			continue
		}
		raw[key] = v
	}

	rec := Record{
		Line:          line,
		Raw:           raw,
		ClassroomName: strings.TrimSpace(raw[FieldClassroomName]),
		InspectorName: strings.TrimSpace(raw[FieldInspectorName]),
	}

	rec.RawDate = raw[FieldInspectionDate]
	if rec.RawDate == "" {
		rec.RawDate = raw[FieldDate]
	}
	rec.InspectionDate, rec.HasDate = ParseDate(rec.RawDate)

	for e := Equipment(0); e < equipmentCount; e++ {
		v := raw[e.Field()]
		rec.RawStatuses[e] = v
		if s, ok := NormalizeStatus(v); ok {
			rec.Statuses[e] = s
		}
	}

	rec.ProjectorComment = optional(raw[FieldProjectorComment])
	rec.LampHours = optional(raw[FieldLampHours])
	rec.LampLifeRemaining = optional(raw[FieldLampLifeRemaining])
	rec.SpeakerComment = optional(raw[FieldSpeakerComment])
	rec.HDMIComment = optional(raw[FieldHDMIComment])
	rec.ChargerComment = optional(raw[FieldChargerComment])
	rec.GeneralComment = optional(raw[FieldGeneralComment])

	return rec
}

// optional returns nil for an empty cell and a pointer to the value otherwise.
func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// Input builds the upsert payload once classroom and inspector are resolved.
func (r Record) Input(classroomID, inspectorID int64) InspectionInput {
	return InspectionInput{
		InspectionDate:    r.InspectionDate,
		ClassroomID:       classroomID,
		InspectorID:       inspectorID,
		ProjectorStatus:   r.Statuses[Projector],
		DustFilterStatus:  r.Statuses[DustFilter],
		SpeakerStatus:     r.Statuses[Speaker],
		HDMIStatus:        r.Statuses[HDMI],
		ChargerStatus:     r.Statuses[Charger],
		ProjectorComment:  r.ProjectorComment,
		LampHours:         r.LampHours,
		LampLifeRemaining: r.LampLifeRemaining,
		SpeakerComment:    r.SpeakerComment,
		HDMIComment:       r.HDMIComment,
		ChargerComment:    r.ChargerComment,
		GeneralComment:    r.GeneralComment,
	}
}

// RawJSON renders the raw field map for skip and debug lines.
func (r Record) RawJSON() string {
	b, err := json.Marshal(r.Raw)
	if err != nil {
		return fmt.Sprintf("%v", r.Raw)
	}
	return string(b)
}

// StatusTrace renders raw=>canonical status mappings for debug output.
func (r Record) StatusTrace() string {
	short := [equipmentCount]string{"proj", "dust", "spk", "hdmi", "chr"}
	parts := make([]string, 0, equipmentCount)
	for e := Equipment(0); e < equipmentCount; e++ {
		canon := string(r.Statuses[e])
		if canon == "" {
			canon = "null"
		}
		parts = append(parts, fmt.Sprintf("%s:%s=>%s", short[e], r.RawStatuses[e], canon))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
