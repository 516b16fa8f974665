package core

import (
	"strings"
)

// Canonical field keys produced by the header mapper.
const (
	FieldInspectionDate    = "inspectionDate"
	FieldDate              = "date" // fallback date column when no alias matched
	FieldClassroomName     = "classroomName"
	FieldInspectorName     = "inspectorName"
	FieldProjectorStatus   = "projectorStatus"
	FieldDustFilterStatus  = "dustFilterStatus"
	FieldSpeakerStatus     = "speakerStatus"
	FieldHDMIStatus        = "hdmiStatus"
	FieldChargerStatus     = "chargerStatus"
	FieldProjectorComment  = "projectorComment"
	FieldSpeakerComment    = "speakerComment"
	FieldHDMIComment       = "hdmiComment"
	FieldChargerComment    = "chargerComment"
	FieldGeneralComment    = "generalComment"
	FieldLampHours         = "lampHours"
	FieldLampLifeRemaining = "lampLifeRemaining"
)

// headerAliases maps normalized spreadsheet labels to canonical field keys.
// Read-only after package init.
var headerAliases = map[string]string{
	"inspectiondate": FieldInspectionDate,
	"created_date":   FieldInspectionDate,
	"createddate":    FieldInspectionDate,
	"classroomname":  FieldClassroomName,
	"room_name":      FieldClassroomName,
	"room":           FieldClassroomName,
	"inspectorname":  FieldInspectorName,
	"inspector":      FieldInspectorName,

	"projector_status": FieldProjectorStatus,
	"projectorstatus":  FieldProjectorStatus,
	"dust_filter":      FieldDustFilterStatus,
	"dustfilter":       FieldDustFilterStatus,
	"dustfilterstatus": FieldDustFilterStatus,
	"speaker_status":   FieldSpeakerStatus,
	"speakerstatus":    FieldSpeakerStatus,
	"hdmi_status":      FieldHDMIStatus,
	"hdmi":             FieldHDMIStatus,
	"hdmi_cable":       FieldHDMIStatus,
	"hdmistatus":       FieldHDMIStatus,
	"pc_charge":        FieldChargerStatus,
	"charger_status":   FieldChargerStatus,
	"chargerstatus":    FieldChargerStatus,

	"projector_comment": FieldProjectorComment,
	"projectorcomment":  FieldProjectorComment,
	"speaker_comment":   FieldSpeakerComment,
	"speakercomment":    FieldSpeakerComment,
	"hdmi_comment":      FieldHDMIComment,
	"hdmicomment":       FieldHDMIComment,
	"pc_charge_comment": FieldChargerComment,
	"charger_comment":   FieldChargerComment,
	"general_comment":   FieldGeneralComment,
	"comment":           FieldGeneralComment,

	"lamp_hours":        FieldLampHours,
	"lamphours":         FieldLampHours,
	"remaining_life":    FieldLampLifeRemaining,
	"lampliferemaining": FieldLampLifeRemaining,
}

// HeaderMap assigns a canonical field key to each column position.
// An empty key means the column is ignored.
type HeaderMap []string

// Key returns the field key of column i, or "" when the column is ignored
// or lies beyond the header.
func (h HeaderMap) Key(i int) string {
	if i < 0 || i >= len(h) {
		return ""
	}
	return h[i]
}

// Keys returns position -> key for every mapped column (debug output).
func (h HeaderMap) Keys() map[int]string {
	out := make(map[int]string, len(h))
	for i, k := range h {
		if k != "" {
			out[i] = k
		}
	}
	return out
}

// Has reports whether any column maps to key.
func (h HeaderMap) Has(key string) bool {
	for _, k := range h {
		if k == key {
			return true
		}
	}
	return false
}

// NormalizeLabel trims and lowercases a header label and replaces every
// whitespace run with a single underscore. Unicode spaces count, so a
// non-breaking space from a Latin-1 spreadsheet export splits words too.
func NormalizeLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), "_")
}

// CanonicalKey resolves one header label. Labels missing from the alias
// table are retried with underscores removed ("Inspection Date" ->
// "inspectiondate") and otherwise used verbatim.
func CanonicalKey(label string) string {
	norm := NormalizeLabel(label)
	if norm == "" {
		return ""
	}
	if key, ok := headerAliases[norm]; ok {
		return key
	}
	if key, ok := headerAliases[strings.ReplaceAll(norm, "_", "")]; ok {
		return key
	}
	return norm
}

// MapHeader builds the column mapping from the first record of a file.
func MapHeader(header []string) HeaderMap {
	m := make(HeaderMap, len(header))
	for i, label := range header {
		m[i] = CanonicalKey(label)
	}
	return m
}
