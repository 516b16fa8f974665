package postgres

// convert.go maps between core types and the pgtype values used by the
// generated queries. Empty or nil values become invalid (NULL) pgtypes.

import (
	"time"

	"github.com/JonMunkholm/classcheck/internal/core"
	db "github.com/JonMunkholm/classcheck/internal/database"
	"github.com/jackc/pgx/v5/pgtype"
)

// toPgText converts an optional string. Nil and "" are NULL.
func toPgText(s *string) pgtype.Text {
	if s == nil || *s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

// fromPgText is the inverse of toPgText.
func fromPgText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

// toPgDate converts a civil date. The zero time is NULL.
func toPgDate(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: core.CivilDate(t), Valid: true}
}

func fromPgDate(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}
	return core.CivilDate(d.Time)
}

func fromPgTimestamptz(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}
	return ts.Time
}

func upsertParams(in core.InspectionInput) db.UpsertInspectionParams {
	return db.UpsertInspectionParams{
		InspectionDate:    toPgDate(in.InspectionDate),
		ClassroomID:       in.ClassroomID,
		InspectorID:       in.InspectorID,
		ProjectorStatus:   string(in.ProjectorStatus),
		DustFilterStatus:  string(in.DustFilterStatus),
		SpeakerStatus:     string(in.SpeakerStatus),
		HdmiStatus:        string(in.HDMIStatus),
		ChargerStatus:     string(in.ChargerStatus),
		ProjectorComment:  toPgText(in.ProjectorComment),
		LampHours:         toPgText(in.LampHours),
		LampLifeRemaining: toPgText(in.LampLifeRemaining),
		SpeakerComment:    toPgText(in.SpeakerComment),
		HdmiComment:       toPgText(in.HDMIComment),
		ChargerComment:    toPgText(in.ChargerComment),
		GeneralComment:    toPgText(in.GeneralComment),
	}
}

func createParams(in core.InspectionInput) db.CreateInspectionParams {
	return db.CreateInspectionParams(upsertParams(in))
}

func updateParams(id int64, in core.InspectionInput) db.UpdateInspectionParams {
	p := upsertParams(in)
	return db.UpdateInspectionParams{
		ID:                id,
		InspectionDate:    p.InspectionDate,
		ClassroomID:       p.ClassroomID,
		InspectorID:       p.InspectorID,
		ProjectorStatus:   p.ProjectorStatus,
		DustFilterStatus:  p.DustFilterStatus,
		SpeakerStatus:     p.SpeakerStatus,
		HdmiStatus:        p.HdmiStatus,
		ChargerStatus:     p.ChargerStatus,
		ProjectorComment:  p.ProjectorComment,
		LampHours:         p.LampHours,
		LampLifeRemaining: p.LampLifeRemaining,
		SpeakerComment:    p.SpeakerComment,
		HdmiComment:       p.HdmiComment,
		ChargerComment:    p.ChargerComment,
		GeneralComment:    p.GeneralComment,
	}
}

// toInspection converts a stored row.
func toInspection(r db.Inspection) core.Inspection {
	return core.Inspection{
		ID:                r.ID,
		InspectionDate:    fromPgDate(r.InspectionDate),
		ClassroomID:       r.ClassroomID,
		InspectorID:       r.InspectorID,
		ProjectorStatus:   core.Status(r.ProjectorStatus),
		DustFilterStatus:  core.Status(r.DustFilterStatus),
		SpeakerStatus:     core.Status(r.SpeakerStatus),
		HDMIStatus:        core.Status(r.HdmiStatus),
		ChargerStatus:     core.Status(r.ChargerStatus),
		ProjectorComment:  fromPgText(r.ProjectorComment),
		LampHours:         fromPgText(r.LampHours),
		LampLifeRemaining: fromPgText(r.LampLifeRemaining),
		SpeakerComment:    fromPgText(r.SpeakerComment),
		HDMIComment:       fromPgText(r.HdmiComment),
		ChargerComment:    fromPgText(r.ChargerComment),
		GeneralComment:    fromPgText(r.GeneralComment),
		CreatedAt:         fromPgTimestamptz(r.CreatedAt),
	}
}

// detailRow is the common shape of the joined detail queries.
type detailRow struct {
	db.Inspection
	ClassroomName string
	InspectorName string
}

func (r detailRow) toDetail() core.InspectionDetail {
	ins := toInspection(r.Inspection)
	return core.InspectionDetail{
		Inspection: ins,
		Classroom:  core.Classroom{ID: ins.ClassroomID, Name: r.ClassroomName},
		Inspector:  core.Inspector{ID: ins.InspectorID, Name: r.InspectorName},
	}
}

func fromGetDetail(r db.GetInspectionDetailRow) detailRow {
	return detailRow{
		Inspection: db.Inspection{
			ID: r.ID, InspectionDate: r.InspectionDate, ClassroomID: r.ClassroomID, InspectorID: r.InspectorID,
			ProjectorStatus: r.ProjectorStatus, DustFilterStatus: r.DustFilterStatus, SpeakerStatus: r.SpeakerStatus,
			HdmiStatus: r.HdmiStatus, ChargerStatus: r.ChargerStatus,
			ProjectorComment: r.ProjectorComment, LampHours: r.LampHours, LampLifeRemaining: r.LampLifeRemaining,
			SpeakerComment: r.SpeakerComment, HdmiComment: r.HdmiComment, ChargerComment: r.ChargerComment,
			GeneralComment: r.GeneralComment, CreatedAt: r.CreatedAt,
		},
		ClassroomName: r.ClassroomName,
		InspectorName: r.InspectorName,
	}
}

func fromLatestDetail(r db.LatestInspectionDetailRow) detailRow {
	return fromGetDetail(db.GetInspectionDetailRow(r))
}

func fromUpsertRow(r db.UpsertInspectionRow) core.UpsertResult {
	return core.UpsertResult{
		Inspection: toInspection(db.Inspection{
			ID: r.ID, InspectionDate: r.InspectionDate, ClassroomID: r.ClassroomID, InspectorID: r.InspectorID,
			ProjectorStatus: r.ProjectorStatus, DustFilterStatus: r.DustFilterStatus, SpeakerStatus: r.SpeakerStatus,
			HdmiStatus: r.HdmiStatus, ChargerStatus: r.ChargerStatus,
			ProjectorComment: r.ProjectorComment, LampHours: r.LampHours, LampLifeRemaining: r.LampLifeRemaining,
			SpeakerComment: r.SpeakerComment, HdmiComment: r.HdmiComment, ChargerComment: r.ChargerComment,
			GeneralComment: r.GeneralComment, CreatedAt: r.CreatedAt,
		}),
		Inserted: r.Inserted,
	}
}
