// Package sqlite implements core.Store on an embedded SQLite database
// (modernc.org/sqlite, no cgo). It backs local runs and the test suites.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/classcheck/internal/core"
	"github.com/JonMunkholm/classcheck/internal/storage/query"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed schema.sql
var schemaSQL string

// Store is a core.Store backed by SQLite.
type Store struct {
	db *sql.DB
}

var _ core.Store = (*Store)(nil)

// Open opens (creating if needed) the database at dsn and applies the
// schema. dsn is a file path or a "file:" URI.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps per-connection pragmas in force and serializes
	// writers the way SQLite wants.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() {
	_ = s.db.Close()
}

// translate maps driver errors onto core sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %v", core.ErrDuplicate, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("violates foreign key constraint: %w", err)
		}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", core.ErrDuplicate, err)
	}
	return err
}

func (s *Store) UpsertClassroom(ctx context.Context, name string) (core.Classroom, error) {
	var c core.Classroom
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO classrooms (name) VALUES (?)
         ON CONFLICT (name) DO UPDATE SET name = excluded.name
         RETURNING id, name`, name).Scan(&c.ID, &c.Name)
	if err != nil {
		return core.Classroom{}, translate(err)
	}
	return c, nil
}

func (s *Store) UpsertInspector(ctx context.Context, name string) (core.Inspector, error) {
	var i core.Inspector
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO inspectors (name) VALUES (?)
         ON CONFLICT (name) DO UPDATE SET name = excluded.name
         RETURNING id, name`, name).Scan(&i.ID, &i.Name)
	if err != nil {
		return core.Inspector{}, translate(err)
	}
	return i, nil
}

const inspectionColumns = `id, inspection_date, classroom_id, inspector_id,
    projector_status, dust_filter_status, speaker_status, hdmi_status, charger_status,
    projector_comment, lamp_hours, lamp_life_remaining,
    speaker_comment, hdmi_comment, charger_comment, general_comment,
    created_at`

const insertInspection = `INSERT INTO inspections (
    inspection_date, classroom_id, inspector_id,
    projector_status, dust_filter_status, speaker_status, hdmi_status, charger_status,
    projector_comment, lamp_hours, lamp_life_remaining,
    speaker_comment, hdmi_comment, charger_comment, general_comment,
    created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// UpsertInspection inserts or overwrites the inspection keyed by classroom,
// inspector and date. The existence check and the write share a transaction
// so Inserted is exact.
func (s *Store) UpsertInspection(ctx context.Context, in core.InspectionInput) (core.UpsertResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.UpsertResult{}, fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	date := in.InspectionDate.Format(time.DateOnly)
	var existing int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM inspections WHERE classroom_id = ? AND inspector_id = ? AND inspection_date = ?`,
		in.ClassroomID, in.InspectorID, date).Scan(&existing)
	inserted := errors.Is(err, sql.ErrNoRows)
	if err != nil && !inserted {
		return core.UpsertResult{}, translate(err)
	}

	row := tx.QueryRowContext(ctx, insertInspection+`
ON CONFLICT (classroom_id, inspector_id, inspection_date) DO UPDATE SET
    projector_status    = excluded.projector_status,
    dust_filter_status  = excluded.dust_filter_status,
    speaker_status      = excluded.speaker_status,
    hdmi_status         = excluded.hdmi_status,
    charger_status      = excluded.charger_status,
    projector_comment   = excluded.projector_comment,
    lamp_hours          = excluded.lamp_hours,
    lamp_life_remaining = excluded.lamp_life_remaining,
    speaker_comment     = excluded.speaker_comment,
    hdmi_comment        = excluded.hdmi_comment,
    charger_comment     = excluded.charger_comment,
    general_comment     = excluded.general_comment
RETURNING `+inspectionColumns, inputArgs(in, time.Now())...)

	ins, err := scanInspection(row)
	if err != nil {
		return core.UpsertResult{}, translate(err)
	}
	if err := tx.Commit(); err != nil {
		return core.UpsertResult{}, fmt.Errorf("commit upsert: %w", err)
	}
	return core.UpsertResult{Inspection: ins, Inserted: inserted}, nil
}

func (s *Store) ListClassrooms(ctx context.Context) ([]core.Classroom, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM classrooms ORDER BY name`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var out []core.Classroom
	for rows.Next() {
		var c core.Classroom
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) ListInspectors(ctx context.Context) ([]core.Inspector, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM inspectors ORDER BY name`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var out []core.Inspector
	for rows.Next() {
		var i core.Inspector
		if err := rows.Scan(&i.ID, &i.Name); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (s *Store) CountInspections(ctx context.Context, f core.InspectionFilter) (int64, error) {
	q, args := query.Count(f, query.SQLite)
	var n int64
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count inspections: %w", translate(err))
	}
	return n, nil
}

func (s *Store) ListInspections(ctx context.Context, f core.InspectionFilter) ([]core.InspectionDetail, error) {
	q, args := query.List(f, query.SQLite)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list inspections: %w", translate(err))
	}
	defer rows.Close()

	var out []core.InspectionDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inspection: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func (s *Store) GetInspection(ctx context.Context, id int64) (core.InspectionDetail, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+query.DetailColumns+query.DetailFrom+" WHERE i.id = ?", id)
	d, err := scanDetail(row)
	if err != nil {
		return core.InspectionDetail{}, translate(err)
	}
	return d, nil
}

func (s *Store) LatestInspection(ctx context.Context, classroomID int64) (core.InspectionDetail, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+query.DetailColumns+query.DetailFrom+
			" WHERE i.classroom_id = ? ORDER BY i.inspection_date DESC, i.id DESC LIMIT 1", classroomID)
	d, err := scanDetail(row)
	if err != nil {
		return core.InspectionDetail{}, translate(err)
	}
	return d, nil
}

func (s *Store) CreateInspection(ctx context.Context, in core.InspectionInput) (core.Inspection, error) {
	row := s.db.QueryRowContext(ctx, insertInspection+" RETURNING "+inspectionColumns, inputArgs(in, time.Now())...)
	ins, err := scanInspection(row)
	if err != nil {
		return core.Inspection{}, translate(err)
	}
	return ins, nil
}

// UpdateInspection overwrites every mutable column; created_at is untouched.
func (s *Store) UpdateInspection(ctx context.Context, id int64, in core.InspectionInput) (core.Inspection, error) {
	args := inputArgs(in, time.Time{})
	args = append(args[:len(args)-1], id)
	row := s.db.QueryRowContext(ctx, `UPDATE inspections SET
    inspection_date     = ?,
    classroom_id        = ?,
    inspector_id        = ?,
    projector_status    = ?,
    dust_filter_status  = ?,
    speaker_status      = ?,
    hdmi_status         = ?,
    charger_status      = ?,
    projector_comment   = ?,
    lamp_hours          = ?,
    lamp_life_remaining = ?,
    speaker_comment     = ?,
    hdmi_comment        = ?,
    charger_comment     = ?,
    general_comment     = ?
WHERE id = ?
RETURNING `+inspectionColumns, args...)

	ins, err := scanInspection(row)
	if err != nil {
		return core.Inspection{}, translate(err)
	}
	return ins, nil
}

// inputArgs renders the insert arguments in column order; created is last.
func inputArgs(in core.InspectionInput, created time.Time) []any {
	return []any{
		in.InspectionDate.Format(time.DateOnly),
		in.ClassroomID,
		in.InspectorID,
		string(in.ProjectorStatus),
		string(in.DustFilterStatus),
		string(in.SpeakerStatus),
		string(in.HDMIStatus),
		string(in.ChargerStatus),
		nullableString(in.ProjectorComment),
		nullableString(in.LampHours),
		nullableString(in.LampLifeRemaining),
		nullableString(in.SpeakerComment),
		nullableString(in.HDMIComment),
		nullableString(in.ChargerComment),
		nullableString(in.GeneralComment),
		created.UTC().Format(time.RFC3339Nano),
	}
}

func nullableString(s *string) any {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return *s
}

type scanner interface {
	Scan(dest ...any) error
}

// inspectionScan holds raw column values before conversion.
type inspectionScan struct {
	ins                                   core.Inspection
	date, created                         string
	projector, dust, speaker, hdmi, charg string
	comments                              [7]sql.NullString
}

func (r *inspectionScan) dest() []any {
	return []any{
		&r.ins.ID, &r.date, &r.ins.ClassroomID, &r.ins.InspectorID,
		&r.projector, &r.dust, &r.speaker, &r.hdmi, &r.charg,
		&r.comments[0], &r.comments[1], &r.comments[2],
		&r.comments[3], &r.comments[4], &r.comments[5], &r.comments[6],
		&r.created,
	}
}

func (r *inspectionScan) finish() (core.Inspection, error) {
	ins := r.ins
	d, err := time.Parse(time.DateOnly, r.date)
	if err != nil {
		return ins, fmt.Errorf("parse inspection_date %q: %w", r.date, err)
	}
	ins.InspectionDate = d
	if ins.CreatedAt, err = time.Parse(time.RFC3339Nano, r.created); err != nil {
		return ins, fmt.Errorf("parse created_at %q: %w", r.created, err)
	}
	ins.ProjectorStatus = core.Status(r.projector)
	ins.DustFilterStatus = core.Status(r.dust)
	ins.SpeakerStatus = core.Status(r.speaker)
	ins.HDMIStatus = core.Status(r.hdmi)
	ins.ChargerStatus = core.Status(r.charg)

	ptrs := []**string{
		&ins.ProjectorComment, &ins.LampHours, &ins.LampLifeRemaining,
		&ins.SpeakerComment, &ins.HDMIComment, &ins.ChargerComment, &ins.GeneralComment,
	}
	for i, ns := range r.comments {
		if ns.Valid {
			v := ns.String
			*ptrs[i] = &v
		}
	}
	return ins, nil
}

func scanInspection(row scanner) (core.Inspection, error) {
	var r inspectionScan
	if err := row.Scan(r.dest()...); err != nil {
		return core.Inspection{}, err
	}
	return r.finish()
}

func scanDetail(row scanner) (core.InspectionDetail, error) {
	var (
		r                        inspectionScan
		classroomName, inspector string
	)
	if err := row.Scan(append(r.dest(), &classroomName, &inspector)...); err != nil {
		return core.InspectionDetail{}, err
	}
	ins, err := r.finish()
	if err != nil {
		return core.InspectionDetail{}, err
	}
	return core.InspectionDetail{
		Inspection: ins,
		Classroom:  core.Classroom{ID: ins.ClassroomID, Name: classroomName},
		Inspector:  core.Inspector{ID: ins.InspectorID, Name: inspector},
	}, nil
}
