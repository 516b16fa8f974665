// Package postgres implements core.Store on PostgreSQL through pgxpool and
// the generated queries in internal/database.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/classcheck/internal/core"
	db "github.com/JonMunkholm/classcheck/internal/database"
	"github.com/JonMunkholm/classcheck/internal/storage/query"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes translated into core sentinels.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// PoolOptions tunes the connection pool. Zero values keep pgx defaults.
type PoolOptions struct {
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Store is a core.Store backed by a pgx pool.
type Store struct {
	pool *pgxpool.Pool
	q    *db.Queries
}

var _ core.Store = (*Store)(nil)

// Open parses url, connects the pool and pings it.
func Open(ctx context.Context, url string, opts PoolOptions) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = int32(opts.MaxConns)
	}
	if opts.MinConns > 0 {
		cfg.MinConns = int32(opts.MinConns)
	}
	if opts.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return New(pool), nil
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: db.New(pool)}
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// translate maps driver errors onto core sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w (%s)", core.ErrDuplicate, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("violates foreign key constraint %s: %w", pgErr.ConstraintName, err)
		}
	}
	return err
}

func (s *Store) UpsertClassroom(ctx context.Context, name string) (core.Classroom, error) {
	c, err := s.q.UpsertClassroom(ctx, name)
	if err != nil {
		return core.Classroom{}, translate(err)
	}
	return core.Classroom{ID: c.ID, Name: c.Name}, nil
}

func (s *Store) UpsertInspector(ctx context.Context, name string) (core.Inspector, error) {
	i, err := s.q.UpsertInspector(ctx, name)
	if err != nil {
		return core.Inspector{}, translate(err)
	}
	return core.Inspector{ID: i.ID, Name: i.Name}, nil
}

// UpsertInspection inserts or overwrites the inspection keyed by classroom,
// inspector and date in one statement.
func (s *Store) UpsertInspection(ctx context.Context, in core.InspectionInput) (core.UpsertResult, error) {
	row, err := s.q.UpsertInspection(ctx, upsertParams(in))
	if err != nil {
		return core.UpsertResult{}, translate(err)
	}
	return fromUpsertRow(row), nil
}

func (s *Store) ListClassrooms(ctx context.Context) ([]core.Classroom, error) {
	rows, err := s.q.ListClassrooms(ctx)
	if err != nil {
		return nil, translate(err)
	}
	out := make([]core.Classroom, len(rows))
	for i, r := range rows {
		out[i] = core.Classroom{ID: r.ID, Name: r.Name}
	}
	return out, nil
}

func (s *Store) ListInspectors(ctx context.Context) ([]core.Inspector, error) {
	rows, err := s.q.ListInspectors(ctx)
	if err != nil {
		return nil, translate(err)
	}
	out := make([]core.Inspector, len(rows))
	for i, r := range rows {
		out[i] = core.Inspector{ID: r.ID, Name: r.Name}
	}
	return out, nil
}

func (s *Store) CountInspections(ctx context.Context, f core.InspectionFilter) (int64, error) {
	sql, args := query.Count(f, query.Postgres)
	var n int64
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count inspections: %w", translate(err))
	}
	return n, nil
}

func (s *Store) ListInspections(ctx context.Context, f core.InspectionFilter) ([]core.InspectionDetail, error) {
	sql, args := query.List(f, query.Postgres)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list inspections: %w", translate(err))
	}
	defer rows.Close()

	var out []core.InspectionDetail
	for rows.Next() {
		var r detailRow
		if err := rows.Scan(
			&r.ID, &r.InspectionDate, &r.ClassroomID, &r.InspectorID,
			&r.ProjectorStatus, &r.DustFilterStatus, &r.SpeakerStatus, &r.HdmiStatus, &r.ChargerStatus,
			&r.ProjectorComment, &r.LampHours, &r.LampLifeRemaining,
			&r.SpeakerComment, &r.HdmiComment, &r.ChargerComment, &r.GeneralComment,
			&r.CreatedAt, &r.ClassroomName, &r.InspectorName,
		); err != nil {
			return nil, fmt.Errorf("scan inspection: %w", err)
		}
		out = append(out, r.toDetail())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func (s *Store) GetInspection(ctx context.Context, id int64) (core.InspectionDetail, error) {
	r, err := s.q.GetInspectionDetail(ctx, id)
	if err != nil {
		return core.InspectionDetail{}, translate(err)
	}
	return fromGetDetail(r).toDetail(), nil
}

func (s *Store) LatestInspection(ctx context.Context, classroomID int64) (core.InspectionDetail, error) {
	r, err := s.q.LatestInspectionDetail(ctx, classroomID)
	if err != nil {
		return core.InspectionDetail{}, translate(err)
	}
	return fromLatestDetail(r).toDetail(), nil
}

func (s *Store) CreateInspection(ctx context.Context, in core.InspectionInput) (core.Inspection, error) {
	r, err := s.q.CreateInspection(ctx, createParams(in))
	if err != nil {
		return core.Inspection{}, translate(err)
	}
	return toInspection(r), nil
}

// UpdateInspection overwrites every mutable column; created_at is untouched.
func (s *Store) UpdateInspection(ctx context.Context, id int64, in core.InspectionInput) (core.Inspection, error) {
	r, err := s.q.UpdateInspection(ctx, updateParams(id, in))
	if err != nil {
		return core.Inspection{}, translate(err)
	}
	return toInspection(r), nil
}
