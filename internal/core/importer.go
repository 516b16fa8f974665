package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/classcheck/internal/logging"
	"github.com/google/uuid"
)

// ImportOptions configures one import run.
type ImportOptions struct {
	Source        SourceOptions
	ProgressEvery int
	Debug         bool

	// ContinueOnStoreError turns a storage failure on a row into a skip
	// with reason store_error instead of aborting the run.
	ContinueOnStoreError bool
}

// ImportResult summarizes a finished (or aborted) import run.
type ImportResult struct {
	RunID       string             `json:"runId"`
	File        string             `json:"file"`
	HeaderFound bool               `json:"headerFound"`
	Rows        int                `json:"rows"`
	Imported    int                `json:"imported"`
	Inserted    int                `json:"inserted"`
	Updated     int                `json:"updated"`
	Skipped     int                `json:"skipped"`
	SkipReasons map[SkipReason]int `json:"skipReasons"`
	Checksum    string             `json:"checksum"`
	BytesRead   int64              `json:"bytesRead"`
	Duration    time.Duration      `json:"duration"`
}

func (r *ImportResult) skip(reason SkipReason) {
	r.Skipped++
	r.SkipReasons[reason]++
}

// Importer runs the CSV import pipeline: read, map header, normalize,
// validate, upsert, report. Rows are processed strictly one at a time.
type Importer struct {
	store    ImportStore
	reporter *Reporter
	opts     ImportOptions
}

// NewImporter creates an importer. A nil reporter discards progress output.
func NewImporter(store ImportStore, reporter *Reporter, opts ImportOptions) *Importer {
	if reporter == nil {
		reporter = NewReporter(io.Discard, opts.ProgressEvery, opts.Debug)
	}
	return &Importer{store: store, reporter: reporter, opts: opts}
}

// ImportFile opens path and runs the import over it. The file is closed on
// every return path.
func (im *Importer) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	im.reporter.Logf("Reading %s", path)

	src, err := OpenSource(path, im.opts.Source)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	res, err := im.Run(ctx, src)
	if res != nil {
		res.File = path
	}
	return res, err
}

// Run consumes src to the end. Invalid rows are skipped and counted; I/O
// errors and (unless ContinueOnStoreError is set) storage errors abort the
// run. Rows committed before an abort stay committed. The returned result
// is non-nil even when an error is returned.
func (im *Importer) Run(ctx context.Context, src *Source) (*ImportResult, error) {
	start := time.Now()
	res := &ImportResult{
		RunID:       uuid.NewString(),
		SkipReasons: make(map[SkipReason]int),
	}
	logger := logging.WithFields(ctx, "run_id", res.RunID)
	defer func() {
		res.Checksum = src.Checksum()
		res.BytesRead = src.BytesRead()
		res.Duration = time.Since(start)
	}()

	header, _, err := src.Next()
	if errors.Is(err, io.EOF) {
		logger.Warn("source has no header row")
		im.reporter.Done(res)
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("read header: %w", err)
	}
	res.HeaderFound = true

	hm := MapHeader(header)
	if im.reporter.Debug() {
		keys, _ := json.Marshal(hm.Keys())
		im.reporter.Debugf("Headers mapped: %s", keys)
	}
	for _, key := range []string{FieldClassroomName, FieldInspectorName} {
		if !hm.Has(key) {
			logger.Warn("header has no column for required field", "field", key)
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("import cancelled after %d rows: %w", res.Rows, err)
		}

		fields, line, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read row %d: %w", res.Rows+1, err)
		}
		res.Rows++

		rec := Normalize(fields, hm, line)
		im.reporter.Debugf("Row %d mapped: statuses=%s names={classroom:%s, inspector:%s} date=%s",
			res.Rows, rec.StatusTrace(), rec.ClassroomName, rec.InspectorName, rec.RawDate)

		if err := Validate(rec); err != nil {
			reason := SkipMissingIdentity
			var ve *ValidationError
			if errors.As(err, &ve) {
				reason = ve.Reason
			}
			res.skip(reason)
			im.reporter.Skipped(rec, reason, err)
			continue
		}

		inserted, err := im.persist(ctx, rec)
		if err != nil {
			if !im.opts.ContinueOnStoreError {
				return res, fmt.Errorf("line %d: %w", line, err)
			}
			logger.Error("row not persisted", "line", line, "error", err)
			res.skip(SkipStoreError)
			im.reporter.Skipped(rec, SkipStoreError, err)
			continue
		}

		res.Imported++
		if inserted {
			res.Inserted++
		} else {
			res.Updated++
		}
		im.reporter.Imported(res.Imported)
	}

	im.reporter.Done(res)
	logger.Info("import finished",
		"rows", res.Rows,
		"imported", res.Imported,
		"inserted", res.Inserted,
		"updated", res.Updated,
		"skipped", res.Skipped,
	)
	return res, nil
}

// persist resolves classroom and inspector by name and upserts the
// inspection. The three calls are not wrapped in a transaction: name
// resolution is idempotent, so a crash mid-row is repaired by the next run.
func (im *Importer) persist(ctx context.Context, rec Record) (bool, error) {
	classroom, err := im.store.UpsertClassroom(ctx, rec.ClassroomName)
	if err != nil {
		return false, fmt.Errorf("upsert classroom %q: %w", rec.ClassroomName, err)
	}
	inspector, err := im.store.UpsertInspector(ctx, rec.InspectorName)
	if err != nil {
		return false, fmt.Errorf("upsert inspector %q: %w", rec.InspectorName, err)
	}
	out, err := im.store.UpsertInspection(ctx, rec.Input(classroom.ID, inspector.ID))
	if err != nil {
		return false, fmt.Errorf("upsert inspection: %w", err)
	}
	return out.Inserted, nil
}
