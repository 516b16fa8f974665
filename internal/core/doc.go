// Package core holds the domain of the classroom inspection tracker: the
// entities, the CSV import pipeline and the query service used by the HTTP
// layer and the CLI. It has no knowledge of any particular database; the
// storage backends implement [Store].
//
// # Import Pipeline
//
// An import reads a delimited text file one record at a time:
//
//  1. [Source] decodes the bytes (Latin-1 by default) and splits records
//  2. [MapHeader] maps the first record's labels to canonical field keys
//  3. [Normalize] turns each record into a [Record] (dates, statuses, comments)
//  4. [Validate] rejects rows without identity or with unrecognized statuses
//  5. the [ImportStore] upserts classroom, inspector and inspection
//  6. [Reporter] prints progress, skipped rows and the final summary
//
// Rejected rows are skipped and counted per [SkipReason]. Storage errors end
// the run unless [ImportOptions].ContinueOnStoreError is set. Re-importing
// the same file converges to the same stored state.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with [MapError].
// Codes are grouped as DB (database), VAL (validation), FILE (source files)
// and IMP (import lifecycle).
package core
