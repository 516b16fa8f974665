package core

// source.go streams records out of a delimited text file.
//
// The reader chain, innermost first:
//
//	file -> xxh3 fingerprint -> byte counter -> charset decoder -> csv.Reader
//
// Only the current record is held in memory. The fingerprint covers the raw
// bytes so two runs over an unchanged file report the same checksum.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/zeebo/xxh3"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Default source settings match the spreadsheet exports the importer was
// built for: Latin-1 text separated by semicolons.
const (
	DefaultEncoding  = "latin1"
	DefaultDelimiter = ';'
)

// ErrEmptyFile is returned when a source has no header record.
var ErrEmptyFile = errors.New("empty file: no header row found")

// SourceOptions controls decoding and splitting of a source file.
type SourceOptions struct {
	Encoding  string // latin1 (default), windows-1252, utf-8 or any WHATWG label
	Delimiter rune   // defaults to ';'
}

// LookupEncoding resolves an encoding name. Latin-1 is real ISO-8859-1 here,
// not the WHATWG alias for Windows-1252.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "latin1", "latin-1", "iso-8859-1", "iso8859-1", "l1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("encoding error: unsupported encoding %q", name)
	}
	return enc, nil
}

// Source yields trimmed, non-empty records one at a time.
type Source struct {
	closer  io.Closer
	hash    *xxh3.Hasher
	counter *countingReader
	csv     *csv.Reader
}

// OpenSource opens path for streaming. The caller must Close the Source.
func OpenSource(path string, opts SourceOptions) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	src, err := NewSource(f, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	src.closer = f
	return src, nil
}

// NewSource wraps an arbitrary reader, e.g. an uploaded multipart file.
func NewSource(r io.Reader, opts SourceOptions) (*Source, error) {
	enc, err := LookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}
	delim := opts.Delimiter
	if delim == 0 {
		delim = DefaultDelimiter
	}
	if delim == '"' || delim == '\r' || delim == '\n' || !utf8.ValidRune(delim) {
		return nil, fmt.Errorf("invalid csv delimiter %q", delim)
	}

	hash := xxh3.New()
	counter := &countingReader{reader: io.TeeReader(r, hash)}
	decoded := transform.NewReader(counter, enc.NewDecoder())

	cr := csv.NewReader(decoded)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	return &Source{hash: hash, counter: counter, csv: cr}, nil
}

// Next returns the next record with every cell trimmed, and its 1-based
// line number. Blank and whitespace-only lines are skipped; a line of empty
// delimited cells such as ";;;" is returned so the importer can reject it.
// At the end of input it returns io.EOF.
func (s *Source) Next() ([]string, int, error) {
	for {
		rec, err := s.csv.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, 0, io.EOF
			}
			return nil, 0, fmt.Errorf("invalid csv: %w", err)
		}
		line, _ := s.csv.FieldPos(0)

		for i, v := range rec {
			rec[i] = strings.TrimSpace(v)
		}
		if len(rec) == 1 && rec[0] == "" {
			continue
		}
		return rec, line, nil
	}
}

// BytesRead is the number of raw bytes consumed so far.
func (s *Source) BytesRead() int64 {
	return s.counter.n
}

// Checksum is the hex xxh3 digest of the raw bytes consumed so far.
func (s *Source) Checksum() string {
	return fmt.Sprintf("%016x", s.hash.Sum64())
}

// Close releases the underlying file, if any.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// countingReader tracks bytes read for the run summary.
type countingReader struct {
	reader io.Reader
	n      int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.n += int64(n)
	return n, err
}
