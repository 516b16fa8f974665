package core

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DefaultProgressEvery is how many persisted rows pass between progress lines.
const DefaultProgressEvery = 50

// Reporter writes the human-readable import log: "[import] ..." lines for
// progress, skipped rows, debug traces and the final summary.
type Reporter struct {
	mu    sync.Mutex
	w     io.Writer
	every int
	debug bool
}

// NewReporter creates a reporter writing to w. every <= 0 selects
// DefaultProgressEvery.
func NewReporter(w io.Writer, every int, debug bool) *Reporter {
	if every <= 0 {
		every = DefaultProgressEvery
	}
	if w == nil {
		w = io.Discard
	}
	return &Reporter{w: w, every: every, debug: debug}
}

// Logf writes one "[import] " prefixed line.
func (r *Reporter) Logf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "[import] "+format+"\n", args...)
}

// Debugf writes a line only when debug output is enabled.
func (r *Reporter) Debugf(format string, args ...any) {
	if !r.debug {
		return
	}
	r.Logf(format, args...)
}

// Debug reports whether debug output is enabled.
func (r *Reporter) Debug() bool {
	return r.debug
}

// Imported is called after each persisted row with the running count.
func (r *Reporter) Imported(count int) {
	if count > 0 && count%r.every == 0 {
		r.Logf("Imported %d rows...", count)
	}
}

// Skipped logs a rejected row with its reason category and raw content.
func (r *Reporter) Skipped(rec Record, reason SkipReason, err error) {
	r.Logf("Skipping row at line %d [%s] (%v): %s", rec.Line, reason, err, rec.RawJSON())
}

// Done writes the final summary line and, when rows were skipped, a
// breakdown table of skip reasons.
func (r *Reporter) Done(res *ImportResult) {
	r.Logf("Done. Imported %d inspections.", res.Imported)
	if res.Skipped == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, renderSkipTable(res.SkipReasons))
}

func renderSkipTable(reasons map[SkipReason]int) string {
	keys := make([]string, 0, len(reasons))
	for k := range reasons {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Skip reason", "Rows"})
	total := 0
	for _, k := range keys {
		n := reasons[SkipReason(k)]
		total += n
		tw.AppendRow(table.Row{k, strconv.Itoa(n)})
	}
	tw.AppendFooter(table.Row{"total", strconv.Itoa(total)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}
