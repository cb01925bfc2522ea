package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"sync"
)

// Status is the terminal outcome of one record.
type Status string

// Terminal record outcomes.
const (
	StatusUpdated Status = "updated"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome is the detailed result for one processed record. URL is set only
// for updated records; Err only for failed ones. For skipped records Err
// holds the human-readable skip reason.
type Outcome struct {
	Code   string
	Status Status
	URL    string
	Err    string
}

// Report accumulates outcomes and tally counters for one batch invocation.
// It is safe for concurrent use; Updated+Skipped+Failed == Total at run end.
type Report struct {
	mu       sync.Mutex
	Total    int
	Updated  int
	Skipped  int
	Failed   int
	Outcomes []Outcome
}

// Add records one terminal outcome, incrementing exactly one status counter.
func (r *Report) Add(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Total++
	switch o.Status {
	case StatusUpdated:
		r.Updated++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
	r.Outcomes = append(r.Outcomes, o)
}

// WriteCSV writes the detailed outcomes as CSV with a fixed header. When
// includeSkipped is false, skipped records are omitted from the detail rows;
// the tally counters still account for them.
func (r *Report) WriteCSV(w io.Writer, includeSkipped bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"code", "status", "url", "error"}); err != nil {
		return err
	}
	for _, o := range r.Outcomes {
		if o.Status == StatusSkipped && !includeSkipped {
			continue
		}
		if err := cw.Write([]string{o.Code, string(o.Status), o.URL, o.Err}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummary writes the one-line run tally.
func (r *Report) WriteSummary(w io.Writer) error {
	_, err := fmt.Fprintf(w, "processed %d records: %d updated, %d skipped, %d failed\n",
		r.Total, r.Updated, r.Skipped, r.Failed)
	return err
}
