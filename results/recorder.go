package results

import (
	"fmt"
	"io"
	"time"

	"github.com/r2r-testing/api-contract-tests/client"

	"github.com/fatih/color"
)

var (
	passMarker = color.New(color.FgGreen, color.Bold).Sprint("✓")
	failMarker = color.New(color.FgRed, color.Bold).Sprint("✗")
)

// Recorder appends records in execution order and prints a status line for each one.
// It is not safe for concurrent use; scenarios run one at a time.
type Recorder struct {
	records []TestRecord
	out     io.Writer
	now     func() time.Time
}

// NewRecorder creates a Recorder that writes status lines to out, which may be nil.
func NewRecorder(out io.Writer) *Recorder {
	if out == nil {
		out = io.Discard
	}
	return &Recorder{out: out, now: time.Now}
}

// Record appends a record for the outcome and returns it.
func (r *Recorder) Record(category, scenario, description string, outcome client.Outcome, expected int) TestRecord {
	rec := NewRecord(r.now(), category, scenario, description, outcome, expected)
	r.records = append(r.records, rec)
	r.printStatus(rec)
	return rec
}

func (r *Recorder) printStatus(rec TestRecord) {
	marker := passMarker
	if !rec.Success {
		marker = failMarker
	}
	fmt.Fprintf(r.out, "%s %s - %s: %d (%.2fs)\n",
		marker, rec.Category, rec.Scenario, rec.ActualStatus, rec.ResponseTime)
	if !rec.Success {
		if rec.Error != "" {
			fmt.Fprintf(r.out, "    expected %d, request failed: %s\n", rec.ExpectedStatus, rec.Error)
		} else {
			fmt.Fprintf(r.out, "    expected %d\n", rec.ExpectedStatus)
		}
	}
}

// Records returns a copy of the records appended so far.
func (r *Recorder) Records() []TestRecord {
	return append([]TestRecord(nil), r.records...)
}

func (r *Recorder) Len() int {
	return len(r.records)
}

// Summary aggregates the records appended so far.
func (r *Recorder) Summary() Summary {
	return Summarize(r.records)
}

// Categories aggregates the records appended so far by category.
func (r *Recorder) Categories() []CategorySummary {
	return SummarizeByCategory(r.records)
}
