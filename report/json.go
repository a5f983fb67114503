package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/r2r-testing/api-contract-tests/results"
)

type jsonDocument struct {
	Summary results.Summary      `json:"summary"`
	Results []results.TestRecord `json:"results"`
}

// WriteJSON writes {"summary": ..., "results": [...]} with two-space indentation. Non-ASCII
// text is written as-is.
func WriteJSON(w io.Writer, doc Document) error {
	records := doc.Records
	if records == nil {
		records = []results.TestRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(jsonDocument{Summary: doc.Summary, Results: records}); err != nil {
		return fmt.Errorf("encoding JSON report: %w", err)
	}
	return nil
}

// ReadJSON reads a report written by WriteJSON. Category summaries are recomputed from the
// records; metadata is not stored in the JSON report.
func ReadJSON(r io.Reader) (Document, error) {
	var raw jsonDocument
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Document{}, fmt.Errorf("decoding JSON report: %w", err)
	}
	return Document{
		Summary:    raw.Summary,
		Categories: results.SummarizeByCategory(raw.Results),
		Records:    raw.Results,
	}, nil
}
