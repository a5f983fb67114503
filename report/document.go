// Package report renders the records of a run as JSON, HTML, text, and XLSX files.
package report

import (
	"time"

	"github.com/r2r-testing/api-contract-tests/results"

	"github.com/shopspring/decimal"
)

// Metadata describes the run that produced a Document.
type Metadata struct {
	GeneratedAt time.Time
	BaseURL     string
	APIVersion  string
	Duration    time.Duration
}

// Document is everything a report shows. Emitters only read it.
type Document struct {
	Metadata   Metadata
	Summary    results.Summary
	Categories []results.CategorySummary
	Records    []results.TestRecord
}

// NewDocument aggregates records into a Document.
func NewDocument(meta Metadata, records []results.TestRecord) Document {
	return Document{
		Metadata:   meta,
		Summary:    results.Summarize(records),
		Categories: results.SummarizeByCategory(records),
		Records:    append([]results.TestRecord(nil), records...),
	}
}

// categoryHealthy is the per-category success rate at or above which a category is marked good.
const categoryHealthy = 80.0

func percent(rate float64) string {
	return decimal.NewFromFloat(rate).StringFixed(1) + "%"
}

func seconds(s float64) string {
	return decimal.NewFromFloat(s).StringFixed(3) + "s"
}
