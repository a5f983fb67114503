package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const textRule = "============================================================"

// WriteText writes a plain-text summary: totals, one line per category, and the failures.
func WriteText(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, textRule)
	fmt.Fprintln(bw, "API CONTRACT TEST SUMMARY")
	fmt.Fprintln(bw, textRule)
	if !doc.Metadata.GeneratedAt.IsZero() {
		fmt.Fprintf(bw, "Generated:            %s\n", doc.Metadata.GeneratedAt.Format("2006-01-02 15:04:05"))
	}
	if doc.Metadata.BaseURL != "" {
		fmt.Fprintf(bw, "Base URL:             %s\n", doc.Metadata.BaseURL)
	}
	if doc.Metadata.Duration > 0 {
		fmt.Fprintf(bw, "Total execution time: %.1fs\n", doc.Metadata.Duration.Seconds())
	}
	fmt.Fprintln(bw)

	s := doc.Summary
	fmt.Fprintf(bw, "Total tests:   %d\n", s.Total)
	fmt.Fprintf(bw, "Passed:        %d\n", s.Passed)
	fmt.Fprintf(bw, "Failed:        %d\n", s.Failed)
	fmt.Fprintf(bw, "Success rate:  %s\n", percent(s.SuccessRate))
	fmt.Fprintf(bw, "Avg response:  %s\n", seconds(s.AvgResponseTime))

	if len(doc.Categories) > 0 {
		width := 0
		for _, c := range doc.Categories {
			if n := runewidth.StringWidth(c.Category); n > width {
				width = n
			}
		}
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "By category:")
		for _, c := range doc.Categories {
			marker := "✓"
			if c.SuccessRate < categoryHealthy {
				marker = "!"
			}
			fmt.Fprintf(bw, "  %s %s  %3d/%-3d  %6s\n",
				marker, runewidth.FillRight(c.Category, width), c.Passed, c.Total, percent(c.SuccessRate))
		}
	}

	var failures []string
	for _, r := range doc.Records {
		if r.Success {
			continue
		}
		line := fmt.Sprintf("  - %s / %s: expected %d, got %d", r.Category, r.Scenario, r.ExpectedStatus, r.ActualStatus)
		if r.Error != "" {
			line += " (" + strings.TrimSpace(r.Error) + ")"
		}
		failures = append(failures, line)
	}
	if len(failures) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "Failed scenarios:")
		for _, f := range failures {
			fmt.Fprintln(bw, f)
		}
	}
	fmt.Fprintln(bw, textRule)

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing text report: %w", err)
	}
	return nil
}
