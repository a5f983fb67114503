// Package results holds the record of every scenario that ran and the statistics derived
// from it.
package results

import (
	"time"

	"github.com/r2r-testing/api-contract-tests/client"
)

// TestRecord is the outcome of one scenario. Success is true exactly when the actual status
// equals the expected status.
type TestRecord struct {
	Timestamp      time.Time     `json:"timestamp"`
	Category       string        `json:"category"`
	Scenario       string        `json:"scenario"`
	Description    string        `json:"description"`
	Success        bool          `json:"success"`
	ExpectedStatus int           `json:"expected_status"`
	ActualStatus   int           `json:"actual_status"`
	ResponseTime   float64       `json:"response_time"`
	URL            string        `json:"url"`
	Method         client.Method `json:"method"`
	Attempts       int           `json:"attempts,omitempty"`
	Error          string        `json:"error,omitempty"`
	ResponseBody   client.Body   `json:"response_body"`
}

// NewRecord builds a record from a transport outcome.
func NewRecord(
	now time.Time,
	category, scenario, description string,
	outcome client.Outcome,
	expected int,
) TestRecord {
	return TestRecord{
		Timestamp:      now,
		Category:       category,
		Scenario:       scenario,
		Description:    description,
		Success:        outcome.StatusCode == expected,
		ExpectedStatus: expected,
		ActualStatus:   outcome.StatusCode,
		ResponseTime:   outcome.Elapsed.Seconds(),
		URL:            outcome.URL,
		Method:         outcome.Method,
		Attempts:       outcome.Attempts,
		Error:          outcome.Error,
		ResponseBody:   outcome.Body,
	}
}
