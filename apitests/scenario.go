package apitests

import (
	"fmt"

	"github.com/r2r-testing/api-contract-tests/client"
)

// BuildFunc produces the request for a scenario from the current session. Returning the error
// from Skip skips the scenario; any other error aborts the rest of the category.
type BuildFunc func(s *Session) (client.RequestSpec, error)

// CaptureFunc extracts state from a response for later scenarios.
type CaptureFunc func(s *Session, outcome client.Outcome)

// Scenario is one request paired with the status code it should get.
type Scenario struct {
	Label       string
	Description string
	Expect      int
	Build       BuildFunc
	Capture     CaptureFunc
	// Anonymous scenarios are sent without the session's token.
	Anonymous bool
	// Repeat runs the scenario this many times, labelled "<Label> #i/n". Zero means once.
	Repeat int
}

// Category is a named, ordered group of scenarios. Categories run in catalog order.
type Category struct {
	Name      string
	Scenarios []Scenario
}

// Catalog is the full set of scenarios for one API. Probe runs first and only warns on failure.
type Catalog struct {
	Name       string
	Probe      Scenario
	Categories []Category
}

// SkipError means a scenario's preconditions were not met.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return "skipped: " + e.Reason
}

// Skip returns an error that makes the runner skip the scenario without recording it.
func Skip(reason string, args ...interface{}) error {
	if len(args) > 0 {
		reason = fmt.Sprintf(reason, args...)
	}
	return &SkipError{Reason: reason}
}

type scenarioRun struct {
	label string
	index int
	// unfiltered runs are not subject to the run's filter
	unfiltered bool
}

func (sc Scenario) runs() []scenarioRun {
	if sc.Repeat <= 1 {
		return []scenarioRun{{label: sc.Label}}
	}
	ret := make([]scenarioRun, 0, sc.Repeat)
	for i := 1; i <= sc.Repeat; i++ {
		ret = append(ret, scenarioRun{label: fmt.Sprintf("%s #%d/%d", sc.Label, i, sc.Repeat), index: i})
	}
	return ret
}
