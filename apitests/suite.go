package apitests

import (
	"context"
	"errors"
	"time"

	"github.com/r2r-testing/api-contract-tests/client"
	"github.com/r2r-testing/api-contract-tests/framework"
	"github.com/r2r-testing/api-contract-tests/results"
)

// DefaultDelay is the pause between consecutive scenarios.
const DefaultDelay = 20 * time.Millisecond

type Options struct {
	Filter     framework.Filter
	TestLogger framework.TestLogger
	// DebugLogger also receives each category's debug output as it happens.
	DebugLogger framework.Logger
	// Delay between scenarios. Zero or negative disables the pause.
	Delay time.Duration
}

type runner struct {
	client   *client.Client
	recorder *results.Recorder
	session  *Session
	opts     Options
	started  bool
}

// RunTestSuite probes the API, then runs every category of the catalog in order. Each
// attempted scenario appends exactly one record to recorder. A category that faults is
// reported in the returned Results and the next category still runs.
func RunTestSuite(
	ctx context.Context,
	cl *client.Client,
	recorder *results.Recorder,
	catalog Catalog,
	opts Options,
) framework.Results {
	r := &runner{
		client:   cl,
		recorder: recorder,
		session:  NewSession(),
		opts:     opts,
	}
	return framework.Run(ctx, opts.Filter, opts.TestLogger, func(c *framework.Context) {
		if catalog.Probe.Build != nil {
			c.Run(ProbeCategory, r.probe(catalog.Probe))
		}
		for _, category := range catalog.Categories {
			c.Run(category.Name, r.category(category))
		}
	})
}

// ProbeCategory is the category under which the availability probe is recorded.
const ProbeCategory = "System Health"

func (r *runner) probe(sc Scenario) func(*framework.Context) {
	return func(c *framework.Context) {
		rec, ok := r.runScenario(c, ProbeCategory, sc, scenarioRun{label: sc.Label, unfiltered: true})
		if ok && !rec.Success {
			if rec.Error != "" {
				c.Warnf("API is not reachable (%s); continuing with the remaining categories", rec.Error)
			} else {
				c.Warnf("API health check returned status %d; continuing with the remaining categories", rec.ActualStatus)
			}
		}
	}
}

func (r *runner) category(category Category) func(*framework.Context) {
	return func(c *framework.Context) {
		for _, sc := range category.Scenarios {
			for _, run := range sc.runs() {
				if c.Cancelled() {
					c.SkipWithReason("run cancelled")
				}
				r.runScenario(c, category.Name, sc, run)
			}
		}
	}
}

// runScenario builds, sends, and records one scenario. The second return value is false if
// the scenario was skipped.
func (r *runner) runScenario(
	c *framework.Context,
	category string,
	sc Scenario,
	run scenarioRun,
) (results.TestRecord, bool) {
	if !run.unfiltered && !c.Included(run.label) {
		return results.TestRecord{}, false
	}

	r.session.iteration = run.index
	spec, err := sc.Build(r.session)
	r.session.iteration = 0
	if err != nil {
		var skip *SkipError
		if errors.As(err, &skip) {
			c.Skipped(run.label, skip.Reason)
			return results.TestRecord{}, false
		}
		c.Errorf("%s: %w", run.label, err)
		c.FailNow()
	}

	r.pause(c)

	token := r.session.Token()
	if sc.Anonymous {
		token = ""
	}
	cl := r.client.WithDebugLogger(framework.MultiLogger(c.DebugLogger(), r.opts.DebugLogger))
	outcome := cl.Do(c.Context(), spec, token)

	rec := r.recorder.Record(category, run.label, sc.Description, outcome, sc.Expect)
	if sc.Capture != nil {
		sc.Capture(r.session, outcome)
	}
	return rec, true
}

// pause waits between scenarios, but not before the first one.
func (r *runner) pause(c *framework.Context) {
	if !r.started {
		r.started = true
		return
	}
	if r.opts.Delay <= 0 {
		return
	}
	timer := time.NewTimer(r.opts.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-c.Context().Done():
	}
}
