package framework

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
	ctx        context.Context
}

// Context is the state of one group of checks, such as a scenario category. A failure or
// panic inside a group is recorded against that group only.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
}

// Run executes the top-level action. ctx is what nested groups and HTTP calls observe for
// cancellation; filter applies to the IDs passed to Included.
func Run(
	ctx context.Context,
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
		ctx:        ctx,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil && !c.skipped {
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("group aborted with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
		if len(c.id.Path) == 0 {
			return
		}
		result := GroupResult{ID: c.id, Errors: c.errors, Skipped: c.skipped}
		c.env.results.Groups = append(c.env.results.Groups, result)
		if c.failed {
			c.env.results.Faults = append(c.env.results.Faults, result)
		}
	}()

	action(c)
}

func (c *Context) ID() TestID {
	return c.id
}

// Context returns the run's context.Context.
func (c *Context) Context() context.Context {
	return c.env.ctx
}

// Cancelled is true once the run's context is done.
func (c *Context) Cancelled() bool {
	return c.env.ctx.Err() != nil
}

// Run executes a nested group. A panic or FailNow inside action ends that group only.
func (c *Context) Run(name string, action func(*Context)) {
	id := c.id.Plus(name)

	c.env.testLogger.TestStarted(id)
	if c.Cancelled() {
		c.env.testLogger.TestSkipped(id, "run cancelled")
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

// Included reports whether the check with the given name below this group passes the run's
// filter. An excluded check is logged as skipped.
func (c *Context) Included(name string) bool {
	id := c.id.Plus(name)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return false
	}
	return true
}

// Skipped logs that the check with the given name below this group was not performed.
func (c *Context) Skipped(name, reason string) {
	c.env.testLogger.TestSkipped(c.id.Plus(name), reason)
}

// Warnf reports a problem that does not fail the group.
func (c *Context) Warnf(format string, args ...interface{}) {
	c.env.testLogger.TestWarning(c.id, fmt.Sprintf(format, args...))
}

func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

func (c *Context) Failed() bool {
	return c.failed
}

func (c *Context) FailNow() {
	panic(c)
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}
