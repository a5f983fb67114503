package framework

import (
	"fmt"
	"strings"
)

// Results lists every group that ran and the ones that faulted.
type Results struct {
	Groups []GroupResult
	Faults []GroupResult
}

type GroupResult struct {
	ID      TestID
	Errors  []error
	Skipped bool
}

func (r Results) OK() bool {
	return len(r.Faults) == 0
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// Plus returns the ID of a child named name.
func (t TestID) Plus(name string) TestID {
	path := make([]string, 0, len(t.Path)+1)
	path = append(path, t.Path...)
	return TestID{Path: append(path, name)}
}

type GroupFault struct {
	ID  TestID
	Err error
}

func (f GroupFault) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

func (f GroupFault) Unwrap() error {
	return f.Err
}

// AllFaults flattens the errors of every faulted group.
func (r Results) AllFaults() []GroupFault {
	var ret []GroupFault
	for _, g := range r.Faults {
		for _, err := range g.Errors {
			ret = append(ret, GroupFault{ID: g.ID, Err: err})
		}
	}
	return ret
}
