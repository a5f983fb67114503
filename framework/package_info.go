// Package framework runs groups of API checks with the bookkeeping of a test runner.
//
// A Context is similar to Go's *testing.T: it carries an identifier, collects errors, and
// captures debug output. Each group runs inside its own Context, so a panic or an aborted
// group is recorded as a fault of that group while the groups after it still run.
//
// The domain-specific code decides what a group does. This package only provides the
// structure: identifiers, filtering, skip handling, and progress reporting through a
// TestLogger.
package framework
