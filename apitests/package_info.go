// Package apitests contains the scenario runner and the scenario catalog for the API under test.
//
// A Catalog is an ordered list of categories, each an ordered list of scenarios. Scenarios
// build their request from a Session, which carries the login token and the IDs of entities
// created by earlier scenarios. A scenario whose preconditions are missing returns Skip and
// produces no record; any other build failure aborts the rest of its category only.
package apitests
