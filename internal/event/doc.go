// Package event provides the core event records and the deduplication engine.
//
// A Candidate is the raw output of one extraction pass against one venue
// page. Candidates from every venue in a city are merged by Dedupe into
// canonical Events keyed on (date, normalized name), so the same show listed
// by both its venue and an aggregator collapses to a single record.
package event
