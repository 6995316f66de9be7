// Package cli implements the command-line interface for eventfeed.
//
// The cli package provides the Cobra-based CLI that runs one aggregation
// pass: it wires flags into a pipeline configuration, executes the run, and
// reports the summary as text or JSON.
package cli
