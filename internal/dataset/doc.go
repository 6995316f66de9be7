// Package dataset persists the final per-city event collections.
//
// The dataset artifact is the pipeline's only public output: a JSON document
// with a generation timestamp and each city's events ordered by date. It is
// regenerated wholesale every run, never patched, so the presentation
// layer always sees a consistent snapshot. Files live under a data directory
// (default ~/.local/share/eventfeed) alongside the genre cache.
package dataset
