// Package extract turns raw venue pages into event candidates.
//
// Extraction runs a small ordered set of strategies against each page and
// stops at the first one that yields results. Structured schema.org
// annotations are preferred because their dates are unambiguous; plain-text
// pattern matching and heading proximity are progressively fuzzier fallbacks
// for venues that publish nothing machine-readable.
//
// Extraction never fails a run: a page nothing can parse simply contributes
// zero candidates.
package extract
