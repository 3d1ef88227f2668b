// Package survey turns raw survey exports into canonical per-person records.
//
// Parsing reads tab-delimited form exports into Response values, splitting
// multi-valued answers with a batch-wide delimiter that is locked on first
// observation. Reconciliation groups responses by name, reports which fields
// disagree across a person's submissions, and picks one canonical record per
// person with the latest, earliest, or union strategy chosen by the caller.
//
// Errors are tagged with ErrSchema or ErrConsistency so callers can tell
// malformed input apart from sources that disagree about a fact.
package survey
