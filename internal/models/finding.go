// Package models defines data structures for the discovery pipeline.
package models

import (
	"fmt"
	"time"
)

// UnknownSource replaces a blank source label.
const UnknownSource = "unknown"

// RawRow is one input record as read from the feed.
type RawRow struct {
	URL    string `json:"url"`
	Source string `json:"source"`
	// Line is the 1-based line of the row in the input; the header is line 1.
	Line int `json:"-"`
}

// NormalizedURL is a scheme-qualified URL with its dedup fingerprint.
type NormalizedURL struct {
	URL         string
	Fingerprint string
}

// Finding is one validated, deduplicated candidate phishing URL. Field order
// is the order of keys in the findings file.
type Finding struct {
	URL          string    `json:"url"`
	DiscoveredAt time.Time `json:"discovered_at"`
	Source       string    `json:"source"`
	RiskScore    *float64  `json:"risk_score"`
}

// SkipReason explains why a row produced no Finding.
type SkipReason string

// Skip reasons.
const (
	SkipNone      SkipReason = ""
	SkipEmpty     SkipReason = "empty"
	SkipDuplicate SkipReason = "duplicate"
	SkipInvalid   SkipReason = "invalid"
)

// Outcome is the result of processing a single row: either an accepted
// Finding or a skip with its reason.
type Outcome struct {
	Finding *Finding
	Err     error
	Skip    SkipReason
}

// Accepted reports whether the row produced a Finding.
func (o Outcome) Accepted() bool {
	return o.Finding != nil && o.Skip == SkipNone
}

// IngestionReport counts rows per outcome for one run.
type IngestionReport struct {
	Read             int `json:"read"`
	Accepted         int `json:"accepted"`
	SkippedEmpty     int `json:"skipped_empty"`
	SkippedDuplicate int `json:"skipped_duplicate"`
	SkippedInvalid   int `json:"skipped_invalid"`
}

// Count tallies a single outcome.
func (r *IngestionReport) Count(o Outcome) {
	r.Read++

	switch o.Skip {
	case SkipNone:
		r.Accepted++
	case SkipEmpty:
		r.SkippedEmpty++
	case SkipDuplicate:
		r.SkippedDuplicate++
	case SkipInvalid:
		r.SkippedInvalid++
	}
}

// Skipped returns the total number of rows that were not accepted.
func (r IngestionReport) Skipped() int {
	return r.SkippedEmpty + r.SkippedDuplicate + r.SkippedInvalid
}

// String returns a one-line summary of the report.
func (r IngestionReport) String() string {
	return fmt.Sprintf(
		"read=%d accepted=%d skipped=%d (empty=%d duplicate=%d invalid=%d)",
		r.Read,
		r.Accepted,
		r.Skipped(),
		r.SkippedEmpty,
		r.SkippedDuplicate,
		r.SkippedInvalid,
	)
}
