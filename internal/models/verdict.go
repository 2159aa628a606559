// ABOUTME: Verdict and result types produced by classifiers and aggregators
// ABOUTME: Per-chunk verdicts map to one conversation-level AggregatedVerdict
package models

import "sort"

// Label is the categorical outcome of classifying one chunk.
type Label string

const (
	LabelYes    Label = "yes"
	LabelNo     Label = "no"
	LabelUnsure Label = "unsure"

	// LabelUnresolved marks a chunk whose verdict could not be produced
	// (transport failure after retries, or unparseable model output).
	// Unresolved entries are excluded from aggregation denominators but
	// always surfaced in output.
	LabelUnresolved Label = "unresolved"
)

// Verdict is a classifier's structured judgment about one chunk.
// Confidence is 0 when the classifier family does not report one;
// v2 classifiers report 1 (least confident) through 5 (most confident).
type Verdict struct {
	Positive   bool  `json:"positive"`
	Label      Label `json:"label"`
	Confidence int   `json:"confidence,omitempty"`
}

// Resolved reports whether the verdict was actually produced by the model,
// as opposed to recorded as a failure sentinel.
func (v Verdict) Resolved() bool {
	return v.Label != LabelUnresolved
}

// Unresolved is the sentinel verdict recorded for a failed chunk.
func Unresolved() Verdict {
	return Verdict{Label: LabelUnresolved}
}

// ClassificationResult maps chunk identifier to parsed verdict for one
// (conversation, classifier) pair. Produced once per invocation and never
// mutated afterward; re-classification builds a new result.
type ClassificationResult map[int]Verdict

// ChunkIDs returns the chunk identifiers in ascending order. Map iteration
// order is not deterministic, so every consumer that cares about ordering
// goes through this.
func (r ClassificationResult) ChunkIDs() []int {
	ids := make([]int, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Unresolved returns the number of unresolved entries.
func (r ClassificationResult) Unresolved() int {
	n := 0
	for _, v := range r {
		if !v.Resolved() {
			n++
		}
	}
	return n
}

// AggregatedVerdict is the conversation-level label for one classifier,
// derived from a ClassificationResult by an aggregation policy. It is a
// pure function of the result set; Score is only meaningful for policies
// that produce one (the expected-ANY policy).
type AggregatedVerdict struct {
	Positive   bool    `json:"positive"`
	Score      float64 `json:"score,omitempty"`
	Positives  int     `json:"positives"`
	Negatives  int     `json:"negatives"`
	Unresolved int     `json:"unresolved,omitempty"`
}
