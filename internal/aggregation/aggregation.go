// ABOUTME: Aggregation policies reducing per-chunk verdicts to one label
// ABOUTME: ANY / ALL / ADJUSTED / expected-ANY; unresolved entries excluded
package aggregation

import (
	"fmt"
	"math/big"

	"github.com/harper/emoclassify/internal/models"
	"github.com/samber/lo"
)

// Policy is the reduction rule turning per-chunk verdicts into one
// conversation-level verdict. The policy is selected by the caller per run,
// so the same ClassificationResult can be re-aggregated under several
// policies without re-running classification.
type Policy string

const (
	// PolicyAny is positive iff at least one resolved verdict is positive.
	PolicyAny Policy = "any"
	// PolicyAll is positive iff the resolved set is non-empty and every
	// resolved verdict is positive. An empty set is negative, not
	// vacuously positive.
	PolicyAll Policy = "all"
	// PolicyAdjusted is ANY restricted to verdicts meeting the
	// classifier's confidence threshold; weak positives do not count.
	PolicyAdjusted Policy = "adjusted"
	// PolicyExpected scores the probability that sampling AvgNumChunks
	// chunks uniformly would contain at least one positive. Normalizes
	// ANY across conversations of very different lengths.
	PolicyExpected Policy = "expected"
)

// Valid reports whether p names a known policy.
func (p Policy) Valid() bool {
	switch p {
	case PolicyAny, PolicyAll, PolicyAdjusted, PolicyExpected:
		return true
	}
	return false
}

// DefaultAvgNumChunks is the sample size used by PolicyExpected when the
// caller does not configure one.
const DefaultAvgNumChunks = 20

// Options carries the classifier-specific knobs some policies need. Both
// come from configuration, not from global constants.
type Options struct {
	// MinConfidence is the confidence floor for PolicyAdjusted. Zero
	// means no floor, making ADJUSTED behave like ANY for classifier
	// families that report no confidence.
	MinConfidence int
	// AvgNumChunks is the sample size for PolicyExpected.
	AvgNumChunks int
}

// Aggregate reduces a ClassificationResult to one AggregatedVerdict under
// the given policy. It is a pure function of its inputs: no external state,
// deterministic for a fixed policy. Unresolved entries count toward neither
// positives nor negatives but are reported on the verdict.
func Aggregate(result models.ClassificationResult, policy Policy, opts Options) (models.AggregatedVerdict, error) {
	resolved := make([]models.Verdict, 0, len(result))
	unresolved := 0
	for _, id := range result.ChunkIDs() {
		v := result[id]
		if !v.Resolved() {
			unresolved++
			continue
		}
		resolved = append(resolved, v)
	}

	positives := lo.CountBy(resolved, func(v models.Verdict) bool { return v.Positive })
	verdict := models.AggregatedVerdict{
		Positives:  positives,
		Negatives:  len(resolved) - positives,
		Unresolved: unresolved,
	}

	switch policy {
	case PolicyAny:
		verdict.Positive = positives > 0
	case PolicyAll:
		verdict.Positive = len(resolved) > 0 && positives == len(resolved)
	case PolicyAdjusted:
		strong := lo.CountBy(resolved, func(v models.Verdict) bool {
			return v.Positive && v.Confidence >= opts.MinConfidence
		})
		verdict.Positive = strong > 0
	case PolicyExpected:
		n := opts.AvgNumChunks
		if n <= 0 {
			n = DefaultAvgNumChunks
		}
		verdict.Score = expectedAny(positives, len(resolved), n)
		verdict.Positive = verdict.Score > 0
	default:
		return models.AggregatedVerdict{}, fmt.Errorf("unknown aggregation policy %q", policy)
	}
	return verdict, nil
}

// expectedAny returns the probability that a uniform sample of sampleSize
// chunks (without replacement) from total chunks contains at least one of
// the positive ones.
func expectedAny(positives, total, sampleSize int) float64 {
	if positives == 0 {
		return 0
	}
	// Sampling the entire set (or more) always hits a positive.
	if sampleSize >= total {
		return 1
	}
	negatives := total - positives
	if negatives < sampleSize {
		// Not enough negatives to fill a sample; some positive is
		// always drawn.
		return 1
	}
	allNegative := new(big.Rat).SetFrac(
		new(big.Int).Binomial(int64(negatives), int64(sampleSize)),
		new(big.Int).Binomial(int64(total), int64(sampleSize)),
	)
	probAllNegative, _ := allNegative.Float64()
	return 1 - probAllNegative
}
