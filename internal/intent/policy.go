package intent

import "github.com/campuspilot/campuspilot/pkg/models"

// DefaultThreshold is the confidence floor below which a prediction is
// discarded in favor of the general path. Deliberately low: the
// fallback is a last resort, not a quality bar. Tunable via config.
const DefaultThreshold = 0.15

// Policy decides the effective intent for a classification result.
type Policy struct {
	Threshold float64
}

// NewPolicy builds a policy with the given confidence floor. A zero or
// negative threshold falls back to DefaultThreshold.
func NewPolicy(threshold float64) Policy {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return Policy{Threshold: threshold}
}

// Resolve converts a raw classification result into an actionable
// intent. Total over all inputs: an errored result, an absent label, or
// confidence below the threshold all resolve to General; anything else
// resolves through the label table. Never returns a value outside the
// closed intent set.
func (p Policy) Resolve(res models.ClassificationResult) Intent {
	if res.Err != "" || res.Label == "" {
		return General
	}
	if res.Confidence < p.Threshold {
		return General
	}
	return FromLabel(res.Label)
}
