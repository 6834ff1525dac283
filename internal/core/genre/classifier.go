package genre

import (
	"math"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
)

// minConfidence is the score floor below which a verdict is discarded as
// Unknown.
const minConfidence = 0.5

// Classify scores fv against every rule and returns the best genre with its
// confidence, the fraction of that genre's predicates that passed. Ties
// resolve to the first-declared rule. A best score under 0.5 comes back as
// the Unknown label with zero confidence. Pure and stateless: identical
// inputs always yield identical results.
func Classify(fv domain.FeatureVector, rules []Rule) domain.Classification {
	best := -1.0
	bestName := domain.UnknownGenre
	for _, rule := range rules {
		if len(rule.Predicates) == 0 {
			continue
		}
		passed := 0
		for _, p := range rule.Predicates {
			if p(fv) {
				passed++
			}
		}
		if score := float64(passed) / float64(len(rule.Predicates)); score > best {
			best = score
			bestName = rule.Name
		}
	}
	if best < minConfidence {
		return domain.Classification{Genre: domain.UnknownGenre, Confidence: 0}
	}
	return domain.Classification{Genre: bestName, Confidence: round2(best)}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
