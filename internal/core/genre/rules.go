// Package genre holds the fixed heuristic rule table mapping acoustic
// features to genre labels, and the scoring classifier over it.
package genre

import "github.com/ewilliams-labs/timbre/internal/core/domain"

// Predicate is a boolean test over a feature vector.
type Predicate func(domain.FeatureVector) bool

// Rule couples a genre name with its ordered predicate list.
type Rule struct {
	Name       string
	Predicates []Predicate
}

func between(key string, lo, hi float64) Predicate {
	return func(fv domain.FeatureVector) bool {
		v := fv[key]
		return v > lo && v < hi
	}
}

func above(key string, lo float64) Predicate {
	return func(fv domain.FeatureVector) bool { return fv[key] > lo }
}

func below(key string, hi float64) Predicate {
	return func(fv domain.FeatureVector) bool { return fv[key] < hi }
}

// DefaultRules returns the classification table. It is built once at process
// start and read concurrently afterwards; order is part of the contract,
// because tied scores resolve to the earlier genre.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "Afrobeats",
			Predicates: []Predicate{
				between(domain.FeatTempo, 95, 125),
				above(domain.MFCCKey(1), 120),
				between(domain.FeatZeroCrossing, 0.025, 0.05),
				between(domain.FeatSpectralCentroid, 1800, 3000),
			},
		},
		{
			Name: "R&B",
			Predicates: []Predicate{
				below(domain.FeatTempo, 90),
				below(domain.MFCCKey(0), -200),
				below(domain.FeatSpectralCentroid, 2000),
				below(domain.FeatLoudness, -5),
			},
		},
		{
			Name: "Hip-Hop",
			Predicates: []Predicate{
				between(domain.FeatTempo, 80, 110),
				between(domain.MFCCKey(0), -190, -130),
				between(domain.FeatZeroCrossing, 0.015, 0.035),
			},
		},
		{
			Name: "Electronic/Pop",
			Predicates: []Predicate{
				above(domain.FeatTempo, 120),
				above(domain.FeatSpectralCentroid, 3500),
				above(domain.FeatZeroCrossing, 0.05),
			},
		},
		{
			Name: "Dancehall/Pop",
			Predicates: []Predicate{
				between(domain.FeatTempo, 100, 130),
				above(domain.FeatLoudness, -6),
				above(domain.FeatSpectralCentroid, 2500),
			},
		},
	}
}
