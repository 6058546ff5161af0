package matching

import (
	"sort"

	"github.com/stwalsh4118/homematch/api/internal/models"
)

// Recommend scores every candidate, sorts by match score descending and
// returns at most the engine's limit. Equal scores keep their input order.
func (e *Engine) Recommend(candidates []models.Property, prefs models.Preferences) []models.ScoredProperty {
	scored := make([]models.ScoredProperty, 0, len(candidates))
	for _, p := range candidates {
		score := e.Score(p, prefs)
		scored = append(scored, models.ScoredProperty{
			Property:       p,
			MatchScore:     score.Total,
			PredictedPrice: score.PredictedPrice,
			ScoreBreakdown: score.Breakdown,
			Reasoning:      e.Explain(p, score, prefs),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})

	if len(scored) > e.limit {
		scored = scored[:e.limit]
	}
	return scored
}

// Recommendation is the outcome of RecommendFor.
type Recommendation struct {
	Results []models.ScoredProperty
	// Candidates is the number of listings that were scored.
	Candidates int
	// Fallback is true when the filter removed everything and the full set was scored instead.
	Fallback bool
}

// RecommendFor filters properties and recommends from the survivors. When the
// filter leaves nothing, it recommends from the unfiltered set instead.
func (e *Engine) RecommendFor(properties []models.Property, prefs models.Preferences) Recommendation {
	candidates := e.Filter(properties, prefs)
	fallback := false
	if len(candidates) == 0 {
		candidates = properties
		fallback = len(properties) > 0
	}

	return Recommendation{
		Results:    e.Recommend(candidates, prefs),
		Candidates: len(candidates),
		Fallback:   fallback,
	}
}
