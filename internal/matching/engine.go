// Package matching ranks property listings against a user's preferences.
//
// The pipeline is Merge -> Filter -> (PredictPrice, Score, Explain) -> Recommend.
// Everything in this package is pure in-memory computation; the only
// non-determinism is the variance applied by PredictPrice, which comes from
// the configured VarianceSource.
package matching

import (
	"time"

	"github.com/stwalsh4118/homematch/api/internal/models"
)

// DefaultLimit is the number of recommendations returned when Options.Limit is unset.
const DefaultLimit = 3

// Options configures an Engine. Zero values fall back to defaults.
type Options struct {
	// Variance supplies the price prediction jitter. Defaults to RandomVariance.
	Variance VarianceSource
	// Reference holds the lookup tables. Defaults to DefaultReferenceData.
	Reference *ReferenceData
	// Limit caps the number of recommendations. Defaults to DefaultLimit.
	Limit int
	// CurrentYear is used for property age. Defaults to the calendar year at call time.
	CurrentYear int
	// StrictLocationFilter makes a non-matching location exclude a listing.
	// Off by default, in which case location never removes a candidate.
	StrictLocationFilter bool
}

// Engine runs the matching pipeline with a fixed configuration.
// It holds no per-request state and is safe for concurrent use as long as
// its VarianceSource is.
type Engine struct {
	variance    VarianceSource
	ref         ReferenceData
	limit       int
	currentYear int
	strict      bool
}

// NewEngine creates an Engine from opts.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		variance:    opts.Variance,
		limit:       opts.Limit,
		currentYear: opts.CurrentYear,
		strict:      opts.StrictLocationFilter,
	}
	if e.variance == nil {
		e.variance = RandomVariance{}
	}
	if opts.Reference != nil {
		e.ref = *opts.Reference
	} else {
		e.ref = DefaultReferenceData()
	}
	if e.limit <= 0 {
		e.limit = DefaultLimit
	}
	return e
}

// Merge joins the three source collections using the engine's reference data.
func (e *Engine) Merge(basics []models.PropertyBasic, characteristics []models.PropertyCharacteristics, images []models.PropertyImage) []models.Property {
	return Merge(e.ref, basics, characteristics, images)
}

func (e *Engine) year() int {
	if e.currentYear > 0 {
		return e.currentYear
	}
	return time.Now().Year()
}

// minBedrooms treats anything below one as one.
func minBedrooms(prefs models.Preferences) int {
	if prefs.MinBedrooms < 1 {
		return 1
	}
	return prefs.MinBedrooms
}
