package matching

import (
	"math"
	"math/rand/v2"

	"github.com/stwalsh4118/homematch/api/internal/models"
)

// Price prediction constants.
const (
	ReferenceSizeSqft = 1500.0
	MinVariance       = 0.95
	MaxVariance       = 1.05
)

// VarianceSource supplies the multiplier applied to a predicted price.
type VarianceSource interface {
	Variance() float64
}

// FixedVariance always returns the same multiplier. Use FixedVariance(1.0) to
// make predictions deterministic.
type FixedVariance float64

// Variance returns f.
func (f FixedVariance) Variance() float64 {
	return float64(f)
}

// RandomVariance draws a uniform multiplier in [MinVariance, MaxVariance].
// The zero value uses the global generator and is safe for concurrent use.
// A seeded RandomVariance is not.
type RandomVariance struct {
	rng *rand.Rand
}

// NewSeededVariance returns a reproducible RandomVariance.
func NewSeededVariance(seed uint64) RandomVariance {
	return RandomVariance{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Variance returns the next multiplier.
func (r RandomVariance) Variance() float64 {
	var u float64
	if r.rng != nil {
		u = r.rng.Float64()
	} else {
		u = rand.Float64()
	}
	return MinVariance + u*(MaxVariance-MinVariance)
}

// PredictPrice estimates a listing's market price from its attributes.
// It is a heuristic, not a trained model: the listing price is scaled by size,
// city, bedrooms, amenities and age, then jittered by the engine's VarianceSource.
// The result is always at least 1 for a positive listing price.
func (e *Engine) PredictPrice(p models.Property) int64 {
	sizeMultiplier := 1.0
	if p.SizeSqft > 0 {
		sizeMultiplier = p.SizeSqft / ReferenceSizeSqft
	}
	locationMultiplier := e.ref.locationMultiplier(p.Location)
	bedroomFactor := 1 + float64(p.Bedrooms-2)*0.05
	amenityFactor := 1 + float64(len(p.Amenities))*0.02
	ageFactor := e.ageFactor(p.YearBuilt)

	predicted := p.Price * sizeMultiplier * locationMultiplier * bedroomFactor * amenityFactor * ageFactor

	price := int64(math.Round(predicted * e.variance.Variance()))
	if price < 1 && p.Price > 0 {
		price = 1
	}
	return price
}

// ageFactor rewards newer construction. An unknown year is neutral.
func (e *Engine) ageFactor(yearBuilt int) float64 {
	if yearBuilt == 0 {
		return 1.0
	}
	age := e.year() - yearBuilt
	switch {
	case age <= 2:
		return 1.05
	case age <= 5:
		return 1.02
	case age <= 10:
		return 1.0
	case age <= 20:
		return 0.95
	default:
		return 0.90
	}
}
