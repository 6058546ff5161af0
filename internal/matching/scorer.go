package matching

import (
	"math"

	"github.com/stwalsh4118/homematch/api/internal/models"
)

// Sub-score weights. They sum to 1.0.
const (
	WeightPriceMatch   = 0.30
	WeightBedroom      = 0.20
	WeightSchoolRating = 0.15
	WeightCommute      = 0.15
	WeightPropertyAge  = 0.10
	WeightAmenities    = 0.10
)

// SubScores are the unrounded 0-100 components of a match score.
type SubScores struct {
	PriceMatch   float64
	Bedroom      float64
	SchoolRating float64
	Commute      float64
	PropertyAge  float64
	Amenities    float64
}

// Weighted returns the weighted sum of the sub-scores.
func (s SubScores) Weighted() float64 {
	return WeightPriceMatch*s.PriceMatch +
		WeightBedroom*s.Bedroom +
		WeightSchoolRating*s.SchoolRating +
		WeightCommute*s.Commute +
		WeightPropertyAge*s.PropertyAge +
		WeightAmenities*s.Amenities
}

// Breakdown rounds each sub-score independently. The rounded values are not
// guaranteed to reproduce the total when re-weighted.
func (s SubScores) Breakdown() models.ScoreBreakdown {
	return models.ScoreBreakdown{
		PriceMatch:   int(math.Round(s.PriceMatch)),
		Bedroom:      int(math.Round(s.Bedroom)),
		SchoolRating: int(math.Round(s.SchoolRating)),
		Commute:      int(math.Round(s.Commute)),
		PropertyAge:  int(math.Round(s.PropertyAge)),
		Amenities:    int(math.Round(s.Amenities)),
	}
}

// Score is the result of scoring one listing.
type Score struct {
	Raw            SubScores
	Breakdown      models.ScoreBreakdown
	Total          float64 // 0-100, one decimal place
	PredictedPrice int64
}

// Score computes the weighted match of p against prefs.
func (e *Engine) Score(p models.Property, prefs models.Preferences) Score {
	predicted := e.PredictPrice(p)

	raw := SubScores{
		PriceMatch:   priceMatchScore(predicted, prefs.Budget),
		Bedroom:      bedroomScore(p.Bedrooms, minBedrooms(prefs)),
		SchoolRating: clampPercent(p.SchoolRating / 10 * 100),
		Commute:      commuteScore(p.CommuteTime),
		PropertyAge:  propertyAgeScore(e.year() - p.YearBuilt),
		Amenities:    float64(p.FeatureCount()) / 3 * 100,
	}

	return Score{
		Raw:            raw,
		Breakdown:      raw.Breakdown(),
		Total:          math.Round(raw.Weighted()*10) / 10,
		PredictedPrice: predicted,
	}
}

func priceMatchScore(predicted int64, budget float64) float64 {
	price := float64(predicted)
	if price <= budget {
		return 100
	}
	if budget <= 0 {
		return 0
	}
	return math.Max(0, 100-(price-budget)/budget*100)
}

func bedroomScore(bedrooms, wanted int) float64 {
	if bedrooms >= wanted {
		return 100
	}
	return float64(bedrooms) / float64(wanted) * 100
}

func commuteScore(minutes int) float64 {
	switch {
	case minutes <= 15:
		return 100
	case minutes <= 30:
		return 80
	case minutes <= 45:
		return 50
	default:
		return 20
	}
}

func propertyAgeScore(age int) float64 {
	switch {
	case age <= 5:
		return 100
	case age <= 15:
		return 80
	case age <= 30:
		return 60
	default:
		return 40
	}
}

func clampPercent(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}
