package models

// PropertyBasic is a base listing record from the listings source.
type PropertyBasic struct {
	Title    string  `json:"title"`
	Location string  `json:"location"`
	Price    float64 `json:"price"`
	ID       int     `json:"id"`
}

// PropertyCharacteristics holds the physical characteristics of a listing.
// Records are keyed by the same ID as PropertyBasic.
type PropertyCharacteristics struct {
	Amenities []string `json:"amenities"`
	SizeSqft  float64  `json:"size_sqft"`
	ID        int      `json:"id"`
	Bedrooms  int      `json:"bedrooms"`
	Bathrooms int      `json:"bathrooms"`
}

// PropertyImage maps a listing ID to its image reference.
type PropertyImage struct {
	ImageURL string `json:"image_url"`
	ID       int    `json:"id"`
}

// Property is the merged, normalized listing used for matching.
// SchoolRating, CommuteTime and YearBuilt are derived from the ID, not from market data.
// Field order is optimized for memory alignment.
type Property struct {
	ImageURL     *string  `json:"image_url"`
	Title        string   `json:"title"`
	Location     string   `json:"location"`
	Amenities    []string `json:"amenities"`
	Price        float64  `json:"price"`
	SizeSqft     float64  `json:"size_sqft"`
	SchoolRating float64  `json:"school_rating"`
	ID           int      `json:"id"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	CommuteTime  int      `json:"commute_time"`
	YearBuilt    int      `json:"year_built"`
	HasPool      bool     `json:"has_pool"`
	HasGarage    bool     `json:"has_garage"`
	HasGarden    bool     `json:"has_garden"`
}

// FeatureCount returns how many of pool, garage and garden the property has.
func (p Property) FeatureCount() int {
	count := 0
	for _, has := range []bool{p.HasPool, p.HasGarage, p.HasGarden} {
		if has {
			count++
		}
	}
	return count
}

// Preferences describes what a user is looking for.
// Budget must already be positive when it reaches the matching engine.
type Preferences struct {
	Location    string  `json:"location"`
	Budget      float64 `json:"budget"`
	MinBedrooms int     `json:"minBedrooms"`
}

// ScoreBreakdown holds the six sub-scores as rounded percentages.
type ScoreBreakdown struct {
	PriceMatch   int `json:"priceMatch"`
	Bedroom      int `json:"bedroom"`
	SchoolRating int `json:"schoolRating"`
	Commute      int `json:"commute"`
	PropertyAge  int `json:"propertyAge"`
	Amenities    int `json:"amenities"`
}

// ScoredProperty is a property annotated with its match against a set of preferences.
type ScoredProperty struct {
	Property
	Reasoning      string         `json:"reasoning"`
	ScoreBreakdown ScoreBreakdown `json:"scoreBreakdown"`
	MatchScore     float64        `json:"matchScore"`
	PredictedPrice int64          `json:"predictedPrice"`
}
