package matching

import "strings"

// CityMultiplier scales a predicted price for listings in a given city.
type CityMultiplier struct {
	City       string
	Multiplier float64
}

// ReferenceData holds the static lookup tables used when merging and pricing listings.
// The cyclic tables are indexed by (id - 1) modulo their length.
type ReferenceData struct {
	SchoolRatings   []float64
	CommuteTimes    []int
	YearsBuilt      []int
	CityMultipliers []CityMultiplier
	PoolKeywords    []string
	GarageKeywords  []string
	GardenKeywords  []string
}

// DefaultReferenceData returns the built-in demo tables.
// Each call returns fresh slices so callers may modify the result freely.
func DefaultReferenceData() ReferenceData {
	return ReferenceData{
		SchoolRatings: []float64{8.5, 7.2, 9.1, 6.8, 8.9, 7.5, 8.0, 7.8, 9.3, 8.2},
		CommuteTimes:  []int{25, 35, 45, 20, 50, 15, 40, 30, 55, 28},
		YearsBuilt:    []int{2018, 2005, 2020, 2015, 2022, 2010, 1998, 2019, 2021, 2023},
		// Matched in order; the first city contained in the location wins.
		CityMultipliers: []CityMultiplier{
			{City: "new york", Multiplier: 1.15},
			{City: "san francisco", Multiplier: 1.20},
			{City: "los angeles", Multiplier: 1.10},
			{City: "miami", Multiplier: 1.05},
			{City: "austin", Multiplier: 0.95},
			{City: "dallas", Multiplier: 0.92},
			{City: "chicago", Multiplier: 1.00},
			{City: "seattle", Multiplier: 1.08},
			{City: "boston", Multiplier: 1.12},
		},
		PoolKeywords:   []string{"pool", "swimming"},
		GarageKeywords: []string{"garage", "parking"},
		GardenKeywords: []string{"garden", "backyard", "yard"},
	}
}

// cyclicIndex maps a listing ID onto a table of length n.
func cyclicIndex(id, n int) int {
	return ((id-1)%n + n) % n
}

func (r ReferenceData) schoolRating(id int) float64 {
	if len(r.SchoolRatings) == 0 {
		return 0
	}
	return r.SchoolRatings[cyclicIndex(id, len(r.SchoolRatings))]
}

func (r ReferenceData) commuteTime(id int) int {
	if len(r.CommuteTimes) == 0 {
		return 0
	}
	return r.CommuteTimes[cyclicIndex(id, len(r.CommuteTimes))]
}

func (r ReferenceData) yearBuilt(id int) int {
	if len(r.YearsBuilt) == 0 {
		return 0
	}
	return r.YearsBuilt[cyclicIndex(id, len(r.YearsBuilt))]
}

// locationMultiplier returns the multiplier of the first city found in location, or 1.0.
func (r ReferenceData) locationMultiplier(location string) float64 {
	loc := strings.ToLower(location)
	for _, cm := range r.CityMultipliers {
		if strings.Contains(loc, strings.ToLower(cm.City)) {
			return cm.Multiplier
		}
	}
	return 1.0
}
