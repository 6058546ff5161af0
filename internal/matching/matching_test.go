package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/homematch/api/internal/models"
)

const testYear = 2025

// newTestEngine returns an engine with variance pinned to 1.0 and a fixed year.
func newTestEngine(opts Options) *Engine {
	if opts.Variance == nil {
		opts.Variance = FixedVariance(1.0)
	}
	if opts.CurrentYear == 0 {
		opts.CurrentYear = testYear
	}
	return NewEngine(opts)
}

func testProperty(id int, price float64, bedrooms int) models.Property {
	return models.Property{
		ID:           id,
		Title:        "Test Home",
		Location:     "Chicago, IL",
		Price:        price,
		Bedrooms:     bedrooms,
		Bathrooms:    2,
		SizeSqft:     1500,
		Amenities:    []string{},
		SchoolRating: 8.5,
		CommuteTime:  25,
		YearBuilt:    2018,
	}
}

func testCatalog() []models.Property {
	ref := DefaultReferenceData()
	return Merge(ref,
		[]models.PropertyBasic{
			{ID: 1, Title: "Loft", Price: 450000, Location: "Chicago, IL"},
			{ID: 2, Title: "Condo", Price: 900000, Location: "New York, NY"},
			{ID: 3, Title: "Ranch", Price: 350000, Location: "Austin, TX"},
			{ID: 4, Title: "Bungalow", Price: 300000, Location: "Dallas, TX"},
			{ID: 5, Title: "Villa", Price: 1200000, Location: "Miami, FL"},
		},
		[]models.PropertyCharacteristics{
			{ID: 1, Bedrooms: 2, Bathrooms: 1, SizeSqft: 1100, Amenities: []string{"Gym"}},
			{ID: 2, Bedrooms: 3, Bathrooms: 2, SizeSqft: 1600, Amenities: []string{"Doorman", "Parking"}},
			{ID: 3, Bedrooms: 4, Bathrooms: 3, SizeSqft: 2400, Amenities: []string{"Pool", "Backyard", "Garage"}},
			{ID: 4, Bedrooms: 1, Bathrooms: 1, SizeSqft: 800, Amenities: []string{}},
			{ID: 5, Bedrooms: 5, Bathrooms: 4, SizeSqft: 4000, Amenities: []string{"Swimming pool", "Garden"}},
		},
		nil,
	)
}

func TestNewEngine_Defaults(t *testing.T) {
	e := NewEngine(Options{})

	assert.Equal(t, DefaultLimit, e.limit)
	assert.False(t, e.strict)
	assert.IsType(t, RandomVariance{}, e.variance)
	assert.Len(t, e.ref.SchoolRatings, 10)
	assert.Greater(t, e.year(), 2000)
}

func TestEngine_UsesCustomReferenceData(t *testing.T) {
	ref := ReferenceData{
		SchoolRatings: []float64{5},
		CommuteTimes:  []int{10},
		YearsBuilt:    []int{2000},
	}
	e := newTestEngine(Options{Reference: &ref})

	merged := e.Merge([]models.PropertyBasic{{ID: 7, Title: "A", Price: 1, Location: "X"}}, nil, nil)

	require.Len(t, merged, 1)
	assert.Equal(t, 5.0, merged[0].SchoolRating)
	assert.Equal(t, 10, merged[0].CommuteTime)
	assert.Equal(t, 2000, merged[0].YearBuilt)
	assert.False(t, merged[0].HasPool)
}
