package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/homematch/api/internal/catalog"
	"github.com/stwalsh4118/homematch/api/internal/logger"
	"github.com/stwalsh4118/homematch/api/internal/matching"
	"github.com/stwalsh4118/homematch/api/internal/models"
)

// MockCatalogLoader is a mock implementation of catalog.Loader for testing
type MockCatalogLoader struct {
	mock.Mock
}

func (m *MockCatalogLoader) Load(ctx context.Context) (*catalog.Source, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	src, ok := args.Get(0).(*catalog.Source)
	if !ok {
		return nil, args.Error(1)
	}
	return src, args.Error(1)
}

func (m *MockCatalogLoader) Check(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func testSource() *catalog.Source {
	return &catalog.Source{
		Basics: []models.PropertyBasic{
			{ID: 1, Title: "Lakeview Condo", Location: "Chicago, IL", Price: 400000},
			{ID: 2, Title: "Hill Country Ranch", Location: "Austin, TX", Price: 900000},
			{ID: 3, Title: "Logan Square Walkup", Location: "Chicago, IL", Price: 300000},
		},
		Characteristics: []models.PropertyCharacteristics{
			{ID: 1, Bedrooms: 3, Bathrooms: 2, SizeSqft: 1500, Amenities: []string{"Garage"}},
			{ID: 2, Bedrooms: 4, Bathrooms: 3, SizeSqft: 2800, Amenities: []string{"Pool", "Garden"}},
			{ID: 3, Bedrooms: 2, Bathrooms: 1, SizeSqft: 1100},
		},
		Images: []models.PropertyImage{
			{ID: 1, ImageURL: "https://images.example.com/1.jpg"},
		},
	}
}

func newTestPropertyService(loader catalog.Loader) PropertyService {
	engine := matching.NewEngine(matching.Options{
		Variance:    matching.FixedVariance(1.0),
		CurrentYear: 2025,
	})
	return NewPropertyService(loader, engine, logger.New("test"))
}

func TestListProperties_Success(t *testing.T) {
	// Arrange
	loader := new(MockCatalogLoader)
	service := newTestPropertyService(loader)
	ctx := context.Background()

	loader.On("Load", ctx).Return(testSource(), nil)

	// Act
	properties, err := service.ListProperties(ctx)

	// Assert
	require.NoError(t, err)
	require.Len(t, properties, 3)
	assert.Equal(t, 1, properties[0].ID)
	assert.True(t, properties[0].HasGarage)
	require.NotNil(t, properties[0].ImageURL)
	assert.Equal(t, "https://images.example.com/1.jpg", *properties[0].ImageURL)
	assert.Nil(t, properties[2].ImageURL)
	assert.Equal(t, []string{}, properties[2].Amenities)
	loader.AssertExpectations(t)
}

func TestListProperties_LoaderError(t *testing.T) {
	// Arrange
	loader := new(MockCatalogLoader)
	service := newTestPropertyService(loader)
	ctx := context.Background()

	loader.On("Load", ctx).Return(nil, context.Canceled)

	// Act
	properties, err := service.ListProperties(ctx)

	// Assert
	require.Error(t, err)
	assert.Nil(t, properties)
	assert.True(t, errors.Is(err, context.Canceled))
	loader.AssertExpectations(t)
}

func TestRecommend_FiltersAndRanks(t *testing.T) {
	// Arrange
	loader := new(MockCatalogLoader)
	service := newTestPropertyService(loader)
	ctx := context.Background()

	loader.On("Load", ctx).Return(testSource(), nil)

	// Act
	result, err := service.Recommend(ctx, models.Preferences{
		Location: "  Chicago ",
		Budget:   500000,
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Fallback)
	assert.Equal(t, 2, result.Candidates)
	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, "Chicago", result.Preferences.Location)
	assert.Equal(t, DefaultMinBedrooms, result.Preferences.MinBedrooms)

	for _, r := range result.Recommendations {
		assert.NotEqual(t, 2, r.ID, "listing above 1.5x budget must be filtered out")
		assert.NotEmpty(t, r.Reasoning)
		assert.Positive(t, r.PredictedPrice)
	}
	assert.GreaterOrEqual(t, result.Recommendations[0].MatchScore, result.Recommendations[1].MatchScore)
	loader.AssertExpectations(t)
}

func TestRecommend_FallsBackWhenNothingMatches(t *testing.T) {
	// Arrange
	loader := new(MockCatalogLoader)
	service := newTestPropertyService(loader)
	ctx := context.Background()

	loader.On("Load", ctx).Return(testSource(), nil)

	// Act
	result, err := service.Recommend(ctx, models.Preferences{Budget: 50000, MinBedrooms: 2})

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.Equal(t, 3, result.Candidates)
	assert.Len(t, result.Recommendations, 3)
	loader.AssertExpectations(t)
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	// Arrange
	loader := new(MockCatalogLoader)
	service := newTestPropertyService(loader)
	ctx := context.Background()

	loader.On("Load", ctx).Return(&catalog.Source{}, nil)

	// Act
	result, err := service.Recommend(ctx, models.Preferences{Budget: 500000})

	// Assert
	require.NoError(t, err)
	assert.False(t, result.Fallback)
	assert.Equal(t, 0, result.Candidates)
	assert.Empty(t, result.Recommendations)
	loader.AssertExpectations(t)
}

func TestRecommend_InvalidBudget(t *testing.T) {
	tests := []struct {
		name   string
		budget float64
	}{
		{name: "zero", budget: 0},
		{name: "negative", budget: -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			loader := new(MockCatalogLoader)
			service := newTestPropertyService(loader)

			// Act
			result, err := service.Recommend(context.Background(), models.Preferences{Budget: tt.budget})

			// Assert
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, ErrInvalidPreferences))
			loader.AssertNotCalled(t, "Load", mock.Anything)
		})
	}
}

func TestNormalizePreferences(t *testing.T) {
	prefs, err := NormalizePreferences(models.Preferences{Budget: 1, MinBedrooms: -3, Location: " Austin "})
	require.NoError(t, err)
	assert.Equal(t, 1, prefs.MinBedrooms)
	assert.Equal(t, "Austin", prefs.Location)

	prefs, err = NormalizePreferences(models.Preferences{Budget: 1, MinBedrooms: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, prefs.MinBedrooms)
}
