package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/stwalsh4118/homematch/api/internal/catalog"
	"github.com/stwalsh4118/homematch/api/internal/models"
	"github.com/stwalsh4118/homematch/api/internal/services"
)

// MockCatalogLoader is a mock implementation of catalog.Loader for testing
type MockCatalogLoader struct {
	mock.Mock
}

func (m *MockCatalogLoader) Load(ctx context.Context) (*catalog.Source, error) {
	args := m.Called(ctx)
	if src, ok := args.Get(0).(*catalog.Source); ok {
		return src, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogLoader) Check(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockPinger is a mock database for readiness checks
type MockPinger struct {
	pingErr error
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.pingErr
}

// MockPropertyService is a mock implementation of services.PropertyService for testing
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) ListProperties(ctx context.Context) ([]models.Property, error) {
	args := m.Called(ctx)
	if properties, ok := args.Get(0).([]models.Property); ok {
		return properties, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPropertyService) Recommend(ctx context.Context, prefs models.Preferences) (*services.RecommendationResult, error) {
	args := m.Called(ctx, prefs)
	if result, ok := args.Get(0).(*services.RecommendationResult); ok {
		return result, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSavedPropertyService is a mock implementation of services.SavedPropertyService for testing
type MockSavedPropertyService struct {
	mock.Mock
}

func (m *MockSavedPropertyService) Save(ctx context.Context, input models.SavedProperty) (*models.SavedProperty, error) {
	args := m.Called(ctx, input)
	if saved, ok := args.Get(0).(*models.SavedProperty); ok {
		return saved, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSavedPropertyService) List(ctx context.Context) ([]models.SavedProperty, error) {
	args := m.Called(ctx)
	if saved, ok := args.Get(0).([]models.SavedProperty); ok {
		return saved, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSavedPropertyService) Remove(ctx context.Context, propertyID int) error {
	return m.Called(ctx, propertyID).Error(0)
}
