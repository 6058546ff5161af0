package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stwalsh4118/homematch/api/internal/catalog"
	"github.com/stwalsh4118/homematch/api/internal/logger"
	"github.com/stwalsh4118/homematch/api/internal/matching"
	"github.com/stwalsh4118/homematch/api/internal/metrics"
	"github.com/stwalsh4118/homematch/api/internal/models"
)

// DefaultMinBedrooms is used when a request omits minBedrooms or sends a non-positive value.
const DefaultMinBedrooms = 1

// ErrInvalidPreferences is returned when preferences cannot be matched against.
var ErrInvalidPreferences = errors.New("invalid preferences")

// RecommendationResult is the outcome of a recommendation request.
type RecommendationResult struct {
	Recommendations []models.ScoredProperty
	// Preferences are the normalized preferences that were applied.
	Preferences models.Preferences
	Candidates  int
	Fallback    bool
}

// PropertyService defines the listing and recommendation operations.
type PropertyService interface {
	// ListProperties returns every merged listing in source order.
	ListProperties(ctx context.Context) ([]models.Property, error)

	// Recommend returns the best matching listings for prefs.
	// Returns ErrInvalidPreferences if the budget is not positive.
	Recommend(ctx context.Context, prefs models.Preferences) (*RecommendationResult, error)
}

// propertyService is the concrete implementation of PropertyService.
type propertyService struct {
	loader catalog.Loader
	engine *matching.Engine
	log    *logger.Logger
}

// NewPropertyService creates a new instance of PropertyService.
func NewPropertyService(loader catalog.Loader, engine *matching.Engine, log *logger.Logger) PropertyService {
	return &propertyService{
		loader: loader,
		engine: engine,
		log:    log,
	}
}

// ListProperties loads the sources and merges them. The catalog is rebuilt on every call.
func (s *propertyService) ListProperties(ctx context.Context) ([]models.Property, error) {
	src, err := s.loader.Load(ctx)
	if err != nil {
		s.log.Error("Failed to load catalog", err, nil)
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	return s.engine.Merge(src.Basics, src.Characteristics, src.Images), nil
}

// Recommend validates prefs, then filters and ranks the current catalog.
func (s *propertyService) Recommend(ctx context.Context, prefs models.Preferences) (*RecommendationResult, error) {
	prefs, err := NormalizePreferences(prefs)
	if err != nil {
		s.log.Warn("Invalid preferences provided", map[string]interface{}{
			"budget": prefs.Budget,
		})
		return nil, err
	}

	properties, err := s.ListProperties(ctx)
	if err != nil {
		return nil, err
	}

	rec := s.engine.RecommendFor(properties, prefs)
	if rec.Fallback {
		s.log.Info("No listings passed the filter, ranking full catalog", map[string]interface{}{
			"budget":       prefs.Budget,
			"location":     prefs.Location,
			"min_bedrooms": prefs.MinBedrooms,
			"catalog_size": len(properties),
		})
	}

	scores := make([]float64, 0, len(rec.Results))
	for _, r := range rec.Results {
		scores = append(scores, r.MatchScore)
	}
	metrics.ObserveRecommendation(rec.Candidates, rec.Fallback, scores)

	s.log.Info("Recommendations computed", map[string]interface{}{
		"budget":       prefs.Budget,
		"location":     prefs.Location,
		"min_bedrooms": prefs.MinBedrooms,
		"candidates":   rec.Candidates,
		"fallback":     rec.Fallback,
		"count":        len(rec.Results),
	})

	return &RecommendationResult{
		Recommendations: rec.Results,
		Preferences:     prefs,
		Candidates:      rec.Candidates,
		Fallback:        rec.Fallback,
	}, nil
}

// NormalizePreferences validates the budget and applies defaults.
// The location is trimmed and minBedrooms below one becomes DefaultMinBedrooms.
func NormalizePreferences(prefs models.Preferences) (models.Preferences, error) {
	if !(prefs.Budget > 0) {
		return prefs, fmt.Errorf("%w: budget is required and must be greater than 0", ErrInvalidPreferences)
	}

	prefs.Location = strings.TrimSpace(prefs.Location)
	if prefs.MinBedrooms < 1 {
		prefs.MinBedrooms = DefaultMinBedrooms
	}
	return prefs, nil
}
