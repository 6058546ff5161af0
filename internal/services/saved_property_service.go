package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stwalsh4118/homematch/api/internal/logger"
	"github.com/stwalsh4118/homematch/api/internal/metrics"
	"github.com/stwalsh4118/homematch/api/internal/models"
	"github.com/stwalsh4118/homematch/api/internal/repository"
)

// Saved property errors
var (
	ErrInvalidSavedProperty  = errors.New("invalid saved property")
	ErrPropertyAlreadySaved  = errors.New("property already saved")
	ErrSavedPropertyNotFound = errors.New("saved property not found")
	ErrStoreUnavailable      = errors.New("saved properties store unavailable")
)

// SavedPropertyService defines the favorites operations.
type SavedPropertyService interface {
	// Save stores a snapshot of a listing.
	// Returns ErrInvalidSavedProperty, ErrPropertyAlreadySaved or ErrStoreUnavailable.
	Save(ctx context.Context, input models.SavedProperty) (*models.SavedProperty, error)

	// List returns saved listings, most recent first.
	List(ctx context.Context) ([]models.SavedProperty, error)

	// Remove deletes a saved listing. Returns ErrSavedPropertyNotFound if it was not saved.
	Remove(ctx context.Context, propertyID int) error
}

// savedPropertyService is the concrete implementation of SavedPropertyService.
type savedPropertyService struct {
	repo repository.SavedPropertyRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewSavedPropertyService creates a new instance of SavedPropertyService.
// A nil repo means no store is configured and every call fails with ErrStoreUnavailable.
func NewSavedPropertyService(repo repository.SavedPropertyRepository, log *logger.Logger) SavedPropertyService {
	return &savedPropertyService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

func (s *savedPropertyService) Save(ctx context.Context, input models.SavedProperty) (*models.SavedProperty, error) {
	if err := validateSavedProperty(input); err != nil {
		s.log.Warn("Invalid saved property", map[string]interface{}{
			"property_id": input.PropertyID,
			"error":       err.Error(),
		})
		return nil, err
	}
	if s.repo == nil {
		metrics.ObserveSavedPropertyOperation("save", "unavailable")
		return nil, ErrStoreUnavailable
	}

	existing, err := s.repo.FindByPropertyID(ctx, input.PropertyID)
	if err != nil {
		s.log.Error("Failed to look up saved property", err, map[string]interface{}{
			"property_id": input.PropertyID,
		})
		metrics.ObserveSavedPropertyOperation("save", "error")
		return nil, fmt.Errorf("failed to save property: %w", err)
	}
	if existing != nil {
		metrics.ObserveSavedPropertyOperation("save", "conflict")
		return nil, fmt.Errorf("%w: property %d", ErrPropertyAlreadySaved, input.PropertyID)
	}

	saved := input
	saved.ID = uuid.New()
	saved.SavedAt = s.now().UTC()
	saved.Title = strings.TrimSpace(saved.Title)
	saved.Location = strings.TrimSpace(saved.Location)
	if saved.Amenities == nil {
		saved.Amenities = []string{}
	}

	if err := s.repo.Create(ctx, &saved); err != nil {
		// Lost a race with a concurrent save of the same listing
		if errors.Is(err, repository.ErrDuplicatePropertyID) {
			metrics.ObserveSavedPropertyOperation("save", "conflict")
			return nil, fmt.Errorf("%w: property %d", ErrPropertyAlreadySaved, input.PropertyID)
		}
		s.log.Error("Failed to save property", err, map[string]interface{}{
			"property_id": input.PropertyID,
		})
		metrics.ObserveSavedPropertyOperation("save", "error")
		return nil, fmt.Errorf("failed to save property: %w", err)
	}

	s.log.Info("Property saved", map[string]interface{}{
		"property_id": saved.PropertyID,
		"id":          saved.ID.String(),
	})
	metrics.ObserveSavedPropertyOperation("save", "success")

	return &saved, nil
}

func (s *savedPropertyService) List(ctx context.Context) ([]models.SavedProperty, error) {
	if s.repo == nil {
		metrics.ObserveSavedPropertyOperation("list", "unavailable")
		return nil, ErrStoreUnavailable
	}

	saved, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("Failed to list saved properties", err, nil)
		metrics.ObserveSavedPropertyOperation("list", "error")
		return nil, fmt.Errorf("failed to list saved properties: %w", err)
	}

	metrics.ObserveSavedPropertyOperation("list", "success")
	return saved, nil
}

func (s *savedPropertyService) Remove(ctx context.Context, propertyID int) error {
	if s.repo == nil {
		metrics.ObserveSavedPropertyOperation("remove", "unavailable")
		return ErrStoreUnavailable
	}

	deleted, err := s.repo.DeleteByPropertyID(ctx, propertyID)
	if err != nil {
		s.log.Error("Failed to remove saved property", err, map[string]interface{}{
			"property_id": propertyID,
		})
		metrics.ObserveSavedPropertyOperation("remove", "error")
		return fmt.Errorf("failed to remove saved property: %w", err)
	}
	if !deleted {
		metrics.ObserveSavedPropertyOperation("remove", "not_found")
		return fmt.Errorf("%w: property %d", ErrSavedPropertyNotFound, propertyID)
	}

	s.log.Info("Saved property removed", map[string]interface{}{
		"property_id": propertyID,
	})
	metrics.ObserveSavedPropertyOperation("remove", "success")
	return nil
}

// validateSavedProperty checks the fields a snapshot cannot be stored without.
func validateSavedProperty(p models.SavedProperty) error {
	switch {
	case p.PropertyID <= 0:
		return fmt.Errorf("%w: property ID is required", ErrInvalidSavedProperty)
	case strings.TrimSpace(p.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidSavedProperty)
	case strings.TrimSpace(p.Location) == "":
		return fmt.Errorf("%w: location is required", ErrInvalidSavedProperty)
	case !(p.Price > 0):
		return fmt.Errorf("%w: price must be greater than 0", ErrInvalidSavedProperty)
	}
	return nil
}
