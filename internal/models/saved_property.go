package models

import (
	"time"

	"github.com/google/uuid"
)

// SavedProperty is a snapshot of a listing the user marked as a favorite.
// At most one snapshot exists per PropertyID.
type SavedProperty struct {
	SavedAt    time.Time `json:"savedAt"`
	ImageURL   *string   `json:"image_url,omitempty"`
	Title      string    `json:"title"`
	Location   string    `json:"location"`
	Reasoning  string    `json:"reasoning,omitempty"`
	Amenities  []string  `json:"amenities"`
	Price      float64   `json:"price"`
	SizeSqft   float64   `json:"size_sqft"`
	MatchScore float64   `json:"matchScore"`
	PropertyID int       `json:"propertyId"`
	Bedrooms   int       `json:"bedrooms"`
	Bathrooms  int       `json:"bathrooms"`
	ID         uuid.UUID `json:"id"`
}
