package matching

import (
	"strings"

	"github.com/stwalsh4118/homematch/api/internal/models"
)

// Merge joins base listings with their characteristics and images by ID.
// The result has one Property per base record, in base order. Missing
// characteristics or images fall back to zero values rather than failing.
func Merge(ref ReferenceData, basics []models.PropertyBasic, characteristics []models.PropertyCharacteristics, images []models.PropertyImage) []models.Property {
	charsByID := make(map[int]models.PropertyCharacteristics, len(characteristics))
	for _, c := range characteristics {
		charsByID[c.ID] = c
	}
	imagesByID := make(map[int]models.PropertyImage, len(images))
	for _, img := range images {
		imagesByID[img.ID] = img
	}

	merged := make([]models.Property, 0, len(basics))
	for _, b := range basics {
		chars := charsByID[b.ID]

		amenities := chars.Amenities
		if amenities == nil {
			amenities = []string{}
		}

		var imageURL *string
		if img, ok := imagesByID[b.ID]; ok && img.ImageURL != "" {
			url := img.ImageURL
			imageURL = &url
		}

		merged = append(merged, models.Property{
			ID:           b.ID,
			Title:        b.Title,
			Price:        b.Price,
			Location:     b.Location,
			Bedrooms:     chars.Bedrooms,
			Bathrooms:    chars.Bathrooms,
			SizeSqft:     chars.SizeSqft,
			Amenities:    amenities,
			ImageURL:     imageURL,
			SchoolRating: ref.schoolRating(b.ID),
			CommuteTime:  ref.commuteTime(b.ID),
			YearBuilt:    ref.yearBuilt(b.ID),
			HasPool:      hasAmenity(amenities, ref.PoolKeywords),
			HasGarage:    hasAmenity(amenities, ref.GarageKeywords),
			HasGarden:    hasAmenity(amenities, ref.GardenKeywords),
		})
	}

	return merged
}

// hasAmenity reports whether any amenity contains any keyword, ignoring case.
func hasAmenity(amenities, keywords []string) bool {
	for _, amenity := range amenities {
		a := strings.ToLower(amenity)
		for _, keyword := range keywords {
			if strings.Contains(a, strings.ToLower(keyword)) {
				return true
			}
		}
	}
	return false
}
