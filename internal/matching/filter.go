package matching

import (
	"strings"

	"github.com/stwalsh4118/homematch/api/internal/models"
)

// Tolerances applied by Filter.
const (
	BudgetTolerance  = 1.5 // listings up to 150% of budget stay in
	BedroomTolerance = 0.5 // listings with at least half the wanted bedrooms stay in
)

// Filter returns the listings that pass the loose admission rules, in input order.
// It may return an empty slice; falling back to the full set is RecommendFor's job.
func (e *Engine) Filter(properties []models.Property, prefs models.Preferences) []models.Property {
	filtered := make([]models.Property, 0, len(properties))
	for _, p := range properties {
		if e.admits(p, prefs) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func (e *Engine) admits(p models.Property, prefs models.Preferences) bool {
	if prefs.Budget > 0 && p.Price > prefs.Budget*BudgetTolerance {
		return false
	}

	if e.strict && strings.TrimSpace(prefs.Location) != "" && !LocationMatches(p.Location, prefs.Location) {
		return false
	}

	if prefs.MinBedrooms > 0 && float64(p.Bedrooms) < float64(prefs.MinBedrooms)*BedroomTolerance {
		return false
	}

	return true
}

// LocationMatches reports whether the listing location contains the wanted
// location, or any of its comma-separated parts, ignoring case.
func LocationMatches(location, wanted string) bool {
	search := strings.ToLower(strings.TrimSpace(wanted))
	if search == "" {
		return true
	}

	loc := strings.ToLower(location)
	if strings.Contains(loc, search) {
		return true
	}
	for _, part := range strings.Split(search, ",") {
		part = strings.TrimSpace(part)
		if part != "" && strings.Contains(loc, part) {
			return true
		}
	}
	return false
}
