package matching

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/stwalsh4118/homematch/api/internal/models"
)

const (
	// MaxReasons is the number of clauses kept in an explanation.
	MaxReasons = 4
	// ReasonSeparator joins explanation clauses.
	ReasonSeparator = " • "
)

// Explain renders the strongest reasons a listing matches, in priority order:
// price, bedrooms, schools, commute, age, amenities. Only the first MaxReasons
// are kept. Weak factors are left out rather than stated negatively, so the
// result is empty when nothing stands out.
func (e *Engine) Explain(p models.Property, score Score, prefs models.Preferences) string {
	return strings.Join(e.reasons(p, score, prefs), ReasonSeparator)
}

func (e *Engine) reasons(p models.Property, score Score, prefs models.Preferences) []string {
	b := score.Breakdown
	reasons := make([]string, 0, 6)

	switch {
	case b.PriceMatch == 100:
		reasons = append(reasons, message.NewPrinter(language.English).Sprintf("Within your $%d budget", int64(prefs.Budget)))
	case b.PriceMatch > 70:
		reasons = append(reasons, "Slightly above budget but excellent value")
	}

	if b.Bedroom == 100 {
		reasons = append(reasons, fmt.Sprintf("%d bedrooms meet your requirement of %d+", p.Bedrooms, minBedrooms(prefs)))
	}

	rating := strconv.FormatFloat(p.SchoolRating, 'f', -1, 64)
	switch {
	case b.SchoolRating >= 85:
		reasons = append(reasons, fmt.Sprintf("Excellent school rating: %s/10", rating))
	case b.SchoolRating >= 70:
		reasons = append(reasons, fmt.Sprintf("Good school rating: %s/10", rating))
	}

	if b.Commute >= 80 {
		reasons = append(reasons, fmt.Sprintf("Short commute: %d minutes", p.CommuteTime))
	}

	if e.year()-p.YearBuilt <= 5 {
		reasons = append(reasons, fmt.Sprintf("Recently built (%d)", p.YearBuilt))
	}

	var features []string
	if p.HasPool {
		features = append(features, "pool")
	}
	if p.HasGarage {
		features = append(features, "garage")
	}
	if p.HasGarden {
		features = append(features, "garden")
	}
	if len(features) > 0 {
		reasons = append(reasons, "Has "+strings.Join(features, ", "))
	}

	if len(reasons) > MaxReasons {
		reasons = reasons[:MaxReasons]
	}
	return reasons
}
