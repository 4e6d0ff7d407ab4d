package scorer

import (
	"strings"

	"pageQualityGO/internal/models"
)

// Fixed penalties, subtracted from a starting score of 100
const (
	penaltyTitleMissing       = 15
	penaltyTitleShort         = 5
	penaltyTitleLong          = 5
	penaltyTitleBranding      = 15
	penaltyDescriptionMissing = 15
	penaltyDescriptionShort   = 5
	penaltyDescriptionLong    = 3
	penaltyH1Missing          = 10
	penaltyH1Multiple         = 5
	penaltyWordCountLow       = 10
	penaltySchemaRequired     = 8
	penaltySchemaNone         = 3
	penaltyContentLinksLow    = 5
)

// Length limits in characters
const (
	titleMinLength       = 50
	titleMaxLength       = 60
	descriptionMinLength = 150
	descriptionMaxLength = 160
)

// excessiveContentFactor marks content this many times above the maximum word count
const excessiveContentFactor = 1.5

// brandingMarkers are suffixes that leak into titles when a page is scraped through
// a third-party platform instead of the shop itself. Compared case-insensitively.
var brandingMarkers = []string{
	"- youtube",
	"| youtube",
	"- google search",
	"| facebook",
	"- instagram",
}

func brandingMarker(title string) (string, bool) {
	lower := strings.ToLower(title)
	for _, marker := range brandingMarkers {
		if strings.Contains(lower, marker) {
			return marker, true
		}
	}
	return "", false
}

// tier is one row of a tiered penalty table. Tiers are evaluated in order, first match wins.
type tier struct {
	matches  func(n int) bool
	severity models.Severity
	penalty  int
}

var imagesWithoutAltTiers = []tier{
	{matches: func(n int) bool { return n > 10 }, severity: models.SeverityError, penalty: 10},
	{matches: func(n int) bool { return n > 3 }, severity: models.SeverityWarning, penalty: 5},
	{matches: func(n int) bool { return n > 0 }, severity: models.SeverityInfo, penalty: 2},
}

func matchTier(tiers []tier, n int) (tier, bool) {
	for _, t := range tiers {
		if t.matches(n) {
			return t, true
		}
	}
	return tier{}, false
}

func priorityFor(sev models.Severity) models.Priority {
	switch sev {
	case models.SeverityError:
		return models.PriorityHigh
	case models.SeverityWarning:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}
