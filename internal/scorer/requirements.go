package scorer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"pageQualityGO/internal/models"
)

var errNegativeLimit = errors.New("negative limit")

// defaultRequirements holds one record per page type. Read through DefaultRequirements only.
var defaultRequirements = map[models.PageType]models.PageTypeRequirements{
	models.PageTypeHomepage: {
		MinWordCount:           300,
		MaxWordCount:           800,
		RequiredSchemaTypes:    []string{"Organization"},
		RecommendedSchemaTypes: []string{"WebSite"},
		MinContentLinks:        10,
	},
	models.PageTypeCategory: {
		MinWordCount:           700,
		MaxWordCount:           1000,
		RequiredSchemaTypes:    []string{"BreadcrumbList"},
		RecommendedSchemaTypes: []string{"FAQPage", "ItemList"},
		MinContentLinks:        5,
		RequiresFAQ:            true,
	},
	models.PageTypeFilter: {
		MinWordCount:           200,
		MaxWordCount:           400,
		RequiredSchemaTypes:    []string{"BreadcrumbList"},
		RecommendedSchemaTypes: []string{"ItemList"},
		MinContentLinks:        3,
	},
	models.PageTypeProduct: {
		MinWordCount:           150,
		MaxWordCount:           300,
		RequiredSchemaTypes:    []string{"Product", "Offer"},
		RecommendedSchemaTypes: []string{"AggregateRating", "Review", "BreadcrumbList"},
		MinContentLinks:        2,
	},
	models.PageTypeOther: {
		MinWordCount:           300,
		MaxWordCount:           800,
		RequiredSchemaTypes:    []string{},
		RecommendedSchemaTypes: []string{},
		MinContentLinks:        3,
	},
}

// DefaultRequirements returns a copy of the built-in record for pt.
// Unknown page types get the "other" record.
func DefaultRequirements(pt models.PageType) models.PageTypeRequirements {
	req, ok := defaultRequirements[pt]
	if !ok {
		req = defaultRequirements[models.PageTypeOther]
	}
	return req.Clone()
}

// RequirementsTable returns a copy of the built-in table
func RequirementsTable() map[models.PageType]models.PageTypeRequirements {
	table := make(map[models.PageType]models.PageTypeRequirements, len(defaultRequirements))
	for pt, req := range defaultRequirements {
		table[pt] = req.Clone()
	}
	return table
}

// LoadRequirements reads page-type overrides from a YAML file
func LoadRequirements(path string) (map[models.PageType]models.PageTypeRequirements, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read requirements file: %w", err)
	}
	return ParseRequirements(data)
}

// ParseRequirements decodes YAML overrides keyed by page type.
// Every entry starts from the default record, so omitted fields keep their defaults.
func ParseRequirements(data []byte) (map[models.PageType]models.PageTypeRequirements, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid requirements YAML: %w", err)
	}

	overrides := make(map[models.PageType]models.PageTypeRequirements, len(raw))
	for key, node := range raw {
		pt, ok := knownPageType(key)
		if !ok {
			return nil, fmt.Errorf("unknown page type %q", key)
		}

		req := DefaultRequirements(pt)
		if err := node.Decode(&req); err != nil {
			return nil, fmt.Errorf("invalid requirements for %s: %w", pt, err)
		}
		if err := checkLimits(req); err != nil {
			return nil, fmt.Errorf("invalid requirements for %s: %w", pt, err)
		}
		overrides[pt] = req
	}

	return overrides, nil
}

// MergeRequirements decodes a JSON requirements object on top of the record for pt,
// so omitted fields keep the effective values.
func (s *Scorer) MergeRequirements(pt models.PageType, raw []byte) (models.PageTypeRequirements, error) {
	req := s.RequirementsFor(pt)
	if err := json.Unmarshal(raw, &req); err != nil {
		return models.PageTypeRequirements{}, fmt.Errorf("invalid requirements: %w", err)
	}
	if err := checkLimits(req); err != nil {
		return models.PageTypeRequirements{}, fmt.Errorf("invalid requirements: %w", err)
	}
	return req, nil
}

// knownPageType reports whether key names one of the page types exactly (case-insensitive)
func knownPageType(key string) (models.PageType, bool) {
	name := strings.ToLower(strings.TrimSpace(key))
	pt := models.ParsePageType(name)
	return pt, string(pt) == name
}

func checkLimits(req models.PageTypeRequirements) error {
	if req.MinWordCount < 0 || req.MaxWordCount < 0 || req.MinContentLinks < 0 {
		return errNegativeLimit
	}
	return nil
}
