package scorer_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pageQualityGO/internal/models"
	"pageQualityGO/internal/scorer"
)

func TestScoreJSON(t *testing.T) {
	s := scorer.New()

	t.Run("WellFormed", func(t *testing.T) {
		raw := `{
			"title": "` + strings.Repeat("t", 55) + `",
			"description": "` + strings.Repeat("d", 155) + `",
			"wordCount": 850,
			"headingCounts": {"h1": 1, "h2": 2},
			"contentLinkCount": 6,
			"schemaOrgTypes": ["BreadcrumbList"],
			"pageType": "category"
		}`

		result := s.ScoreJSON([]byte(raw), nil)

		assert.Equal(t, 100, result.Score)
		assert.Empty(t, result.Issues)
	})

	t.Run("GarbledFieldsDegrade", func(t *testing.T) {
		raw := `{
			"title": 42,
			"description": null,
			"wordCount": "850",
			"h1Count": "1",
			"contentLinkCount": -4,
			"imagesWithoutAltCount": 2.7,
			"schemaOrgTypes": "BreadcrumbList",
			"pageType": ["category"]
		}`

		result := s.ScoreJSON([]byte(raw), nil)

		assert.Equal(t, models.PageTypeOther, result.PageType)
		assert.Equal(t, 850, result.Metrics.WordCount)
		assert.Equal(t, 1, result.Metrics.H1Count)
		assert.Equal(t, 0, result.Metrics.ContentLinks)
		assert.Equal(t, 2, result.Metrics.ImagesWithoutAlt)
		assert.Equal(t, []string{"BreadcrumbList"}, result.Metrics.SchemaTypes)
		assert.False(t, result.Metrics.HasDescription)
		// -15 title, -15 description, -2 images, -5 links
		assert.Equal(t, 63, result.Score)
	})

	t.Run("EmptyObject", func(t *testing.T) {
		result := s.ScoreJSON([]byte(`{}`), nil)

		assert.Equal(t, models.PageTypeOther, result.PageType)
		assert.Greater(t, result.Score, 0)
		assert.NotEqual(t, models.CategoryAnalysis, result.Issues[0].Category)
	})

	for _, raw := range []string{``, `null`, `[1,2,3]`, `"title"`, `{"title":`} {
		t.Run("NotAnObject/"+raw, func(t *testing.T) {
			result := s.ScoreJSON([]byte(raw), nil)

			assert.Equal(t, 0, result.Score)
			require.Len(t, result.Issues, 1)
			assert.Equal(t, models.CategoryAnalysis, result.Issues[0].Category)
		})
	}
}

func TestDefaultRequirementsTable(t *testing.T) {
	tests := []struct {
		pageType models.PageType
		min      int
		max      int
		required []string
		links    int
		faq      bool
	}{
		{models.PageTypeHomepage, 300, 800, []string{"Organization"}, 10, false},
		{models.PageTypeCategory, 700, 1000, []string{"BreadcrumbList"}, 5, true},
		{models.PageTypeFilter, 200, 400, []string{"BreadcrumbList"}, 3, false},
		{models.PageTypeProduct, 150, 300, []string{"Product", "Offer"}, 2, false},
		{models.PageTypeOther, 300, 800, []string{}, 3, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.pageType), func(t *testing.T) {
			req := scorer.DefaultRequirements(tt.pageType)

			assert.Equal(t, tt.min, req.MinWordCount)
			assert.Equal(t, tt.max, req.MaxWordCount)
			assert.Equal(t, tt.required, req.RequiredSchemaTypes)
			assert.Equal(t, tt.links, req.MinContentLinks)
			assert.Equal(t, tt.faq, req.RequiresFAQ)
		})
	}

	assert.Len(t, scorer.RequirementsTable(), len(models.PageTypes))
}

func TestDefaultRequirementsAreCopies(t *testing.T) {
	req := scorer.DefaultRequirements(models.PageTypeProduct)
	req.RequiredSchemaTypes[0] = "Changed"
	req.MinWordCount = 1

	fresh := scorer.DefaultRequirements(models.PageTypeProduct)
	assert.Equal(t, []string{"Product", "Offer"}, fresh.RequiredSchemaTypes)
	assert.Equal(t, 150, fresh.MinWordCount)
}

func TestParseRequirements(t *testing.T) {
	t.Run("PartialOverride", func(t *testing.T) {
		data := []byte(`
category:
  minWordCount: 500
  requiredSchemaTypes: [BreadcrumbList, ItemList]
Product:
  requiresFaq: true
`)
		overrides, err := scorer.ParseRequirements(data)
		require.NoError(t, err)
		require.Len(t, overrides, 2)

		category := overrides[models.PageTypeCategory]
		assert.Equal(t, 500, category.MinWordCount)
		assert.Equal(t, 1000, category.MaxWordCount)
		assert.Equal(t, []string{"BreadcrumbList", "ItemList"}, category.RequiredSchemaTypes)
		assert.True(t, category.RequiresFAQ)

		product := overrides[models.PageTypeProduct]
		assert.True(t, product.RequiresFAQ)
		assert.Equal(t, []string{"Product", "Offer"}, product.RequiredSchemaTypes)
	})

	t.Run("UnknownPageType", func(t *testing.T) {
		_, err := scorer.ParseRequirements([]byte("landing:\n  minWordCount: 10\n"))
		assert.Error(t, err)
	})

	t.Run("NegativeLimit", func(t *testing.T) {
		_, err := scorer.ParseRequirements([]byte("filter:\n  minContentLinks: -1\n"))
		assert.Error(t, err)
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		_, err := scorer.ParseRequirements([]byte("filter: [unclosed"))
		assert.Error(t, err)
	})
}

func TestLoadRequirements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requirements.yaml")
	require.NoError(t, os.WriteFile(path, []byte("homepage:\n  minContentLinks: 20\n"), 0o644))

	overrides, err := scorer.LoadRequirements(path)
	require.NoError(t, err)

	s := scorer.New(scorer.WithRequirements(overrides))
	assert.Equal(t, 20, s.RequirementsFor(models.PageTypeHomepage).MinContentLinks)
	assert.Equal(t, 300, s.RequirementsFor(models.PageTypeHomepage).MinWordCount)

	_, err = scorer.LoadRequirements(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
