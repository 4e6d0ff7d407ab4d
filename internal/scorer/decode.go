package scorer

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"pageQualityGO/internal/models"
)

// ScoreJSON scores a signal given as raw JSON. Any JSON object is accepted: missing or
// wrong-typed fields fall back to their zero value. Input that is not a JSON object
// yields the fallback result.
func (s *Scorer) ScoreJSON(raw []byte, req *models.PageTypeRequirements) *models.ScoreResult {
	signal, ok := DecodeSignal(raw)
	if !ok {
		return s.fallback()
	}
	return s.Score(signal, req)
}

// DecodeSignal leniently decodes a signal. It reports false when raw is not a JSON object.
func DecodeSignal(raw []byte) (*models.ScrapedPageSignal, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, false
	}
	return signalFromFields(fields), true
}

func signalFromFields(fields map[string]any) *models.ScrapedPageSignal {
	signal := &models.ScrapedPageSignal{
		URL:                   stringField(fields["url"]),
		Title:                 stringField(fields["title"]),
		WordCount:             intField(fields["wordCount"]),
		InternalLinkCount:     intField(fields["internalLinkCount"]),
		ContentLinkCount:      intField(fields["contentLinkCount"]),
		ImagesWithoutAltCount: intField(fields["imagesWithoutAltCount"]),
		SchemaOrgTypes:        stringsField(fields["schemaOrgTypes"]),
		PageType:              models.ParsePageType(stringField(fields["pageType"])),
	}

	if desc, ok := fields["description"].(string); ok {
		signal.Description = &desc
	}

	if headings, ok := fields["headingCounts"].(map[string]any); ok {
		signal.Headings = models.HeadingCount{
			H1: intField(headings["h1"]),
			H2: intField(headings["h2"]),
			H3: intField(headings["h3"]),
			H4: intField(headings["h4"]),
			H5: intField(headings["h5"]),
			H6: intField(headings["h6"]),
		}
	} else if h1, ok := fields["h1Count"]; ok {
		signal.Headings.H1 = intField(h1)
	}

	return signal
}

func stringField(v any) string {
	s, _ := v.(string)
	return s
}

func intField(v any) int {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return clampInt(float64(n))
		}
		if f, err := val.Float64(); err == nil {
			return clampInt(f)
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return clampInt(f)
		}
	case float64:
		return clampInt(val)
	}
	return 0
}

func clampInt(f float64) int {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

func stringsField(v any) []string {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if strings.TrimSpace(val) == "" {
			return nil
		}
		return []string{val}
	}
	return nil
}
