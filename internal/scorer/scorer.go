// Package scorer turns scraped page signals into a 0-100 quality score with a list of
// actionable issues. Scoring is deterministic and performs no I/O.
package scorer

import (
	"strings"
	"unicode/utf8"

	"pageQualityGO/internal/models"
)

// Scorer scores page signals against page-type requirements.
// A Scorer is immutable after New and safe for concurrent use.
type Scorer struct {
	lang         string
	messages     catalog
	requirements map[models.PageType]models.PageTypeRequirements
}

// Option configures a Scorer
type Option func(*Scorer)

// WithLanguage selects the language of issue messages
func WithLanguage(lang string) Option {
	return func(s *Scorer) {
		if SupportedLanguage(lang) {
			s.lang = strings.ToLower(strings.TrimSpace(lang))
		}
	}
}

// WithRequirements replaces the default records of the given page types.
// Keys that name no page type are ignored.
func WithRequirements(overrides map[models.PageType]models.PageTypeRequirements) Option {
	return func(s *Scorer) {
		for key, req := range overrides {
			if pt, ok := knownPageType(string(key)); ok {
				s.requirements[pt] = req.Clone()
			}
		}
	}
}

// New creates a Scorer
func New(opts ...Option) *Scorer {
	s := &Scorer{
		lang:         DefaultLanguage,
		requirements: RequirementsTable(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.messages = catalogFor(s.lang)
	return s
}

var defaultScorer = New()

// Score scores signal with English messages and the built-in requirements.
// A nil req selects the default record for the signal's page type.
func Score(signal *models.ScrapedPageSignal, req *models.PageTypeRequirements) *models.ScoreResult {
	return defaultScorer.Score(signal, req)
}

// Language returns the language of issue messages
func (s *Scorer) Language() string {
	return s.lang
}

// RequirementsFor returns the effective requirements for pt
func (s *Scorer) RequirementsFor(pt models.PageType) models.PageTypeRequirements {
	req, ok := s.requirements[pt]
	if !ok {
		req = s.requirements[models.PageTypeOther]
	}
	return req.Clone()
}

// Requirements returns the effective requirements table
func (s *Scorer) Requirements() map[models.PageType]models.PageTypeRequirements {
	table := make(map[models.PageType]models.PageTypeRequirements, len(s.requirements))
	for pt, req := range s.requirements {
		table[pt] = req.Clone()
	}
	return table
}

// evaluation accumulates penalties and issues in detection order
type evaluation struct {
	score  int
	issues []models.Issue
}

func (e *evaluation) add(sev models.Severity, category string, penalty int, message string) {
	e.score -= penalty
	e.issues = append(e.issues, models.Issue{
		Severity: sev,
		Category: category,
		Message:  message,
		Priority: priorityFor(sev),
	})
}

// Score scores signal. A nil req selects the requirements for the signal's page type.
// A nil signal cannot be analyzed and yields the fallback result.
func (s *Scorer) Score(signal *models.ScrapedPageSignal, req *models.PageTypeRequirements) *models.ScoreResult {
	if signal == nil {
		return s.fallback()
	}

	sig := signal.Normalize()
	var requirements models.PageTypeRequirements
	if req != nil {
		requirements = req.Clone()
	} else {
		requirements = s.RequirementsFor(sig.PageType)
	}

	ev := &evaluation{score: 100, issues: []models.Issue{}}
	m := models.ScoreMetrics{
		H1Count:          sig.Headings.H1,
		WordCount:        sig.WordCount,
		ImagesWithoutAlt: sig.ImagesWithoutAltCount,
		SchemaTypes:      sig.SchemaOrgTypes,
		InternalLinks:    sig.InternalLinkCount,
		ContentLinks:     sig.ContentLinkCount,
		FAQRequired:      requirements.RequiresFAQ,
	}

	s.checkTitle(ev, &m, sig.Title)
	s.checkDescription(ev, &m, sig.Description)
	s.checkHeadings(ev, &m, sig.Headings)
	s.checkContent(ev, &m, sig, requirements)
	s.checkImages(ev, sig.ImagesWithoutAltCount)
	s.checkSchema(ev, &m, sig.SchemaOrgTypes, requirements)
	s.checkLinks(ev, &m, sig.ContentLinkCount, requirements)

	return &models.ScoreResult{
		Score:        clamp(ev.score),
		PageType:     sig.PageType,
		Issues:       ev.issues,
		Metrics:      m,
		Requirements: requirements,
	}
}

func (s *Scorer) checkTitle(ev *evaluation, m *models.ScoreMetrics, title string) {
	length := utf8.RuneCountInString(title)
	m.TitleLength = length

	switch {
	case length == 0:
		ev.add(models.SeverityError, models.CategoryMeta, penaltyTitleMissing, s.messages.format(msgTitleMissing))
	case length < titleMinLength:
		ev.add(models.SeverityWarning, models.CategoryMeta, penaltyTitleShort, s.messages.format(msgTitleShort, length))
	}
	if length > titleMaxLength {
		ev.add(models.SeverityWarning, models.CategoryMeta, penaltyTitleLong, s.messages.format(msgTitleLong, length))
	}

	marker, leaked := brandingMarker(title)
	if leaked {
		ev.add(models.SeverityError, models.CategoryMeta, penaltyTitleBranding, s.messages.format(msgTitleBranding, strings.TrimSpace(marker)))
	}
	m.TitleBranding = leaked
	m.TitleValid = length >= titleMinLength && length <= titleMaxLength && !leaked
}

func (s *Scorer) checkDescription(ev *evaluation, m *models.ScoreMetrics, description *string) {
	if description == nil {
		ev.add(models.SeverityError, models.CategoryMeta, penaltyDescriptionMissing, s.messages.format(msgDescriptionMissing))
		return
	}

	length := utf8.RuneCountInString(*description)
	m.HasDescription = true
	m.DescriptionLength = length

	if length > 0 && length < descriptionMinLength {
		ev.add(models.SeverityWarning, models.CategoryMeta, penaltyDescriptionShort, s.messages.format(msgDescriptionShort, length))
	}
	if length > descriptionMaxLength {
		ev.add(models.SeverityWarning, models.CategoryMeta, penaltyDescriptionLong, s.messages.format(msgDescriptionLong, length))
	}
	m.DescriptionValid = length >= descriptionMinLength && length <= descriptionMaxLength
}

func (s *Scorer) checkHeadings(ev *evaluation, m *models.ScoreMetrics, headings models.HeadingCount) {
	switch {
	case headings.H1 == 0:
		ev.add(models.SeverityError, models.CategoryHeadings, penaltyH1Missing, s.messages.format(msgH1Missing))
	case headings.H1 > 1:
		ev.add(models.SeverityWarning, models.CategoryHeadings, penaltyH1Multiple, s.messages.format(msgH1Multiple, headings.H1))
	}
	m.H1Valid = headings.H1 == 1
}

func (s *Scorer) checkContent(ev *evaluation, m *models.ScoreMetrics, sig models.ScrapedPageSignal, req models.PageTypeRequirements) {
	if sig.WordCount < req.MinWordCount {
		ev.add(models.SeverityWarning, models.CategoryContent, penaltyWordCountLow,
			s.messages.format(msgWordCountLow, sig.PageType, sig.WordCount, req.MinWordCount))
	}

	// Informational only, carries no penalty.
	excessive := float64(sig.WordCount) > float64(req.MaxWordCount)*excessiveContentFactor
	if excessive {
		ev.add(models.SeverityInfo, models.CategoryContent, 0,
			s.messages.format(msgWordCountHigh, sig.PageType, sig.WordCount, req.MaxWordCount))
	}

	m.WordCountValid = sig.WordCount >= req.MinWordCount
	m.WordCountExcessive = excessive
}

func (s *Scorer) checkImages(ev *evaluation, withoutAlt int) {
	t, ok := matchTier(imagesWithoutAltTiers, withoutAlt)
	if !ok {
		return
	}
	ev.add(t.severity, models.CategoryImages, t.penalty, s.messages.format(msgImagesWithoutAlt, withoutAlt))
}

func (s *Scorer) checkSchema(ev *evaluation, m *models.ScoreMetrics, types []string, req models.PageTypeRequirements) {
	present := make(map[string]bool, len(types))
	for _, t := range types {
		present[strings.ToLower(t)] = true
	}

	missing := []string{}
	for _, required := range req.RequiredSchemaTypes {
		if !present[strings.ToLower(required)] {
			missing = append(missing, required)
		}
	}

	m.MissingSchemaTypes = missing
	m.HasRequiredSchema = len(missing) == 0
	m.HasStructuredData = len(types) > 0
	m.HasFAQSchema = present["faqpage"]

	if len(req.RequiredSchemaTypes) > 0 && len(missing) > 0 {
		ev.add(models.SeverityWarning, models.CategorySchema, penaltySchemaRequired,
			s.messages.format(msgSchemaRequiredMissing, strings.Join(missing, ", ")))
	}
	// Can fire together with the check above for the same page.
	if len(types) == 0 {
		ev.add(models.SeverityInfo, models.CategorySchema, penaltySchemaNone, s.messages.format(msgSchemaNone))
	}
}

func (s *Scorer) checkLinks(ev *evaluation, m *models.ScoreMetrics, contentLinks int, req models.PageTypeRequirements) {
	m.ContentLinksValid = contentLinks >= req.MinContentLinks
	if !m.ContentLinksValid {
		ev.add(models.SeverityWarning, models.CategoryLinks, penaltyContentLinksLow,
			s.messages.format(msgContentLinksLow, contentLinks, req.MinContentLinks))
	}
}

// fallback is the maximally penalized result for input that cannot be analyzed
func (s *Scorer) fallback() *models.ScoreResult {
	return &models.ScoreResult{
		Score:    0,
		PageType: models.PageTypeOther,
		Issues: []models.Issue{{
			Severity: models.SeverityError,
			Category: models.CategoryAnalysis,
			Message:  s.messages.format(msgAnalysisFailed),
			Priority: models.PriorityHigh,
		}},
		Metrics: models.ScoreMetrics{
			SchemaTypes:        []string{},
			MissingSchemaTypes: []string{},
		},
		Requirements: s.RequirementsFor(models.PageTypeOther),
	}
}

func clamp(score int) int {
	return max(0, min(100, score))
}
