package models

import "slices"

// Severity of a detected issue
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Priority of fixing a detected issue
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Issue categories
const (
	CategoryMeta     = "Meta"
	CategoryHeadings = "Headings"
	CategoryContent  = "Content"
	CategoryImages   = "Images"
	CategorySchema   = "Schema"
	CategoryLinks    = "Links"
	CategoryAnalysis = "Analysis"
)

// PageTypeRequirements holds the expected ranges for one page type
type PageTypeRequirements struct {
	MinWordCount           int      `json:"minWordCount" yaml:"minWordCount" bson:"min_word_count"`
	MaxWordCount           int      `json:"maxWordCount" yaml:"maxWordCount" bson:"max_word_count"`
	RequiredSchemaTypes    []string `json:"requiredSchemaTypes" yaml:"requiredSchemaTypes" bson:"required_schema_types"`
	RecommendedSchemaTypes []string `json:"recommendedSchemaTypes" yaml:"recommendedSchemaTypes" bson:"recommended_schema_types"`
	MinContentLinks        int      `json:"minContentLinks" yaml:"minContentLinks" bson:"min_content_links"`
	RequiresFAQ            bool     `json:"requiresFaq" yaml:"requiresFaq" bson:"requires_faq"`
}

// Clone returns a deep copy
func (r PageTypeRequirements) Clone() PageTypeRequirements {
	out := r
	out.RequiredSchemaTypes = slices.Clone(r.RequiredSchemaTypes)
	out.RecommendedSchemaTypes = slices.Clone(r.RecommendedSchemaTypes)
	return out
}

// Issue is one detected problem on a page
type Issue struct {
	Severity Severity `json:"severity" bson:"severity"`
	Category string   `json:"category" bson:"category"`
	Message  string   `json:"message" bson:"message"`
	Priority Priority `json:"priority" bson:"priority"`
}

// ScoreMetrics records every measured quantity together with its validity
type ScoreMetrics struct {
	TitleLength   int  `json:"titleLength" bson:"title_length"`
	TitleValid    bool `json:"titleValid" bson:"title_valid"`
	TitleBranding bool `json:"titleBranding" bson:"title_branding"`

	HasDescription    bool `json:"hasDescription" bson:"has_description"`
	DescriptionLength int  `json:"descriptionLength" bson:"description_length"`
	DescriptionValid  bool `json:"descriptionValid" bson:"description_valid"`

	H1Count int  `json:"h1Count" bson:"h1_count"`
	H1Valid bool `json:"h1Valid" bson:"h1_valid"`

	WordCount          int  `json:"wordCount" bson:"word_count"`
	WordCountValid     bool `json:"wordCountValid" bson:"word_count_valid"`
	WordCountExcessive bool `json:"wordCountExcessive" bson:"word_count_excessive"`

	ImagesWithoutAlt int `json:"imagesWithoutAlt" bson:"images_without_alt"`

	SchemaTypes        []string `json:"schemaTypes" bson:"schema_types"`
	MissingSchemaTypes []string `json:"missingSchemaTypes" bson:"missing_schema_types"`
	HasRequiredSchema  bool     `json:"hasRequiredSchema" bson:"has_required_schema"`
	HasStructuredData  bool     `json:"hasStructuredData" bson:"has_structured_data"`
	HasFAQSchema       bool     `json:"hasFaqSchema" bson:"has_faq_schema"`
	FAQRequired        bool     `json:"faqRequired" bson:"faq_required"`

	InternalLinks     int  `json:"internalLinks" bson:"internal_links"`
	ContentLinks      int  `json:"contentLinks" bson:"content_links"`
	ContentLinksValid bool `json:"contentLinksValid" bson:"content_links_valid"`
}

// ScoreResult is the output of a scoring call
type ScoreResult struct {
	Score        int                  `json:"score" bson:"score"`
	PageType     PageType             `json:"pageType" bson:"page_type"`
	Issues       []Issue              `json:"issues" bson:"issues"`
	Metrics      ScoreMetrics         `json:"metrics" bson:"metrics"`
	Requirements PageTypeRequirements `json:"requirements" bson:"requirements"`
}

// CountBySeverity returns the number of issues with the given severity
func (r *ScoreResult) CountBySeverity(sev Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			n++
		}
	}
	return n
}
