package models

import (
	"strings"
)

// PageType is the coarse role of a URL within the shop
type PageType string

const (
	PageTypeHomepage PageType = "homepage"
	PageTypeCategory PageType = "category"
	PageTypeFilter   PageType = "filter"
	PageTypeProduct  PageType = "product"
	PageTypeOther    PageType = "other"
)

// PageTypes lists every known page type in display order
var PageTypes = []PageType{
	PageTypeHomepage,
	PageTypeCategory,
	PageTypeFilter,
	PageTypeProduct,
	PageTypeOther,
}

// ParsePageType maps free-form input to a PageType. Unknown values become PageTypeOther.
func ParsePageType(s string) PageType {
	switch PageType(strings.ToLower(strings.TrimSpace(s))) {
	case PageTypeHomepage:
		return PageTypeHomepage
	case PageTypeCategory:
		return PageTypeCategory
	case PageTypeFilter:
		return PageTypeFilter
	case PageTypeProduct:
		return PageTypeProduct
	default:
		return PageTypeOther
	}
}

// HeadingCount represents the count of headings by level
type HeadingCount struct {
	H1 int `json:"h1" bson:"h1"`
	H2 int `json:"h2" bson:"h2"`
	H3 int `json:"h3" bson:"h3"`
	H4 int `json:"h4" bson:"h4"`
	H5 int `json:"h5" bson:"h5"`
	H6 int `json:"h6" bson:"h6"`
}

// ScrapedPageSignal is the structured extraction of SEO facts from a rendered page
type ScrapedPageSignal struct {
	URL                   string       `json:"url,omitempty" bson:"url,omitempty"`
	Title                 string       `json:"title" bson:"title"`
	Description           *string      `json:"description" bson:"description,omitempty"`
	WordCount             int          `json:"wordCount" bson:"word_count"`
	Headings              HeadingCount `json:"headingCounts" bson:"heading_counts"`
	InternalLinkCount     int          `json:"internalLinkCount" bson:"internal_link_count"`
	ContentLinkCount      int          `json:"contentLinkCount" bson:"content_link_count"`
	ImagesWithoutAltCount int          `json:"imagesWithoutAltCount" bson:"images_without_alt_count"`
	SchemaOrgTypes        []string     `json:"schemaOrgTypes" bson:"schema_org_types"`
	PageType              PageType     `json:"pageType" bson:"page_type"`
}

// Normalize returns a copy with every field defaulted to a usable value.
// Negative counts become 0, the description is trimmed but stays present when blank,
// and the page type is parsed.
func (s ScrapedPageSignal) Normalize() ScrapedPageSignal {
	out := s
	out.Title = strings.TrimSpace(s.Title)
	if s.Description != nil {
		desc := strings.TrimSpace(*s.Description)
		out.Description = &desc
	}
	out.WordCount = nonNegative(s.WordCount)
	out.Headings = HeadingCount{
		H1: nonNegative(s.Headings.H1),
		H2: nonNegative(s.Headings.H2),
		H3: nonNegative(s.Headings.H3),
		H4: nonNegative(s.Headings.H4),
		H5: nonNegative(s.Headings.H5),
		H6: nonNegative(s.Headings.H6),
	}
	out.InternalLinkCount = nonNegative(s.InternalLinkCount)
	out.ContentLinkCount = nonNegative(s.ContentLinkCount)
	out.ImagesWithoutAltCount = nonNegative(s.ImagesWithoutAltCount)

	types := make([]string, 0, len(s.SchemaOrgTypes))
	for _, t := range s.SchemaOrgTypes {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	out.SchemaOrgTypes = types
	out.PageType = ParsePageType(string(s.PageType))
	return out
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// AuditRequest represents the request to audit a URL
type AuditRequest struct {
	URL      string `json:"url" binding:"required,url"`
	PageType string `json:"pageType"`
}

// BatchAuditRequest represents the request to audit several URLs
type BatchAuditRequest struct {
	URLs     []string `json:"urls" binding:"required,min=1"`
	PageType string   `json:"pageType"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Error      string `json:"error,omitempty"`
}
