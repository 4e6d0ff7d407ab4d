package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditSnapshot is an immutable record of one scoring run for a URL
type AuditSnapshot struct {
	ID           primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	URL          string               `json:"url" bson:"url"`
	PageType     PageType             `json:"pageType" bson:"page_type"`
	Score        int                  `json:"score" bson:"score"`
	Issues       []Issue              `json:"issues" bson:"issues"`
	Metrics      ScoreMetrics         `json:"metrics" bson:"metrics"`
	Requirements PageTypeRequirements `json:"requirements" bson:"requirements"`
	Signal       ScrapedPageSignal    `json:"signal" bson:"signal"`
	CreatedAt    time.Time            `json:"created_at" bson:"created_at"`
}

// NewAuditSnapshot builds a snapshot from a signal and the result it produced
func NewAuditSnapshot(signal ScrapedPageSignal, result *ScoreResult) *AuditSnapshot {
	return &AuditSnapshot{
		URL:          signal.URL,
		PageType:     result.PageType,
		Score:        result.Score,
		Issues:       result.Issues,
		Metrics:      result.Metrics,
		Requirements: result.Requirements,
		Signal:       signal,
		CreatedAt:    time.Now(),
	}
}

// RankDirection describes how a keyword position moved between two checks
type RankDirection string

const (
	RankNew        RankDirection = "new"
	RankLost       RankDirection = "lost"
	RankImproved   RankDirection = "improved"
	RankDeclined   RankDirection = "declined"
	RankUnchanged  RankDirection = "unchanged"
	RankNotRanking RankDirection = "not_ranking"
)

// RankChange compares a position with the previous one. Positive Delta means improvement.
type RankChange struct {
	Direction        RankDirection `json:"direction" bson:"direction"`
	Delta            int           `json:"delta" bson:"delta"`
	PreviousPosition *int          `json:"previousPosition" bson:"previous_position,omitempty"`
	CurrentPosition  *int          `json:"currentPosition" bson:"current_position,omitempty"`
	Bucket           string        `json:"bucket" bson:"bucket"`
}

// RankCheck is one keyword position lookup for a domain
type RankCheck struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Keyword    string             `json:"keyword" bson:"keyword"`
	Domain     string             `json:"domain" bson:"domain"`
	Position   *int               `json:"position" bson:"position,omitempty"`
	MatchedURL string             `json:"matchedUrl,omitempty" bson:"matched_url,omitempty"`
	Change     RankChange         `json:"change" bson:"change"`
	CheckedAt  time.Time          `json:"checked_at" bson:"checked_at"`
}

// RankCheckRequest records a position either directly or from an ordered result list
type RankCheckRequest struct {
	Keyword  string   `json:"keyword" binding:"required"`
	Domain   string   `json:"domain" binding:"required"`
	Results  []string `json:"results"`
	Position *int     `json:"position"`
}

// LinkExtractRequest asks for the URLs found in a block of text
type LinkExtractRequest struct {
	Text string `json:"text" binding:"required"`
	Host string `json:"host"`
}

// Stats represents application statistics
type Stats struct {
	TotalAudits   int       `json:"total_audits" bson:"total_audits"`
	UniqueURLs    int       `json:"unique_urls" bson:"unique_urls"`
	RankChecks    int       `json:"rank_checks" bson:"rank_checks"`
	AuditsLast24h int       `json:"audits_last_24h" bson:"audits_last_24h"`
	AuditsLast7d  int       `json:"audits_last_7d" bson:"audits_last_7d"`
	AuditsLast30d int       `json:"audits_last_30d" bson:"audits_last_30d"`
	AverageScore  float64   `json:"average_score" bson:"average_score"`
	LastUpdated   time.Time `json:"last_updated" bson:"last_updated"`
}
