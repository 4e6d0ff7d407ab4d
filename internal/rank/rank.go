// Package rank finds a domain's position in an ordered result list and describes how
// that position moved between two checks.
package rank

import (
	"net/url"
	"strings"

	"pageQualityGO/internal/models"
)

// Position buckets
const (
	BucketTop3       = "top3"
	BucketTop10      = "top10"
	BucketTop20      = "top20"
	BucketTop100     = "top100"
	BucketBeyond     = "beyond"
	BucketNotRanking = "not_ranking"
)

// FindPosition returns the 1-based position of the first result hosted on domain or
// one of its subdomains. A leading "www." is ignored on both sides.
func FindPosition(results []string, domain string) (int, string, bool) {
	target := normalizeHost(domain)
	if target == "" {
		return 0, "", false
	}

	for i, result := range results {
		host := normalizeHost(result)
		if host == "" {
			continue
		}
		if host == target || strings.HasSuffix(host, "."+target) {
			return i + 1, strings.TrimSpace(result), true
		}
	}
	return 0, "", false
}

// Compare describes the move from previous to current. A nil position means not ranking.
func Compare(previous, current *int) models.RankChange {
	change := models.RankChange{
		PreviousPosition: previous,
		CurrentPosition:  current,
		Bucket:           Bucket(current),
	}

	switch {
	case previous == nil && current == nil:
		change.Direction = models.RankNotRanking
	case previous == nil:
		change.Direction = models.RankNew
	case current == nil:
		change.Direction = models.RankLost
	default:
		change.Delta = *previous - *current
		switch {
		case change.Delta > 0:
			change.Direction = models.RankImproved
		case change.Delta < 0:
			change.Direction = models.RankDeclined
		default:
			change.Direction = models.RankUnchanged
		}
	}
	return change
}

// Bucket groups a position into a reporting band
func Bucket(position *int) string {
	if position == nil || *position <= 0 {
		return BucketNotRanking
	}
	switch p := *position; {
	case p <= 3:
		return BucketTop3
	case p <= 10:
		return BucketTop10
	case p <= 20:
		return BucketTop20
	case p <= 100:
		return BucketTop100
	default:
		return BucketBeyond
	}
}

// normalizeHost extracts a lower-cased host without "www." from a URL or a bare domain
func normalizeHost(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimSuffix(host, ".")
	return strings.TrimPrefix(host, "www.")
}
