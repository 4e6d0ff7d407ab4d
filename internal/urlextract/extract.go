// Package urlextract pulls page URLs out of free text such as pasted reports or
// markdown notes.
package urlextract

import (
	"net/url"
	"regexp"
	"strings"
)

// Brackets and quotes end a candidate so markdown targets like [x](https://a.b) come out clean.
var candidatePattern = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"'()\[\]{}]+`)

const trailingPunctuation = ".,;:!?'\"`"

// Extract returns the normalized http(s) URLs found in text, deduplicated in order of
// first occurrence.
func Extract(text string) []string {
	matches := candidatePattern.FindAllString(text, -1)
	urls := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))

	for _, match := range matches {
		normalized, ok := Normalize(strings.TrimRight(match, trailingPunctuation))
		if !ok || seen[normalized] {
			continue
		}
		seen[normalized] = true
		urls = append(urls, normalized)
	}
	return urls
}

// ExtractForHost is Extract limited to URLs on host or its subdomains
func ExtractForHost(text, host string) []string {
	target := bareHost(host)
	all := Extract(text)
	if target == "" {
		return all
	}

	filtered := make([]string, 0, len(all))
	for _, raw := range all {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		h := bareHost(u.Hostname())
		if h == target || strings.HasSuffix(h, "."+target) {
			filtered = append(filtered, raw)
		}
	}
	return filtered
}

// Normalize adds https:// to www. hosts, lower-cases scheme and host and drops the
// fragment. It reports false for anything that is not an absolute http(s) URL.
func Normalize(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if strings.HasPrefix(strings.ToLower(raw), "www.") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Hostname() == "" {
		return "", false
	}

	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), true
}

func bareHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/:?#"); i >= 0 {
		host = host[:i]
	}
	return strings.TrimPrefix(host, "www.")
}
