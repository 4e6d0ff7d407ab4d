package analyzer

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Elements that hold site chrome rather than page content
const chromeSelector = "nav,header,footer,aside,[role=navigation],[role=banner],[role=contentinfo]"

// Class or id tokens that mark navigation blocks
var navigationTokens = map[string]bool{
	"nav":         true,
	"navbar":      true,
	"navigation":  true,
	"menu":        true,
	"megamenu":    true,
	"breadcrumb":  true,
	"breadcrumbs": true,
	"sidebar":     true,
	"footer":      true,
	"header":      true,
}

// countLinks returns the number of unique same-host links and how many of them sit in
// page content rather than navigation
func countLinks(root *html.Node, base *url.URL) (internal, content int) {
	doc := goquery.NewDocumentFromNode(root)
	internalLinks := make(map[string]bool)
	contentLinks := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		link, ok := resolveInternal(href, base)
		if !ok {
			return
		}

		internalLinks[link] = true
		if !inNavigation(s) {
			contentLinks[link] = true
		}
	})

	return len(internalLinks), len(contentLinks)
}

// resolveInternal resolves href against base and reports whether it stays on the same host
func resolveInternal(href string, base *url.URL) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}

	lower := strings.ToLower(href)
	for _, prefix := range []string{"mailto:", "tel:", "javascript:", "data:"} {
		if strings.HasPrefix(lower, prefix) {
			return "", false
		}
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	if !sameHost(resolved.Hostname(), base.Hostname()) {
		return "", false
	}

	resolved.Fragment = ""
	resolved.RawFragment = ""
	return resolved.String(), true
}

func sameHost(a, b string) bool {
	a = strings.TrimPrefix(strings.ToLower(a), "www.")
	b = strings.TrimPrefix(strings.ToLower(b), "www.")
	return a == b
}

func inNavigation(s *goquery.Selection) bool {
	if s.Closest(chromeSelector).Length() > 0 {
		return true
	}

	found := false
	s.Parents().EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if hasNavigationToken(p.AttrOr("class", "")) || hasNavigationToken(p.AttrOr("id", "")) {
			found = true
			return false
		}
		return true
	})
	return found
}

func hasNavigationToken(value string) bool {
	tokens := strings.FieldsFunc(strings.ToLower(value), func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '\t' || r == '\n'
	})
	for _, token := range tokens {
		if navigationTokens[token] {
			return true
		}
	}
	return false
}
