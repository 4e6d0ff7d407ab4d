package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"pageQualityGO/internal/models"
)

var jsonLDTypePattern = regexp.MustCompile(`"@type"\s*:\s*"([^"]+)"`)

// ExtractSignal builds a page signal from an HTML document served at pageURL
func ExtractSignal(body []byte, pageURL *url.URL, pageType models.PageType) (*models.ScrapedPageSignal, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	signal := &models.ScrapedPageSignal{
		URL:            pageURL.String(),
		SchemaOrgTypes: []string{},
	}
	types := newTypeSet()
	processDocument(doc, signal, types)
	signal.SchemaOrgTypes = types.list

	internal, content := countLinks(doc, pageURL)
	signal.InternalLinkCount = internal
	signal.ContentLinkCount = content
	signal.WordCount = countContentWords(body, doc, pageURL)

	if pageType == "" {
		signal.PageType = ClassifyPageType(pageURL, signal.SchemaOrgTypes)
	} else {
		signal.PageType = models.ParsePageType(string(pageType))
	}
	return signal, nil
}

// processDocument walks the tree once for title, description, headings, images and structured data
func processDocument(n *html.Node, signal *models.ScrapedPageSignal, types *typeSet) {
	var processNode func(*html.Node)
	processNode = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				// <title> inside inline SVG has a namespace
				if n.Namespace == "" && signal.Title == "" {
					signal.Title = collapseSpaces(textContent(n))
				}
			case "meta":
				if signal.Description == nil && strings.EqualFold(attr(n, "name"), "description") {
					desc := strings.TrimSpace(attr(n, "content"))
					signal.Description = &desc
				}
			case "h1":
				signal.Headings.H1++
			case "h2":
				signal.Headings.H2++
			case "h3":
				signal.Headings.H3++
			case "h4":
				signal.Headings.H4++
			case "h5":
				signal.Headings.H5++
			case "h6":
				signal.Headings.H6++
			case "img":
				if strings.TrimSpace(attr(n, "alt")) == "" {
					signal.ImagesWithoutAltCount++
				}
			case "script":
				if strings.EqualFold(strings.TrimSpace(attr(n, "type")), "application/ld+json") {
					parseJSONLD(textContent(n), types)
				}
			}

			// Microdata may sit on any element
			if itemType := attr(n, "itemtype"); itemType != "" {
				for _, t := range strings.Fields(itemType) {
					types.add(schemaTypeName(t))
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			processNode(c)
		}
	}

	processNode(n)
}

// parseJSONLD collects @type values from a JSON-LD block, including nested nodes and @graph.
// Blocks that are not valid JSON fall back to a pattern match.
func parseJSONLD(raw string, types *typeSet) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}

	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		for _, match := range jsonLDTypePattern.FindAllStringSubmatch(raw, -1) {
			types.add(schemaTypeName(match[1]))
		}
		return
	}
	collectJSONLDTypes(data, types)
}

func collectJSONLDTypes(v any, types *typeSet) {
	switch node := v.(type) {
	case map[string]any:
		switch t := node["@type"].(type) {
		case string:
			types.add(schemaTypeName(t))
		case []any:
			for _, item := range t {
				if s, ok := item.(string); ok {
					types.add(schemaTypeName(s))
				}
			}
		}
		for _, key := range slices.Sorted(maps.Keys(node)) {
			if key != "@type" {
				collectJSONLDTypes(node[key], types)
			}
		}
	case []any:
		for _, item := range node {
			collectJSONLDTypes(item, types)
		}
	}
}

// schemaTypeName strips vocabulary prefixes such as https://schema.org/ or schema:
func schemaTypeName(t string) string {
	t = strings.TrimSpace(t)
	t = strings.TrimRight(t, "/")
	if i := strings.LastIndexAny(t, "/#:"); i >= 0 {
		t = t[i+1:]
	}
	return t
}

// typeSet keeps first-seen order and drops case-insensitive duplicates
type typeSet struct {
	seen map[string]bool
	list []string
}

func newTypeSet() *typeSet {
	return &typeSet{seen: make(map[string]bool), list: []string{}}
}

func (s *typeSet) add(t string) {
	key := strings.ToLower(t)
	if t == "" || s.seen[key] {
		return
	}
	s.seen[key] = true
	s.list = append(s.list, t)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent concatenates every text node below n
func textContent(n *html.Node) string {
	var sb strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return sb.String()
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
