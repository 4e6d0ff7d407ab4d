package analyzer

import (
	"net/url"
	"strings"

	"pageQualityGO/internal/models"
)

// Query parameters and path segments that narrow a listing
var filterKeys = map[string]bool{
	"filter": true,
	"f":      true,
	"sort":   true,
	"color":  true,
	"size":   true,
	"price":  true,
	"brand":  true,
}

// ClassifyPageType guesses the page type from the URL and the schema types found on the page.
// Checks run homepage, product, filter, category; anything else is other.
func ClassifyPageType(u *url.URL, schemaTypes []string) models.PageType {
	if u == nil {
		return models.PageTypeOther
	}

	path := strings.ToLower(u.EscapedPath())
	if path == "" || path == "/" {
		return models.PageTypeHomepage
	}

	if hasSchemaType(schemaTypes, "Product") ||
		strings.Contains(path, "/p/") || strings.Contains(path, "/product") {
		return models.PageTypeProduct
	}

	if isFilterURL(u, path) {
		return models.PageTypeFilter
	}

	if hasSchemaType(schemaTypes, "BreadcrumbList") || hasSchemaType(schemaTypes, "ItemList") ||
		strings.Contains(path, "/c/") || strings.Contains(path, "/category") {
		return models.PageTypeCategory
	}

	return models.PageTypeOther
}

func isFilterURL(u *url.URL, path string) bool {
	for key := range u.Query() {
		key = strings.ToLower(key)
		if filterKeys[key] || strings.HasPrefix(key, "filter") {
			return true
		}
	}

	for _, segment := range strings.Split(path, "/") {
		if filterKeys[segment] {
			return true
		}
	}
	return false
}

func hasSchemaType(types []string, want string) bool {
	for _, t := range types {
		if strings.EqualFold(strings.TrimSpace(t), want) {
			return true
		}
	}
	return false
}
