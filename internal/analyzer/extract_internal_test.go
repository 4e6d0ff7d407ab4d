package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestSchemaTypeName(t *testing.T) {
	assert.Equal(t, "Product", schemaTypeName("https://schema.org/Product"))
	assert.Equal(t, "Product", schemaTypeName("http://schema.org/Product/"))
	assert.Equal(t, "Offer", schemaTypeName("schema:Offer"))
	assert.Equal(t, "ItemList", schemaTypeName("  ItemList "))
	assert.Equal(t, "", schemaTypeName(""))
}

func TestParseJSONLD(t *testing.T) {
	t.Run("TopLevelArray", func(t *testing.T) {
		types := newTypeSet()
		parseJSONLD(`[{"@type": "Organization"}, {"@type": "WebSite", "potentialAction": {"@type": "SearchAction"}}]`, types)
		assert.Equal(t, []string{"Organization", "WebSite", "SearchAction"}, types.list)
	})

	t.Run("CaseInsensitiveDuplicates", func(t *testing.T) {
		types := newTypeSet()
		parseJSONLD(`{"@graph": [{"@type": "Product"}, {"@type": "product"}]}`, types)
		assert.Equal(t, []string{"Product"}, types.list)
	})

	t.Run("NonStringTypesIgnored", func(t *testing.T) {
		types := newTypeSet()
		parseJSONLD(`{"@type": 42, "item": {"@type": ["ListItem", 7]}}`, types)
		assert.Equal(t, []string{"ListItem"}, types.list)
	})

	t.Run("InvalidJSONFallsBackToPattern", func(t *testing.T) {
		types := newTypeSet()
		parseJSONLD(`{"@type": "Product", "name": "Bota" "offers": {"@type" : "Offer"}`, types)
		assert.Equal(t, []string{"Product", "Offer"}, types.list)
	})

	t.Run("Empty", func(t *testing.T) {
		types := newTypeSet()
		parseJSONLD("   ", types)
		assert.Empty(t, types.list)
	})
}

func TestBodyTextSkipsScripts(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<html><head><title>Not counted</title></head><body>
		<p>one two three</p>
		<script>var notCounted = 1;</script>
		<style>.hidden { display: none }</style>
		<noscript>enable javascript</noscript>
		<div>four <b>five</b></div>
	</body></html>`))
	require.NoError(t, err)

	assert.Equal(t, 5, countWords(bodyText(doc)))
}

func TestHasNavigationToken(t *testing.T) {
	assert.True(t, hasNavigationToken("site-nav"))
	assert.True(t, hasNavigationToken("Main_Menu wide"))
	assert.True(t, hasNavigationToken("breadcrumbs"))
	assert.False(t, hasNavigationToken("unavailable"))
	assert.False(t, hasNavigationToken("canvas product-grid"))
	assert.False(t, hasNavigationToken(""))
}
