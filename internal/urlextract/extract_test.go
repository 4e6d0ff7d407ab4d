package urlextract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pageQualityGO/internal/urlextract"
)

const report = `Checked https://Shop.cz/boty, and www.shop.cz/kategorie.
Docs: [guide](https://docs.example.com/a?b=1#install)
Duplicate https://shop.cz/boty again (https://blog.shop.cz/x).
Ignored: ftp://files.shop.cz/dump and mailto:seo@shop.cz`

func TestExtract(t *testing.T) {
	urls := urlextract.Extract(report)

	assert.Equal(t, []string{
		"https://shop.cz/boty",
		"https://www.shop.cz/kategorie",
		"https://docs.example.com/a?b=1",
		"https://blog.shop.cz/x",
	}, urls)
}

func TestExtractNothing(t *testing.T) {
	assert.Empty(t, urlextract.Extract(""))
	assert.Empty(t, urlextract.Extract("no links here, just text. www is not a host"))
}

func TestExtractForHost(t *testing.T) {
	t.Run("HostAndSubdomains", func(t *testing.T) {
		urls := urlextract.ExtractForHost(report, "www.shop.cz")

		assert.Equal(t, []string{
			"https://shop.cz/boty",
			"https://www.shop.cz/kategorie",
			"https://blog.shop.cz/x",
		}, urls)
	})

	t.Run("HostGivenAsURL", func(t *testing.T) {
		urls := urlextract.ExtractForHost(report, "https://docs.example.com/")
		assert.Equal(t, []string{"https://docs.example.com/a?b=1"}, urls)
	})

	t.Run("EmptyHostKeepsAll", func(t *testing.T) {
		assert.Len(t, urlextract.ExtractForHost(report, ""), 4)
	})
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"  WWW.Example.COM/Path#top ", "https://www.example.com/Path", true},
		{"HTTP://Example.com", "http://example.com", true},
		{"https://example.com/a?q=1", "https://example.com/a?q=1", true},
		{"ftp://example.com", "", false},
		{"https://", "", false},
		{"/relative/path", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := urlextract.Normalize(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
