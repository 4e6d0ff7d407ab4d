package scorer

import (
	"fmt"
	"strings"
)

type messageKey int

const (
	msgTitleMissing messageKey = iota
	msgTitleShort
	msgTitleLong
	msgTitleBranding
	msgDescriptionMissing
	msgDescriptionShort
	msgDescriptionLong
	msgH1Missing
	msgH1Multiple
	msgWordCountLow
	msgWordCountHigh
	msgImagesWithoutAlt
	msgSchemaRequiredMissing
	msgSchemaNone
	msgContentLinksLow
	msgAnalysisFailed
)

type catalog map[messageKey]string

// catalogs maps a language code to its message templates
var catalogs = map[string]catalog{
	"en": {
		msgTitleMissing:          "Title tag missing",
		msgTitleShort:            "Title is too short (%d characters, recommended 50-60)",
		msgTitleLong:             "Title is too long (%d characters, recommended 50-60)",
		msgTitleBranding:         "Title contains a scraped platform suffix (%q)",
		msgDescriptionMissing:    "Meta description missing",
		msgDescriptionShort:      "Meta description is too short (%d characters, recommended 150-160)",
		msgDescriptionLong:       "Meta description is too long (%d characters, recommended 150-160)",
		msgH1Missing:             "H1 heading missing",
		msgH1Multiple:            "Multiple H1 headings on the page (%d)",
		msgWordCountLow:          "Not enough content for a %s page (%d words, minimum %d)",
		msgWordCountHigh:         "Content is much longer than usual for a %s page (%d words, recommended up to %d)",
		msgImagesWithoutAlt:      "%d images without alt text",
		msgSchemaRequiredMissing: "Missing required structured data: %s",
		msgSchemaNone:            "No structured data (schema.org) found",
		msgContentLinksLow:       "Too few internal links in the content (%d, minimum %d)",
		msgAnalysisFailed:        "Analysis could not be completed",
	},
	"cs": {
		msgTitleMissing:          "Chybí title tag",
		msgTitleShort:            "Title je příliš krátký (%d znaků, doporučeno 50-60)",
		msgTitleLong:             "Title je příliš dlouhý (%d znaků, doporučeno 50-60)",
		msgTitleBranding:         "Title obsahuje příponu platformy ze scrapování (%q)",
		msgDescriptionMissing:    "Chybí meta description",
		msgDescriptionShort:      "Meta description je příliš krátký (%d znaků, doporučeno 150-160)",
		msgDescriptionLong:       "Meta description je příliš dlouhý (%d znaků, doporučeno 150-160)",
		msgH1Missing:             "Chybí nadpis H1",
		msgH1Multiple:            "Stránka má více nadpisů H1 (%d)",
		msgWordCountLow:          "Málo obsahu pro stránku typu %s (%d slov, minimum %d)",
		msgWordCountHigh:         "Obsah je výrazně delší než obvykle pro stránku typu %s (%d slov, doporučeno do %d)",
		msgImagesWithoutAlt:      "%d obrázků bez alt textu",
		msgSchemaRequiredMissing: "Chybí povinná strukturovaná data: %s",
		msgSchemaNone:            "Nenalezena žádná strukturovaná data (schema.org)",
		msgContentLinksLow:       "Málo interních odkazů v obsahu (%d, minimum %d)",
		msgAnalysisFailed:        "Analýzu se nepodařilo dokončit",
	},
}

// DefaultLanguage is used when no or an unsupported language is requested
const DefaultLanguage = "en"

// SupportedLanguage reports whether a message catalog exists for lang
func SupportedLanguage(lang string) bool {
	_, ok := catalogs[strings.ToLower(strings.TrimSpace(lang))]
	return ok
}

func catalogFor(lang string) catalog {
	if c, ok := catalogs[strings.ToLower(strings.TrimSpace(lang))]; ok {
		return c
	}
	return catalogs[DefaultLanguage]
}

func (c catalog) format(key messageKey, args ...any) string {
	tmpl, ok := c[key]
	if !ok {
		tmpl = catalogs[DefaultLanguage][key]
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
