package analyzer

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// countContentWords counts words of the main content. When readability cannot isolate
// an article the whole body text is counted instead.
func countContentWords(body []byte, root *html.Node, pageURL *url.URL) int {
	if n := readableWordCount(body, pageURL); n > 0 {
		return n
	}
	return countWords(bodyText(root))
}

func readableWordCount(body []byte, pageURL *url.URL) int {
	article, err := readability.NewParser().Parse(bytes.NewReader(body), pageURL)
	if err != nil || strings.TrimSpace(article.Content) == "" {
		return 0
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return 0
	}
	return countWords(doc.Text())
}

// bodyText returns the visible text of <body>, skipping scripts and styles
func bodyText(root *html.Node) string {
	var sb strings.Builder
	var extract func(*html.Node, bool)
	extract = func(n *html.Node, inBody bool) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "template", "head":
				return
			case "body":
				inBody = true
			}
		}
		if inBody && n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c, inBody)
		}
	}
	extract(root, false)
	return sb.String()
}

func countWords(text string) int {
	return len(strings.Fields(text))
}
