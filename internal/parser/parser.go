package parser

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseResult aggregates HTML analysis results.
type ParseResult struct {
	Title     string
	Links     []string
	Resources []string
}

// ParseHTML parses HTML and extracts the title, anchor hrefs and embedded resource references.
// Values are trimmed; empty references are dropped. Order follows the document.
func ParseHTML(body []byte) (ParseResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ParseResult{}, err
	}

	return ParseResult{
		Title:     parseTitle(doc),
		Links:     parseLinks(doc),
		Resources: parseResources(doc),
	}, nil
}

func parseTitle(doc *goquery.Document) string {
	titleSelection := doc.Find("title").First()
	if titleSelection.Length() == 0 {
		return ""
	}

	return normalizeTitle(titleSelection.Text())
}

// normalizeTitle collapses runs of whitespace inside a title. goquery has
// already decoded entities, so the text is not unescaped again.
func normalizeTitle(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func parseLinks(doc *goquery.Document) []string {
	links := []string{}
	doc.Find("a[href]").Each(func(_ int, selection *goquery.Selection) {
		href, ok := selection.Attr("href")
		if !ok {
			return
		}

		trimmed := strings.TrimSpace(href)
		if trimmed == "" {
			return
		}

		links = append(links, trimmed)
	})

	return links
}

// parseResources returns img, script and link references, grouped in that order.
func parseResources(doc *goquery.Document) []string {
	resources := []string{}
	resources = append(resources, parseBySelector(doc, "img[src]", "src")...)
	resources = append(resources, parseBySelector(doc, "script[src]", "src")...)
	resources = append(resources, parseBySelector(doc, "link[href]", "href")...)

	return resources
}

func parseBySelector(doc *goquery.Document, selector string, attr string) []string {
	refs := []string{}
	doc.Find(selector).Each(func(_ int, selection *goquery.Selection) {
		value, ok := selection.Attr(attr)
		if !ok {
			return
		}

		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return
		}

		refs = append(refs, trimmed)
	})

	return refs
}
