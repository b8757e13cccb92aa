package platforms

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FirstText returns the trimmed text of the first node matching selector
// inside s, or "" when nothing matches.
func FirstText(s *goquery.Selection, selector string) string {
	return strings.TrimSpace(s.Find(selector).First().Text())
}

// FirstHref returns the first link target inside s, resolved against base
// when the page used a relative href.
func FirstHref(s *goquery.Selection, base string) string {
	href, ok := s.Find("a").First().Attr("href")
	if !ok || href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return base + href
}
