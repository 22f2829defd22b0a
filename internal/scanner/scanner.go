package scanner

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"'` + "`" + `)\]}]+`)

// ExtractFromText returns the unique absolute http(s) URLs found in a
// plain-text document, in order of first appearance. Trailing sentence
// punctuation is stripped since it is almost never part of the URL.
func ExtractFromText(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimRight(m, ".,;:!?")
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// ExtractFromHTML parses an HTML document and returns unique candidate
// URLs from a[href], link[href], img[src] and script[src], resolving
// relative references against baseURL when given. Non-http(s) schemes
// and bare fragments are skipped.
func ExtractFromHTML(baseURL, htmlContent string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	var base *url.URL
	if baseURL != "" {
		base, err = url.Parse(baseURL)
		if err != nil {
			return nil, err
		}
	}

	seen := make(map[string]struct{})
	var out []string
	add := func(ref string) {
		ref = strings.TrimSpace(ref)
		if ref == "" || strings.HasPrefix(ref, "#") {
			return
		}
		u, err := url.Parse(ref)
		if err != nil {
			return
		}
		if base != nil {
			u = base.ResolveReference(u)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return
		}
		abs := u.String()
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
	}

	doc.Find("a[href], link[href]").Each(func(i int, s *goquery.Selection) {
		if href, exists := s.Attr("href"); exists {
			add(href)
		}
	})
	doc.Find("img[src], script[src]").Each(func(i int, s *goquery.Selection) {
		if src, exists := s.Attr("src"); exists {
			add(src)
		}
	})

	return out, nil
}
