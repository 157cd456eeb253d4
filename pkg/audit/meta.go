package audit

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// pageMeta holds what we can learn from the landing page HTML alone.
type pageMeta struct {
	HasTitle           bool
	Title              string
	HasMetaDescription bool
	MetaDescription    string
	HasViewport        bool
	HasOGTags          bool
	HasFavicon         bool
	H1Count            int
}

// extractMeta pulls the SEO-relevant tags out of a page. An empty or
// unparseable document yields the zero value; this never fails.
func extractMeta(htmlBody string) pageMeta {
	var meta pageMeta
	if htmlBody == "" {
		return meta
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return meta
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		meta.HasTitle = true
		if len(title) > 200 {
			title = title[:200]
		}
		meta.Title = title
	}

	doc.Find(`meta[name="description"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if content, ok := s.Attr("content"); ok && strings.TrimSpace(content) != "" {
			meta.HasMetaDescription = true
			if len(content) > 300 {
				content = content[:300]
			}
			meta.MetaDescription = content
			return false
		}
		return true
	})

	meta.HasViewport = doc.Find(`meta[name="viewport"]`).Length() > 0

	doc.Find("meta[property]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if prop, ok := s.Attr("property"); ok && strings.HasPrefix(prop, "og:") {
			meta.HasOGTags = true
			return false
		}
		return true
	})

	doc.Find("link[rel]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if rel, ok := s.Attr("rel"); ok && strings.Contains(strings.ToLower(rel), "icon") {
			meta.HasFavicon = true
			return false
		}
		return true
	})

	meta.H1Count = doc.Find("h1").Length()

	return meta
}
