// Package blog derives list-page fields from stored article HTML.
package blog

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// DefaultExcerptRunes bounds the excerpt shown on the blog index.
const DefaultExcerptRunes = 200

const wordsPerMinute = 200

// Summary is what the blog index shows for one article.
type Summary struct {
	Excerpt        string `json:"excerpt"`
	FirstImage     string `json:"first_image,omitempty"`
	ReadingMinutes int    `json:"reading_minutes"`
}

// Summarize extracts a plain-text excerpt of at most maxRunes runes,
// the first <img> source, and an estimated reading time.
func Summarize(html string, maxRunes int) (Summary, error) {
	if maxRunes <= 0 {
		maxRunes = DefaultExcerptRunes
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Summary{}, fmt.Errorf("parse blog html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	text := strings.Join(strings.Fields(doc.Text()), " ")
	words := len(strings.Fields(text))

	var summary Summary
	summary.Excerpt = truncate(text, maxRunes)
	if src, ok := doc.Find("img[src]").First().Attr("src"); ok {
		summary.FirstImage = strings.TrimSpace(src)
	}
	if words > 0 {
		summary.ReadingMinutes = (words + wordsPerMinute - 1) / wordsPerMinute
	}
	return summary, nil
}

// truncate cuts s to maxRunes, backing up to a word boundary and adding an ellipsis.
func truncate(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)[:maxRunes]
	cut := string(runes)
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
