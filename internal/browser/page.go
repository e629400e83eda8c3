package browser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const maxPageTextChars = 50000

// PageText extracts readable text from an HTML document for transcript
// snapshots. Scripts, styles and boilerplate are dropped; whitespace runs
// collapse to single spaces; output is capped so one bloated page cannot
// dominate a transcript.
func PageText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, iframe").Remove()

	var sb strings.Builder
	doc.Find("body").Each(func(_ int, sel *goquery.Selection) {
		sb.WriteString(sel.Text())
	})

	text := strings.Join(strings.Fields(sb.String()), " ")
	if len(text) > maxPageTextChars {
		// Back up to a rune boundary so multi-byte text is not cut
		// mid-sequence.
		cut := maxPageTextChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "... (truncated)"
	}
	return text, nil
}
