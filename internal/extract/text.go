package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	lineTimePattern  = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s*(?:AM|PM)\b`)
	linePricePattern = regexp.MustCompile(`\$\d+(?:\.\d{1,2})?`)
)

// ExtractFreeText is the last-resort matcher: scan the rendered text line by
// line and pair every 12-hour clock mention with the prices on the same line.
// Noisy, but it survives markup changes that break the attribute matcher.
func ExtractFreeText(doc *goquery.Document) []RawAvailabilityEntry {
	var entries []RawAvailabilityEntry

	for _, line := range strings.Split(doc.Text(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		times := lineTimePattern.FindAllString(line, -1)
		if len(times) == 0 {
			continue
		}
		prices := linePricePattern.FindAllString(line, -1)
		for _, t := range times {
			entries = append(entries, RawAvailabilityEntry{
				TimeText:   t,
				PriceTexts: prices,
			})
		}
	}

	return entries
}
