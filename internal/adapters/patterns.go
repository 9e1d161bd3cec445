package adapters

import "regexp"

var (
	cardTimePattern  = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s*(?:AM|PM)\b`)
	cardPricePattern = regexp.MustCompile(`\$\d+(?:\.\d{1,2})?`)
)

func lineTimeMatches(text string) []string {
	return cardTimePattern.FindAllString(text, -1)
}

func linePriceMatches(text string) []string {
	return cardPricePattern.FindAllString(text, -1)
}
