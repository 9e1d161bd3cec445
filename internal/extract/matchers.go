package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy tags an extraction approach. Matchers run in a fixed priority
// order: typed payloads beat attribute heuristics beat free-text scanning.
type Strategy string

const (
	StrategyStructured Strategy = "structured-data"
	StrategyAttributes Strategy = "attribute-extraction"
	StrategyText       Strategy = "free-text-regex"
)

// Matcher is one tagged, independently-testable extraction function over a
// parsed document.
type Matcher struct {
	Strategy Strategy
	Extract  func(doc *goquery.Document) []RawAvailabilityEntry
}

// DefaultMatchers returns the standard matcher chain in priority order.
func DefaultMatchers() []Matcher {
	return []Matcher{
		{Strategy: StrategyStructured, Extract: ExtractJSONLD},
		{Strategy: StrategyAttributes, Extract: ExtractAttributes},
		{Strategy: StrategyText, Extract: ExtractFreeText},
	}
}

// Run parses html and tries each matcher in order, returning the first
// non-empty, deduplicated result along with the strategy that produced it.
// An empty result from every matcher is not an error: it is how a page with
// no availability reads.
func Run(matchers []Matcher, html string) ([]RawAvailabilityEntry, Strategy, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, "", fmt.Errorf("parsing document: %w", err)
	}
	for _, m := range matchers {
		if entries := Dedup(m.Extract(doc)); len(entries) > 0 {
			return entries, m.Strategy, nil
		}
	}
	return nil, "", nil
}
