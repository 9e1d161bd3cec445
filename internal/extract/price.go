package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Booking platforms disagree on price encoding: some emit dollars ("$65",
// "$65.99"), some emit cents as a bare integer ("$15348" meaning $153). The
// magnitude disambiguates: integers strictly between centsLow and centsHigh
// are cents; values between dollarsLow and dollarsHigh inclusive are already
// dollars. Anything else is unparseable noise (cart fees, per-hole rates,
// phone number fragments) and is discarded.
const (
	centsLow    = 500
	centsHigh   = 50000
	dollarsLow  = 15
	dollarsHigh = 500
)

var priceTokenPattern = regexp.MustCompile(`\$?\s*(\d+(?:\.\d{1,2})?)`)

// ParsePrice extracts a green-fee price in dollars from raw text, or nil when
// no plausible price is present.
func ParsePrice(raw string) *float64 {
	m := priceTokenPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return nil
	}
	tok := m[1]

	// Integers without a decimal point may be cents-encoded.
	if !strings.Contains(tok, ".") {
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil
		}
		if n > centsLow && n < centsHigh {
			v := float64(n / 100)
			return &v
		}
		if n >= dollarsLow && n <= dollarsHigh {
			v := float64(n)
			return &v
		}
		return nil
	}

	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil
	}
	if v >= dollarsLow && v <= dollarsHigh {
		return &v
	}
	return nil
}

func formatPriceKey(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
