package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var clockPattern = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(AM|PM|A\.M\.|P\.M\.)?`)

// NormalizeTime parses 12- or 24-hour clock text into "HH:MM". The meridiem
// indicator may be attached ("7:30AM"), spaced ("7:30 AM") or absent (text is
// then read as 24-hour). Returns false for anything unrecognizable; callers
// drop such entries rather than erroring.
func NormalizeTime(raw string) (string, bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", false
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return "", false
	}
	minute, err := strconv.Atoi(m[2])
	if err != nil {
		return "", false
	}
	if minute > 59 {
		return "", false
	}

	meridiem := strings.ToUpper(strings.ReplaceAll(m[3], ".", ""))
	switch meridiem {
	case "AM":
		if hour < 1 || hour > 12 {
			return "", false
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return "", false
		}
		if hour != 12 {
			hour += 12
		}
	default:
		// No meridiem: 24-hour text.
		if hour > 23 {
			return "", false
		}
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// NormalizeTimeTokens joins a clock token with a separately-tokenized meridiem
// indicator ("7:30" + "AM") before normalizing.
func NormalizeTimeTokens(timeText, meridiem string) (string, bool) {
	return NormalizeTime(strings.TrimSpace(timeText) + " " + strings.TrimSpace(meridiem))
}

// ParseHoles reads a hole count (9/18/27/36) out of raw text, returning 0
// when the text names no recognizable count.
func ParseHoles(raw string) int {
	for _, n := range []string{"36", "27", "18", "9"} {
		if strings.Contains(raw, n) {
			v, _ := strconv.Atoi(n)
			return v
		}
	}
	return 0
}

var playersPattern = regexp.MustCompile(`(\d)\s*(?:players?|golfers?|spots?)?`)

// ParsePlayers reads an available-spot count out of raw text, returning 0
// when absent.
func ParsePlayers(raw string) int {
	m := playersPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(raw)))
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 || n > 8 {
		return 0
	}
	return n
}
