package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		ok       bool
	}{
		{name: "Attached meridiem", raw: "7:30AM", expected: "07:30", ok: true},
		{name: "Spaced meridiem", raw: "7:30 AM", expected: "07:30", ok: true},
		{name: "Dotted meridiem", raw: "2:05 p.m.", expected: "14:05", ok: true},
		{name: "Noon", raw: "12:00 PM", expected: "12:00", ok: true},
		{name: "Past midnight", raw: "12:15 AM", expected: "00:15", ok: true},
		{name: "Afternoon", raw: "3:40 PM", expected: "15:40", ok: true},
		{name: "24-hour text", raw: "14:05", expected: "14:05", ok: true},
		{name: "Surrounded by text", raw: "Tee off at 9:10 AM sharp", expected: "09:10", ok: true},
		{name: "Hour out of range for meridiem", raw: "13:00 PM", ok: false},
		{name: "Minute out of range", raw: "7:75 AM", ok: false},
		{name: "Not a clock", raw: "sold out", ok: false},
		{name: "Empty", raw: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeTime(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestNormalizeTimeTokens(t *testing.T) {
	got, ok := NormalizeTimeTokens("7:30", "PM")
	assert.True(t, ok)
	assert.Equal(t, "19:30", got)
}

func TestParseHoles(t *testing.T) {
	assert.Equal(t, 18, ParseHoles("18 holes"))
	assert.Equal(t, 9, ParseHoles("9-hole twilight"))
	assert.Equal(t, 36, ParseHoles("36"))
	assert.Equal(t, 0, ParseHoles("championship course"))
}

func TestParsePlayers(t *testing.T) {
	assert.Equal(t, 4, ParsePlayers("4 players"))
	assert.Equal(t, 2, ParsePlayers("2 spots"))
	assert.Equal(t, 1, ParsePlayers("1 golfer"))
	assert.Equal(t, 0, ParsePlayers("foursome available"))
	assert.Equal(t, 0, ParsePlayers(""))
}
