// Package clock provides the regional wall-clock used for scrape windows and
// for filtering tee times that have already passed. All dates and datetimes
// are exchanged as sortable strings: "2006-01-02", "15:04" and
// "2006-01-02 15:04".
package clock

import (
	"fmt"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04"
	DateTimeLayout = "2006-01-02 15:04"
)

// Regional is a wall clock pinned to the service's operating timezone.
type Regional struct {
	loc *time.Location
	now func() time.Time
}

// NewRegional loads the named timezone, e.g. "America/Los_Angeles".
func NewRegional(tz string) (*Regional, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", tz, err)
	}
	return &Regional{loc: loc, now: time.Now}, nil
}

// NewRegionalAt pins the clock to a fixed instant. Test use only.
func NewRegionalAt(tz string, at time.Time) (*Regional, error) {
	c, err := NewRegional(tz)
	if err != nil {
		return nil, err
	}
	c.now = func() time.Time { return at }
	return c, nil
}

// Now returns the current instant in the service timezone.
func (c *Regional) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns today's calendar date as "2006-01-02".
func (c *Regional) Today() string {
	return c.Now().Format(DateLayout)
}

// DateWindow returns the dates from today through today+days-1, inclusive.
func (c *Regional) DateWindow(days int) []string {
	if days < 1 {
		days = 1
	}
	dates := make([]string, 0, days)
	start := c.Now()
	for i := 0; i < days; i++ {
		dates = append(dates, start.AddDate(0, 0, i).Format(DateLayout))
	}
	return dates
}

// CutoffNow returns the current datetime as a sortable "2006-01-02 15:04"
// string; persisted slots sorting at or before it are in the past.
func (c *Regional) CutoffNow() string {
	return c.Now().Format(DateTimeLayout)
}
