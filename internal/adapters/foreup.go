package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/extract"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/models"
)

// ForeUpAdapter scrapes facilities booked through ForeUp, which exposes a
// typed JSON times endpoint. No DOM heuristics are involved: the payload maps
// straight onto raw entries.
type ForeUpAdapter struct {
	fetcher *Fetcher
	logger  *logrus.Logger
	baseURL string
}

func NewForeUpAdapter(fetcher *Fetcher, logger *logrus.Logger) *ForeUpAdapter {
	return &ForeUpAdapter{
		fetcher: fetcher,
		logger:  logger,
		baseURL: "https://foreupsoftware.com/index.php",
	}
}

func (a *ForeUpAdapter) Source() string { return SourceForeUp }

// ForeUp times payload. Times arrive as "2006-01-02 15:04" in the facility's
// local timezone; fees are dollars.
type foreUpTime struct {
	Time           string  `json:"time"`
	Holes          int     `json:"holes"`
	GreenFee       float64 `json:"green_fee"`
	CartFee        float64 `json:"cart_fee"`
	AvailableSpots int     `json:"available_spots"`
	ScheduleID     int     `json:"schedule_id"`
	RateType       string  `json:"rate_type"`
}

func (a *ForeUpAdapter) FetchDay(ctx context.Context, course *models.Course, date string) ([]extract.RawAvailabilityEntry, error) {
	facilityID, ok := course.FacilityID(SourceForeUp)
	if !ok {
		return nil, fmt.Errorf("course %s has no foreup facility id", course.Slug)
	}

	// The API takes MM-DD-YYYY.
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("bad date %q: %w", date, err)
	}
	url := fmt.Sprintf("%s/api/booking/times?schedule_id=%s&date=%s&time=all&holes=all",
		a.baseURL, facilityID, d.Format("01-02-2006"))

	body, err := a.fetcher.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("foreup times for %s: %w", course.Slug, err)
	}

	var times []foreUpTime
	if err := json.Unmarshal(body, &times); err != nil {
		return nil, fmt.Errorf("decoding foreup times for %s: %w", course.Slug, err)
	}

	bookingURL := fmt.Sprintf("%s/booking/%s#/teetimes", a.baseURL, facilityID)
	entries := make([]extract.RawAvailabilityEntry, 0, len(times))
	for _, t := range times {
		timeText := t.Time
		if parts := strings.SplitN(t.Time, " ", 2); len(parts) == 2 {
			timeText = parts[1]
		}
		entries = append(entries, extract.RawAvailabilityEntry{
			Source:      SourceForeUp,
			FacilityID:  facilityID,
			TimeText:    timeText,
			PriceTexts:  []string{fmt.Sprintf("$%.2f", t.GreenFee)},
			HolesText:   strconv.Itoa(t.Holes),
			PlayersText: strconv.Itoa(t.AvailableSpots),
			HasCart:     t.CartFee > 0,
			BookingURL:  bookingURL,
		})
	}

	a.logger.WithFields(logrus.Fields{
		"course": course.Slug,
		"date":   date,
		"count":  len(entries),
	}).Debug("ForeUp fetch complete")
	return entries, nil
}
