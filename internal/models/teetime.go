package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeeTimeSlot is one bookable tee time as last observed on a booking
// platform. Slots are replaced wholesale per (course, date, source) on every
// scrape pass and are never mutated by user actions.
//
// Date, Time and Datetime are stored as sortable strings in the service
// timezone: "2006-01-02", "15:04" and "2006-01-02 15:04".
type TeeTimeSlot struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CourseID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_slot_identity,priority:1" json:"course_id"`
	Course        *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Date          string    `gorm:"type:varchar(10);not null" json:"date"`
	Time          string    `gorm:"type:varchar(5);not null" json:"time"`
	Datetime      string    `gorm:"type:varchar(16);not null;index;uniqueIndex:idx_slot_identity,priority:2" json:"datetime"`
	Holes         int       `gorm:"default:18" json:"holes"`
	Players       int       `gorm:"default:4" json:"players"`
	Price         *float64  `json:"price"`
	OriginalPrice *float64  `json:"original_price"`
	HasCart       bool      `gorm:"default:false" json:"has_cart"`
	BookingURL    string    `json:"booking_url"`
	Source        string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_slot_identity,priority:3" json:"source"`
	ScrapedAt     time.Time `gorm:"not null" json:"scraped_at"`
}

// TableName specifies the table name for GORM
func (TeeTimeSlot) TableName() string {
	return "tee_time_slots"
}

// BeforeCreate assigns the primary key client-side so the model also works
// on databases without gen_random_uuid.
func (s *TeeTimeSlot) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// DiscountPercent returns the advertised discount as a 0-100 percentage, or 0
// when the slot is not discounted.
func (s *TeeTimeSlot) DiscountPercent() float64 {
	if s.Price == nil || s.OriginalPrice == nil {
		return 0
	}
	if *s.OriginalPrice <= *s.Price || *s.OriginalPrice == 0 {
		return 0
	}
	return (*s.OriginalPrice - *s.Price) / *s.OriginalPrice * 100
}
