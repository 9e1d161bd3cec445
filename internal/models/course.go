package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course is the canonical, reconciled record for one golf facility. The
// catalog is maintained outside this service; the pipeline only reads it.
type Course struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string            `gorm:"not null" json:"name"`
	Slug        string            `gorm:"uniqueIndex;not null" json:"slug"`
	City        string            `gorm:"index" json:"city"`
	Region      string            `gorm:"index" json:"region"`
	Latitude    float64           `json:"latitude"`
	Longitude   float64           `json:"longitude"`
	Rating      *float64          `json:"rating"`
	Amenities   pq.StringArray    `gorm:"type:text[]" json:"amenities"`
	FacilityIDs datatypes.JSONMap `gorm:"type:jsonb" json:"facility_ids"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Course) TableName() string {
	return "courses"
}

// BeforeCreate assigns the primary key client-side so the model also works
// on databases without gen_random_uuid.
func (c *Course) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// FacilityID returns the course's identifier on the given booking platform.
func (c *Course) FacilityID(source string) (string, bool) {
	v, ok := c.FacilityIDs[source]
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// HasSource reports whether the course is bookable through the given platform.
func (c *Course) HasSource(source string) bool {
	_, ok := c.FacilityID(source)
	return ok
}
