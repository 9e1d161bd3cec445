// Package storage is the persistence gateway for the canonical schedule. All
// writes go through the replace-tuple operation; reads serve the ranking
// engine and the query surface.
package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/models"
)

type Gateway struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGateway(db *gorm.DB, logger *logrus.Logger) *Gateway {
	return &Gateway{db: db, logger: logger}
}

// AutoMigrate creates or updates the schedule tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Course{}, &models.TeeTimeSlot{})
}

// ReplaceTuple atomically replaces every slot for one (course, date, source)
// tuple with the freshly scraped set: delete then insert inside a single
// transaction, so a reader either sees the old set or the new set and a
// transiently-empty table is indistinguishable from "genuinely no
// availability". Slots that vanished upstream between passes do not linger.
//
// Duplicate rows inside one pass are tolerated: the (course_id, datetime,
// source) uniqueness constraint turns repeat inserts into no-ops.
func (g *Gateway) ReplaceTuple(ctx context.Context, courseID uuid.UUID, date, source string, slots []models.TeeTimeSlot) (int64, error) {
	var written int64

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ? AND date = ? AND source = ?", courseID, date, source).
			Delete(&models.TeeTimeSlot{}).Error; err != nil {
			return fmt.Errorf("deleting stale slots: %w", err)
		}

		if len(slots) == 0 {
			return nil
		}

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&slots)
		if result.Error != nil {
			return fmt.Errorf("inserting slots: %w", result.Error)
		}
		written = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	g.logger.WithFields(logrus.Fields{
		"course_id": courseID,
		"date":      date,
		"source":    source,
		"written":   written,
	}).Debug("Replaced slot tuple")
	return written, nil
}

// Courses loads the full course catalog.
func (g *Gateway) Courses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := g.db.WithContext(ctx).Order("slug ASC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("loading course catalog: %w", err)
	}
	return courses, nil
}

// CandidateSlots returns every upcoming slot on the requested dates, with
// course context preloaded, ordered by datetime then course so tied total
// scores later surface earliest-time-first. Slots whose datetime has passed
// relative to cutoff (the regional "now") are excluded.
func (g *Gateway) CandidateSlots(ctx context.Context, dates []string, cutoff string) ([]models.TeeTimeSlot, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	var slots []models.TeeTimeSlot
	err := g.db.WithContext(ctx).
		Preload("Course").
		Where("date IN ?", dates).
		Where("datetime > ?", cutoff).
		Order("datetime ASC, course_id ASC").
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("loading candidate slots: %w", err)
	}
	return slots, nil
}

// PurgeBefore deletes slots whose calendar date sorts before the given date.
// Run daily so the table holds only the lookahead window plus yesterday.
func (g *Gateway) PurgeBefore(ctx context.Context, date string) (int64, error) {
	result := g.db.WithContext(ctx).Where("date < ?", date).Delete(&models.TeeTimeSlot{})
	if result.Error != nil {
		return 0, fmt.Errorf("purging old slots: %w", result.Error)
	}
	return result.RowsAffected, nil
}
