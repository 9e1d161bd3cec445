package storage

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/models"
)

func setupTestGateway(t *testing.T) (*Gateway, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Migrator().DropTable(&models.TeeTimeSlot{}, &models.Course{}))
	require.NoError(t, AutoMigrate(db))

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewGateway(db, log), db
}

func seedCourse(t *testing.T, db *gorm.DB, slug string) *models.Course {
	t.Helper()
	course := &models.Course{Name: slug, Slug: slug, Region: "East Bay"}
	require.NoError(t, db.Create(course).Error)
	return course
}

func slotAt(courseID uuid.UUID, date, clock, source string, price float64) models.TeeTimeSlot {
	return models.TeeTimeSlot{
		CourseID:  courseID,
		Date:      date,
		Time:      clock,
		Datetime:  date + " " + clock,
		Holes:     18,
		Players:   4,
		Price:     &price,
		Source:    source,
		ScrapedAt: time.Now().UTC(),
	}
}

func TestReplaceTupleIsIdempotent(t *testing.T) {
	gw, db := setupTestGateway(t)
	course := seedCourse(t, db, "tilden-park")
	ctx := context.Background()

	slots := []models.TeeTimeSlot{
		slotAt(course.ID, "2026-09-04", "07:30", "foreup", 65),
		slotAt(course.ID, "2026-09-04", "07:40", "foreup", 65),
	}

	written, err := gw.ReplaceTuple(ctx, course.ID, "2026-09-04", "foreup", slots)
	require.NoError(t, err)
	assert.EqualValues(t, 2, written)

	// Re-running the identical pass leaves exactly the same row count.
	again := []models.TeeTimeSlot{
		slotAt(course.ID, "2026-09-04", "07:30", "foreup", 65),
		slotAt(course.ID, "2026-09-04", "07:40", "foreup", 65),
	}
	_, err = gw.ReplaceTuple(ctx, course.ID, "2026-09-04", "foreup", again)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.TeeTimeSlot{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestReplaceTupleRemovesStaleSlots(t *testing.T) {
	gw, db := setupTestGateway(t)
	course := seedCourse(t, db, "monarch-bay")
	ctx := context.Background()

	first := []models.TeeTimeSlot{
		slotAt(course.ID, "2026-09-04", "07:30", "foreup", 65),
		slotAt(course.ID, "2026-09-04", "07:40", "foreup", 65),
	}
	_, err := gw.ReplaceTuple(ctx, course.ID, "2026-09-04", "foreup", first)
	require.NoError(t, err)

	// 07:40 was booked upstream; the next pass only sees 07:30 and a new 08:00.
	second := []models.TeeTimeSlot{
		slotAt(course.ID, "2026-09-04", "07:30", "foreup", 65),
		slotAt(course.ID, "2026-09-04", "08:00", "foreup", 70),
	}
	_, err = gw.ReplaceTuple(ctx, course.ID, "2026-09-04", "foreup", second)
	require.NoError(t, err)

	var times []string
	require.NoError(t, db.Model(&models.TeeTimeSlot{}).Order("datetime ASC").Pluck("time", &times).Error)
	assert.Equal(t, []string{"07:30", "08:00"}, times)
}

func TestReplaceTupleScopedToTuple(t *testing.T) {
	gw, db := setupTestGateway(t)
	course := seedCourse(t, db, "sharp-park")
	other := seedCourse(t, db, "lincoln-park")
	ctx := context.Background()

	_, err := gw.ReplaceTuple(ctx, course.ID, "2026-09-04", "foreup",
		[]models.TeeTimeSlot{slotAt(course.ID, "2026-09-04", "07:30", "foreup", 65)})
	require.NoError(t, err)
	_, err = gw.ReplaceTuple(ctx, course.ID, "2026-09-04", "golfnow",
		[]models.TeeTimeSlot{slotAt(course.ID, "2026-09-04", "07:30", "golfnow", 62)})
	require.NoError(t, err)
	_, err = gw.ReplaceTuple(ctx, other.ID, "2026-09-04", "foreup",
		[]models.TeeTimeSlot{slotAt(other.ID, "2026-09-04", "09:00", "foreup", 40)})
	require.NoError(t, err)

	// Emptying one tuple must not touch the other source or course.
	_, err = gw.ReplaceTuple(ctx, course.ID, "2026-09-04", "foreup", nil)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.TeeTimeSlot{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestReplaceTupleToleratesDuplicateRows(t *testing.T) {
	gw, db := setupTestGateway(t)
	course := seedCourse(t, db, "corica-park-south")
	ctx := context.Background()

	// Same identity twice in one pass: the unique index turns the second
	// insert into a no-op instead of failing the transaction.
	dup := []models.TeeTimeSlot{
		slotAt(course.ID, "2026-09-04", "07:30", "teeitup", 65),
		slotAt(course.ID, "2026-09-04", "07:30", "teeitup", 65),
	}
	_, err := gw.ReplaceTuple(ctx, course.ID, "2026-09-04", "teeitup", dup)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.TeeTimeSlot{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCandidateSlots(t *testing.T) {
	gw, db := setupTestGateway(t)
	course := seedCourse(t, db, "harding-park")
	ctx := context.Background()

	slots := []models.TeeTimeSlot{
		slotAt(course.ID, "2026-09-04", "07:00", "foreup", 65),
		slotAt(course.ID, "2026-09-04", "16:00", "foreup", 45),
		slotAt(course.ID, "2026-09-05", "08:00", "foreup", 70),
	}
	_, err := gw.ReplaceTuple(ctx, course.ID, "2026-09-04", "foreup", slots[:2])
	require.NoError(t, err)
	_, err = gw.ReplaceTuple(ctx, course.ID, "2026-09-05", "foreup", slots[2:])
	require.NoError(t, err)

	// Cutoff at midday on the 4th drops that morning's slot.
	got, err := gw.CandidateSlots(ctx, []string{"2026-09-04", "2026-09-05"}, "2026-09-04 12:00")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2026-09-04 16:00", got[0].Datetime)
	assert.Equal(t, "2026-09-05 08:00", got[1].Datetime)
	require.NotNil(t, got[0].Course)
	assert.Equal(t, "harding-park", got[0].Course.Slug)

	// No dates means no candidates.
	got, err = gw.CandidateSlots(ctx, nil, "2026-09-04 12:00")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPurgeBefore(t *testing.T) {
	gw, db := setupTestGateway(t)
	course := seedCourse(t, db, "foxtail-north")
	ctx := context.Background()

	_, err := gw.ReplaceTuple(ctx, course.ID, "2026-09-01", "chronogolf",
		[]models.TeeTimeSlot{slotAt(course.ID, "2026-09-01", "07:30", "chronogolf", 55)})
	require.NoError(t, err)
	_, err = gw.ReplaceTuple(ctx, course.ID, "2026-09-04", "chronogolf",
		[]models.TeeTimeSlot{slotAt(course.ID, "2026-09-04", "07:30", "chronogolf", 55)})
	require.NoError(t, err)

	purged, err := gw.PurgeBefore(ctx, "2026-09-03")
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	var count int64
	require.NoError(t, db.Model(&models.TeeTimeSlot{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
