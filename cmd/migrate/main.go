package main

import (
	"fmt"
	"log"
	"os"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/models"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/config"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedCourses(db); err != nil {
			logrus.Fatalf("Failed to seed course catalog: %v", err)
		}
		logrus.Info("Course catalog seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", os.Args[1])
	}
}

func runMigrations(db *database.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Course{},
		&models.TeeTimeSlot{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_slots_date ON tee_time_slots(date)",
		"CREATE INDEX IF NOT EXISTS idx_slots_course_date ON tee_time_slots(course_id, date)",
		"CREATE INDEX IF NOT EXISTS idx_courses_region ON courses(region)",
	}
	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

func dropTables(db *database.DB) error {
	tables := []string{
		"tee_time_slots",
		"courses",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}

func ratingOf(r float64) *float64 { return &r }

// seedCourses loads the Bay Area municipal and daily-fee catalog. Facility
// ids are the booking platforms' own identifiers and drive adapter routing.
func seedCourses(db *database.DB) error {
	courses := []models.Course{
		{
			Name: "Harding Park", Slug: "harding-park", City: "San Francisco", Region: "San Francisco",
			Latitude: 37.7252, Longitude: -122.4927, Rating: ratingOf(4.6),
			Amenities:   pq.StringArray{"driving_range", "pro_shop", "restaurant", "cart_rental"},
			FacilityIDs: datatypes.JSONMap{"foreup": "19348", "golfnow": "gn-2231"},
		},
		{
			Name: "Lincoln Park", Slug: "lincoln-park", City: "San Francisco", Region: "San Francisco",
			Latitude: 37.7821, Longitude: -122.4946, Rating: ratingOf(3.9),
			Amenities:   pq.StringArray{"pro_shop", "cart_rental"},
			FacilityIDs: datatypes.JSONMap{"foreup": "19351", "golfnow": "gn-2234"},
		},
		{
			Name: "Sharp Park", Slug: "sharp-park", City: "Pacifica", Region: "Peninsula",
			Latitude: 37.6233, Longitude: -122.4926, Rating: ratingOf(4.1),
			Amenities:   pq.StringArray{"pro_shop", "restaurant", "cart_rental"},
			FacilityIDs: datatypes.JSONMap{"foreup": "19355"},
		},
		{
			Name: "Corica Park South", Slug: "corica-park-south", City: "Alameda", Region: "East Bay",
			Latitude: 37.7351, Longitude: -122.2227, Rating: ratingOf(4.4),
			Amenities:   pq.StringArray{"driving_range", "pro_shop", "restaurant", "cart_rental", "lessons"},
			FacilityIDs: datatypes.JSONMap{"teeitup": "corica-park", "golfnow": "gn-2250"},
		},
		{
			Name: "Metropolitan Golf Links", Slug: "metropolitan-golf-links", City: "Oakland", Region: "East Bay",
			Latitude: 37.7213, Longitude: -122.2089, Rating: ratingOf(4.2),
			Amenities:   pq.StringArray{"driving_range", "pro_shop", "restaurant"},
			FacilityIDs: datatypes.JSONMap{"teeitup": "metropolitan-golf-links"},
		},
		{
			Name: "Tilden Park", Slug: "tilden-park", City: "Berkeley", Region: "East Bay",
			Latitude: 37.9049, Longitude: -122.2441, Rating: ratingOf(4.0),
			Amenities:   pq.StringArray{"driving_range", "pro_shop", "cart_rental"},
			FacilityIDs: datatypes.JSONMap{"chronogolf": "tilden-park-golf-course", "golfnow": "gn-2263"},
		},
		{
			Name: "Monarch Bay", Slug: "monarch-bay", City: "San Leandro", Region: "East Bay",
			Latitude: 37.6958, Longitude: -122.1861, Rating: ratingOf(3.8),
			Amenities:   pq.StringArray{"driving_range", "pro_shop", "restaurant", "cart_rental"},
			FacilityIDs: datatypes.JSONMap{"chronogolf": "monarch-bay-golf-club"},
		},
		{
			Name: "Santa Clara Golf & Tennis", Slug: "santa-clara", City: "Santa Clara", Region: "South Bay",
			Latitude: 37.4083, Longitude: -121.9520, Rating: ratingOf(3.7),
			Amenities:   pq.StringArray{"driving_range", "pro_shop", "cart_rental"},
			FacilityIDs: datatypes.JSONMap{"foreup": "20112", "golfnow": "gn-2301"},
		},
		{
			Name: "Cinnabar Hills", Slug: "cinnabar-hills", City: "San Jose", Region: "South Bay",
			Latitude: 37.1749, Longitude: -121.8457, Rating: ratingOf(4.5),
			Amenities:   pq.StringArray{"driving_range", "pro_shop", "restaurant", "cart_rental", "lessons"},
			FacilityIDs: datatypes.JSONMap{"teeitup": "cinnabar-hills", "golfnow": "gn-2310"},
		},
		{
			Name: "Foxtail North", Slug: "foxtail-north", City: "Rohnert Park", Region: "North Bay",
			Latitude: 38.3497, Longitude: -122.7122, Rating: ratingOf(4.0),
			Amenities:   pq.StringArray{"driving_range", "pro_shop", "restaurant"},
			FacilityIDs: datatypes.JSONMap{"chronogolf": "foxtail-golf-club-north", "golfnow": "gn-2340"},
		},
	}

	for i := range courses {
		if err := db.Where("slug = ?", courses[i].Slug).
			FirstOrCreate(&courses[i]).Error; err != nil {
			return fmt.Errorf("failed to seed course %s: %w", courses[i].Slug, err)
		}
	}

	logrus.Infof("Seeded %d courses", len(courses))
	return nil
}
