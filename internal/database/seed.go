package database

import (
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

func SeedUsers(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding demo users...")

	users := []struct {
		Username string
		Password string
		Name     string
		Role     string
		Language string
	}{
		{"vendor1", "vendor123", "Demo Vendor", "vendor", "en"},
		{"factory1", "factory123", "Demo Factory", "factory", "en"},
		{"green_ideas", "entrepreneur123", "Demo Entrepreneur", "entrepreneur", "en"},
		{"admin", "admin123", "Platform Admin", "admin", "en"},
	}

	for _, u := range users {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		_, err = db.Exec(`
			INSERT INTO users (id, username, password, name, role, language)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.New().String(), u.Username, string(hashed), u.Name, u.Role, u.Language)
		if err != nil {
			return err
		}
	}

	log.Printf("✓ Seeded %d demo users", len(users))
	return nil
}

func SeedCollectionZones(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM collection_zones"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Collection zones already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding collection zones...")

	zones := []struct {
		Name        string
		Coordinates string
		ZoneType    string
	}{
		{"zone_1", "[24.8607,67.0011]", "collection"},
		{"zone_2", "[24.8934,67.0281]", "collection"},
		{"zone_3", "[24.9056,67.0822]", "high_waste"},
		{"zone_4", "[24.8415,67.0391]", "collection"},
		{"zone_5", "[24.8700,67.1100]", "processing"},
	}

	for _, z := range zones {
		_, err := db.Exec(`
			INSERT INTO collection_zones (id, name, coordinates, zone_type)
			VALUES ($1, $2, $3, $4)
		`, uuid.New().String(), z.Name, z.Coordinates, z.ZoneType)
		if err != nil {
			return err
		}
	}

	log.Printf("✓ Seeded %d collection zones", len(zones))
	return nil
}
