package main

import (
	"fmt"
	"log"
	"os"

	"ecocycle-backend/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Get database URL
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	// Connect to database
	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migration completed successfully!")

	if err := database.SeedUsers(db); err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	if err := database.SeedCollectionZones(db); err != nil {
		log.Fatalf("Collection zone seeding failed: %v", err)
	}

	// Query and display summary
	var result struct {
		Users       int `db:"users"`
		Zones       int `db:"zones"`
		Collections int `db:"collections"`
		Complaints  int `db:"complaints"`
	}

	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM collection_zones) AS zones,
			(SELECT COUNT(*) FROM waste_collections) AS collections,
			(SELECT COUNT(*) FROM complaints) AS complaints
	`

	if err := db.Get(&result, query); err != nil {
		log.Fatalf("Failed to query summary: %v", err)
	}

	fmt.Println("\n============================================================")
	fmt.Println("MIGRATION SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Users:             %d\n", result.Users)
	fmt.Printf("Collection zones:  %d\n", result.Zones)
	fmt.Printf("Waste collections: %d\n", result.Collections)
	fmt.Printf("Complaints:        %d\n", result.Complaints)
	fmt.Println("============================================================")
}
