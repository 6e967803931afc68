package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("🔌 Connecting to Postgres...")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection established")
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Create users table
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('vendor', 'factory', 'entrepreneur', 'admin')),
			language TEXT NOT NULL DEFAULT 'en',
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create waste_collections table
		`CREATE TABLE IF NOT EXISTS waste_collections (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			waste_type TEXT NOT NULL,
			quantity DOUBLE PRECISION NOT NULL,
			price_per_kg DOUBLE PRECISION NOT NULL,
			collection_zone TEXT NOT NULL,
			available_for_sale BOOLEAN NOT NULL DEFAULT FALSE,
			voice_description TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Create transactions table
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			seller_id TEXT NOT NULL,
			buyer_id TEXT NOT NULL,
			waste_type TEXT NOT NULL,
			quantity DOUBLE PRECISION NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('completed', 'processing', 'cancelled')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (seller_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (buyer_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Create complaints table
		`CREATE TABLE IF NOT EXISTS complaints (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			description TEXT NOT NULL,
			location TEXT NOT NULL,
			image_url TEXT,
			status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'in_progress', 'resolved')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Create collection_zones table
		`CREATE TABLE IF NOT EXISTS collection_zones (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			coordinates TEXT NOT NULL,
			zone_type TEXT NOT NULL CHECK(zone_type IN ('collection', 'processing', 'high_waste')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create FCM tokens table (complaint status push notifications)
		`CREATE TABLE IF NOT EXISTS fcm_tokens (
			id SERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			device_type TEXT NOT NULL CHECK(device_type IN ('ios', 'android', 'web')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Create indexes
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
		`CREATE INDEX IF NOT EXISTS idx_waste_collections_user_id ON waste_collections(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_waste_collections_zone ON waste_collections(collection_zone)`,
		`CREATE INDEX IF NOT EXISTS idx_waste_collections_created_at ON waste_collections(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_waste_collections_for_sale ON waste_collections(available_for_sale)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_seller_id ON transactions(seller_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_buyer_id ON transactions(buyer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions(status)`,
		`CREATE INDEX IF NOT EXISTS idx_complaints_user_id ON complaints(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_complaints_status ON complaints(status)`,
		`CREATE INDEX IF NOT EXISTS idx_fcm_tokens_user_id ON fcm_tokens(user_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Println("✓ Database migrations completed")
	return nil
}
