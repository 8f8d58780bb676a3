package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Build connection string
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	// Connect to database
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Identity index for find-or-create property lookups
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_property_identity ON properties (address, suburb, state)`); err != nil {
		log.Printf("Warning: could not create property identity index: %v", err)
	}

	// Duplicate payment deliveries rely on this being unique
	if _, err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_payment_events_event_id ON payment_events (event_id)`); err != nil {
		log.Printf("Warning: could not create payment event index: %v", err)
	}

	log.Println("Migration helpers applied successfully")
}
