package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"studiorent/internal/database"
	"studiorent/internal/repository"
)

// Scheduled sweep: flips NEW bookings with a lapsed hold to expired. The
// availability check already ignores lapsed holds, so this only keeps the
// stored status honest for reporting and clients.
func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	bookings := repository.NewBookingRepository(db)

	n, err := bookings.ExpireLapsed(context.Background(), time.Now())
	if err != nil {
		log.Fatalf("expire sweep failed: %v", err)
	}

	log.Printf("booking expire sweep completed: expired=%d", n)
}
