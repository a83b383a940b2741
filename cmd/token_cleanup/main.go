package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"fptrack/internal/database"
	"fptrack/internal/repository"
)

// One-shot cleanup of expired refresh tokens, for running from cron where the
// in-process sweeper is not enough (e.g. several short-lived api instances).
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	tokens := repository.NewRefreshTokenRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := tokens.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		log.Fatalf("token cleanup failed: %v", err)
	}
	log.Printf("token cleanup completed: deleted=%d", n)
}
