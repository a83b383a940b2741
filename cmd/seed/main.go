package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"fptrack/internal/database"
	"fptrack/internal/domain"
	"fptrack/internal/pkg/password"
	"fptrack/internal/repository"
)

// Seeds a handful of users for local development. Never run this against a
// production database.
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

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM refresh_tokens")
	db.Exec("DELETE FROM attendance_logs")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")
	users := []struct {
		username string
		email    string
		pass     string
		role     domain.UserRole
		dept     string
	}{
		{"admin", "admin@fptrack.local", "admin123", domain.RoleAdmin, "IT"},
		{"manager1", "manager1@fptrack.local", "manager123", domain.RoleManager, "Operations"},
		{"employee1", "employee1@fptrack.local", "employee123", domain.RoleEmployee, "Production"},
		{"employee2", "employee2@fptrack.local", "employee123", domain.RoleEmployee, "Production"},
	}

	ctx := context.Background()
	repo := repository.NewUserRepository(db)
	for _, u := range users {
		hash, err := password.Hash(u.pass)
		if err != nil {
			log.Fatalf("hash failed: %v", err)
		}
		user := &domain.User{
			Username:     u.username,
			Email:        u.email,
			PasswordHash: hash,
			Role:         u.role,
			Department:   u.dept,
		}
		if err := repo.Create(ctx, user); err != nil {
			log.Fatalf("create %s failed: %v", u.username, err)
		}
		log.Printf("User created: %s / %s (%s)", u.username, u.pass, u.role)
	}

	log.Println("Seed completed")
}
