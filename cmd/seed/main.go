package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/medrec/healthcare-api/config"
	"github.com/medrec/healthcare-api/pkg/helpers"
)

const seedUserStmt = `
	INSERT INTO users (username, email, password_hash)
	VALUES ($1, $2, $3)
	ON CONFLICT (email) DO UPDATE SET username=EXCLUDED.username
	RETURNING id`

const seedDoctorStmt = `INSERT INTO doctors (name, specialization) VALUES ($1, $2)`

// Seeds a demo account and a starter doctor directory for local development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	username := "demoUser"
	email := "demo@example.com"
	password := "correct-horse-battery"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(seedUserStmt, username, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s username=%s email=%s password=%s\n", id, username, email, password)

	doctors := []struct {
		name           string
		specialization string
	}{
		{"Dr. Asha Menon", "Cardiology"},
		{"Dr. Tomasz Kowalski", "Dermatology"},
		{"Dr. Lucia Ferreira", "Pediatrics"},
		{"Dr. Samuel Okafor", "Orthopedics"},
	}
	for _, d := range doctors {
		var exists bool
		if err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM doctors WHERE name = $1)`, d.name).Scan(&exists); err != nil {
			log.Fatalf("failed to check doctor %q: %v", d.name, err)
		}
		if exists {
			continue
		}
		if _, err := db.Exec(seedDoctorStmt, d.name, d.specialization); err != nil {
			log.Fatalf("failed to seed doctor %q: %v", d.name, err)
		}
	}
	fmt.Printf("seeded %d doctors (existing names skipped)\n", len(doctors))
}
