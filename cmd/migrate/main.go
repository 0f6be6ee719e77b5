package main

import (
	"flag"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"

	"contract-claims-api/config"
)

// Applies schema migrations from the migrations/ directory.
//
// Usage:
//
//	go run ./cmd/migrate            # migrate up
//	go run ./cmd/migrate -down      # roll back one migration
//	go run ./cmd/migrate -steps -2  # roll back two migrations
func main() {
	down := flag.Bool("down", false, "roll back one migration instead of migrating up")
	steps := flag.Int("steps", 0, "apply exactly n migrations (negative rolls back)")
	path := flag.String("path", "migrations", "directory containing migration files")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	m, err := migrate.New("file://"+*path, "mysql://"+config.DSN())
	if err != nil {
		log.Fatalf("Failed to open migrations: %v", err)
	}
	defer m.Close()

	switch {
	case *steps != 0:
		err = m.Steps(*steps)
	case *down:
		err = m.Steps(-1)
	default:
		err = m.Up()
	}

	if err == migrate.ErrNoChange {
		log.Println("Database schema already up to date")
		return
	}
	if err != nil {
		log.Printf("Migration failed: %v", err)
		os.Exit(1)
	}

	log.Println("Migrations applied successfully")
}
