// Seeds the default review-chain accounts and a demo lecturer.
// cmd/seed-users/main.go
package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"contract-claims-api/config"
	"contract-claims-api/models"
	"contract-claims-api/utils"
)

type seedUser struct {
	FirstName  string
	LastName   string
	Email      string
	RoleID     int
	HourlyRate decimal.Decimal
}

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	config.InitDB()

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "changeme123"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash seed password:", err)
	}

	users := []seedUser{
		{"John", "Smith", "lecturer@university.ac.za", models.RoleLecturer, decimal.NewFromInt(350)},
		{"Sarah", "Jones", "coordinator@university.ac.za", models.RoleCoordinator, decimal.Zero},
		{"Michael", "Brown", "manager@university.ac.za", models.RoleManager, decimal.Zero},
		{"Linda", "Williams", "hr@university.ac.za", models.RoleHR, decimal.Zero},
	}

	for _, seed := range users {
		if !utils.ValidateEmail(seed.Email) {
			log.Printf("Skipping %s: invalid email\n", seed.Email)
			continue
		}

		// Skip accounts that already exist
		var existing models.User
		if err := config.DB.Where("email = ?", seed.Email).First(&existing).Error; err == nil {
			log.Printf("User %s already exists, skipping\n", seed.Email)
			continue
		}

		now := time.Now()
		user := models.User{
			FirstName:  seed.FirstName,
			LastName:   seed.LastName,
			Email:      seed.Email,
			Password:   string(hashed),
			RoleID:     seed.RoleID,
			HourlyRate: seed.HourlyRate,
			CreateAt:   &now,
		}
		if err := config.DB.Create(&user).Error; err != nil {
			log.Printf("Failed to create user %s: %v\n", seed.Email, err)
			continue
		}

		log.Printf("Created user %s (role %d)\n", seed.Email, seed.RoleID)
	}

	log.Println("User seeding completed!")
}
