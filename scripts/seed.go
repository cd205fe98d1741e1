//go:build ignore

package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/novacreations/nova-hr/internal/auth"
	"github.com/novacreations/nova-hr/internal/database"
	"github.com/novacreations/nova-hr/internal/database/models"
	"github.com/novacreations/nova-hr/pkg/config"
	"github.com/novacreations/nova-hr/pkg/util"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")

	if email == "" {
		email = "admin@novacreations.com"
	}
	if password == "" {
		password = "admin123!"
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	admin := models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}

	var existing models.User
	if err := db.First(&existing, "email = ?", email).Error; err == nil {
		fmt.Printf("Admin user already exists: %s\n", email)
	} else {
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("failed to create admin user: %v", err)
		}
		fmt.Printf("Admin user created successfully!\n")
		fmt.Printf("Email: %s\n", admin.Email)
		fmt.Printf("Password: %s\n", password)
	}

	seedEmployees(db)
}

// seedEmployees creates a couple of sample accounts so a fresh install has
// something to look at: one fully onboarded employee and one mid-onboarding.
func seedEmployees(db *gorm.DB) {
	hash, err := auth.HashPassword("employee123!")
	if err != nil {
		log.Fatalf("failed to hash employee password: %v", err)
	}

	hourly := models.EmploymentHourly
	wage := decimal.NewFromFloat(18.50)
	startDate := time.Now().AddDate(0, -6, 0)
	completedAt := time.Now().AddDate(0, -5, 0)

	samples := []struct {
		email   string
		profile models.EmployeeProfile
		balance *models.PTOBalance
	}{
		{
			email: "maya@novacreations.com",
			profile: models.EmployeeProfile{
				FullName:              "Maya Torres",
				Phone:                 "555-0134",
				Address:               "42 Birchwood Lane, Portland, OR",
				RoleTitle:             "Barista",
				StartDate:             &startDate,
				EmploymentType:        &hourly,
				Wage:                  &wage,
				OnboardingStatus:      models.OnboardingCompleted,
				OnboardingCompletedAt: &completedAt,
			},
			balance: &models.PTOBalance{
				VacationDays: decimal.NewFromInt(10),
				SickDays:     decimal.NewFromInt(5),
				PersonalDays: decimal.NewFromInt(3),
			},
		},
		{
			email: "devon@novacreations.com",
			profile: models.EmployeeProfile{
				FullName:         "Devon Reed",
				RoleTitle:        "Shift Lead",
				OnboardingStatus: models.OnboardingInProgress,
			},
		},
	}

	for _, s := range samples {
		var existing models.User
		if err := db.First(&existing, "email = ?", s.email).Error; err == nil {
			fmt.Printf("Employee already exists: %s\n", s.email)
			continue
		}

		user := models.User{
			Email:        s.email,
			PasswordHash: hash,
			Role:         models.RoleEmployee,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("failed to create employee %s: %v", s.email, err)
		}

		profile := s.profile
		profile.UserID = user.ID
		if err := db.Create(&profile).Error; err != nil {
			log.Fatalf("failed to create profile for %s: %v", s.email, err)
		}

		if s.balance != nil {
			balance := *s.balance
			balance.EmployeeID = profile.ID
			if err := db.Create(&balance).Error; err != nil {
				log.Fatalf("failed to create PTO balance for %s: %v", s.email, err)
			}
		}

		fmt.Printf("Employee created: %s (password: employee123!)\n", s.email)
	}
}
