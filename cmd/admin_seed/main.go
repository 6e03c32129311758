// Command admin_seed creates a verified admin account from environment
// variables. It is intended for first-time provisioning of a deployment.
package main

import (
	"errors"
	"log"
	"time"

	"github.com/skippergoroye/Accman-Server/internal/config"
	"github.com/skippergoroye/Accman-Server/internal/models"
	"github.com/skippergoroye/Accman-Server/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	email := config.GetEnv("ADMIN_EMAIL", "")
	password := config.GetEnv("ADMIN_PASSWORD", "")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	db, err := repositories.Connect(repositories.DBConfig{
		MaxIdleConns:    2,
		MaxOpenConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := repositories.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	admins := repositories.NewAdminRepository(db)

	if _, err := admins.GetByEmail(email); err == nil {
		log.Printf("Admin %s already exists, nothing to do", email)
		return
	} else if !errors.Is(err, repositories.ErrAdminNotFound) {
		log.Fatalf("Failed to look up admin: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &models.Admin{
		FirstName:  config.GetEnv("ADMIN_FIRST_NAME", "Super"),
		LastName:   config.GetEnv("ADMIN_LAST_NAME", "Admin"),
		Email:      email,
		Password:   string(hash),
		IsVerified: true,
	}
	if err := admins.Create(admin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Seeded admin %s (id=%d)", admin.Email, admin.ID)
}
