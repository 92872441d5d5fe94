package database

import (
	"fmt"
	"log/slog"

	"officehub-backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SeedOptions struct {
	OwnerEmail    string
	OwnerPassword string
}

// SeedAll is idempotent: users are matched by email and only created when missing.
func SeedAll(db *gorm.DB, opts SeedOptions) error {
	// 1. First owner
	ownerHash, err := bcrypt.GenerateFromPassword([]byte(opts.OwnerPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash owner password: %w", err)
	}
	owner := model.User{
		Name:         "Owner",
		Email:        opts.OwnerEmail,
		Password:     string(ownerHash),
		Role:         model.RoleOwner,
		Category:     "Management",
		SessionState: model.SessionInactive,
	}
	if err := db.FirstOrCreate(&owner, model.User{Email: owner.Email}).Error; err != nil {
		return fmt.Errorf("seed owner: %w", err)
	}
	// Keep the password in sync with the configured one even when the owner already existed
	if err := db.Model(&owner).Update("password", string(ownerHash)).Error; err != nil {
		return fmt.Errorf("reset owner password: %w", err)
	}
	slog.Info("seeded owner", "email", owner.Email)

	// 2. Sample staff
	staffHash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash staff password: %w", err)
	}
	staff := []model.User{
		{Name: "Maya Manager", Email: "manager@officehub.local", Role: model.RoleManager, Category: "HR"},
		{Name: "Eko Employee", Email: "employee@officehub.local", Role: model.RoleEmployee, Category: "Developer"},
	}
	for _, u := range staff {
		u.Password = string(staffHash)
		u.SessionState = model.SessionInactive
		if err := db.FirstOrCreate(&u, model.User{Email: u.Email}).Error; err != nil {
			return fmt.Errorf("seed %s: %w", u.Email, err)
		}
	}
	slog.Info("seeded sample staff", "count", len(staff))
	return nil
}
