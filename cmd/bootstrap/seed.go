package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"hospital-management/internal/domain/entity"
	"hospital-management/internal/infrastructure/database"
	"hospital-management/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrAdminExists is returned when the seed email is already registered
var ErrAdminExists = errors.New("a user with this email already exists")

// SeedAdmin creates the first admin account so the rest of the staff can be created through the API.
func SeedAdmin(ctx context.Context, seed *AdminSeed) error {
	appCfg, err := Configure()
	if err != nil {
		return err
	}

	db, err := database.NewPostgresConnection(appCfg.DB, appCfg.App.IsProduction())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	userRepo := repository.NewUserRepository(db)

	existing, err := userRepo.FindByEmail(ctx, seed.Email)
	if err != nil {
		return fmt.Errorf("find user by email: %w", err)
	}
	if existing != nil {
		return ErrAdminExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	active := true
	admin := &entity.User{
		Email:    seed.Email,
		Password: string(hashedPassword),
		FullName: seed.FullName,
		RoleID:   entity.RoleIDAdmin,
		IsActive: &active,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	logrus.WithFields(logrus.Fields{"user_id": admin.ID, "email": admin.Email}).Info("Admin account created")
	return nil
}

// AdminSeed carries the seed-admin flags
type AdminSeed struct {
	Email    string
	Password string
	FullName string
}

// Validate checks the flags before touching the database.
func (s *AdminSeed) Validate() error {
	if s.Email == "" {
		return errors.New("--email is required")
	}
	if len(s.Password) < 8 {
		return errors.New("--password must be at least 8 characters")
	}
	if s.FullName == "" {
		s.FullName = "Administrator"
	}
	return nil
}
