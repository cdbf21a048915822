// Package services holds the clinic's business rules. Services speak in
// models and apperrors; persistence goes through repository.Store.
package services

import (
	"context"
	"errors"
	"fmt"

	"clinic-scheduling-server/internal/apperrors"
	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/repository"

	"github.com/sirupsen/logrus"
)

// RegisterInput carries a signup request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Profile  models.Role
}

// AuthService is the credential store.
type AuthService struct {
	store repository.Store
	log   *logrus.Entry
}

// NewAuthService creates an AuthService.
func NewAuthService(store repository.Store, log *logger.Logger) *AuthService {
	return &AuthService{store: store, log: log.WithComponent("auth")}
}

// Register creates a user with a hashed password.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	user := &models.User{
		Name:    in.Name,
		Email:   in.Email,
		Profile: in.Profile,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		_, err := tx.Users().FindByEmail(ctx, in.Email)
		switch {
		case err == nil:
			return apperrors.ErrEmailAlreadyExists
		case !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("looking up email: %w", err)
		}

		if err := tx.Users().Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return apperrors.ErrEmailAlreadyExists
			}
			return fmt.Errorf("creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "profile": user.Profile}).Info("User registered")
	return user, nil
}

// Authenticate returns the user owning email when password matches. Unknown
// emails and wrong passwords fail the same way.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up email: %w", err)
	}

	if !user.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}

// GetProfile returns the user behind an authenticated request.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return user, nil
}
