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

// SecretaryInput carries the fields of a new secretary.
type SecretaryInput struct {
	UserID       string
	FullName     string
	Registration string
	Email        string
}

// SecretaryService manages secretary records.
type SecretaryService struct {
	store repository.Store
	log   *logrus.Entry
}

// NewSecretaryService creates a SecretaryService.
func NewSecretaryService(store repository.Store, log *logger.Logger) *SecretaryService {
	return &SecretaryService{store: store, log: log.WithComponent("secretaries")}
}

// Create registers a secretary backed by a SECRETARIA or ADMIN user. A user
// backs at most one secretary.
func (s *SecretaryService) Create(ctx context.Context, in SecretaryInput) (*models.Secretary, error) {
	secretary := &models.Secretary{
		UserID:       in.UserID,
		FullName:     in.FullName,
		Registration: in.Registration,
		Email:        in.Email,
	}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := requireUserWithRole(ctx, tx, in.UserID, models.RoleSecretaria, models.RoleAdmin); err != nil {
			return err
		}

		_, err := tx.Secretaries().FindByUserID(ctx, in.UserID)
		switch {
		case err == nil:
			return apperrors.ErrDuplicateSecretaryForUser
		case !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("checking secretary user: %w", err)
		}

		if err := tx.Secretaries().Create(ctx, secretary); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return apperrors.ErrDuplicateSecretaryForUser
			}
			return fmt.Errorf("creating secretary: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"secretary_id": secretary.ID, "user_id": secretary.UserID}).Info("Secretary created")
	return secretary, nil
}

// GetByID returns a secretary.
func (s *SecretaryService) GetByID(ctx context.Context, id string) (*models.Secretary, error) {
	secretary, err := s.store.Secretaries().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrSecretaryNotFound
		}
		return nil, fmt.Errorf("loading secretary: %w", err)
	}
	return secretary, nil
}

// List returns the secretaries matching filter, ordered by full name.
func (s *SecretaryService) List(ctx context.Context, filter repository.SecretaryFilter) ([]models.Secretary, error) {
	secretaries, err := s.store.Secretaries().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing secretaries: %w", err)
	}
	return secretaries, nil
}
