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

// DoctorInput carries the fields of a new doctor.
type DoctorInput struct {
	UserID    string
	Name      string
	CRM       string
	Specialty string
}

// DoctorService manages doctor records.
type DoctorService struct {
	store repository.Store
	log   *logrus.Entry
}

// NewDoctorService creates a DoctorService.
func NewDoctorService(store repository.Store, log *logger.Logger) *DoctorService {
	return &DoctorService{store: store, log: log.WithComponent("doctors")}
}

// Create registers a doctor backed by a MEDICO user. The CRM must be unique.
func (s *DoctorService) Create(ctx context.Context, in DoctorInput) (*models.Doctor, error) {
	doctor := &models.Doctor{
		UserID:    in.UserID,
		Name:      in.Name,
		CRM:       in.CRM,
		Specialty: in.Specialty,
	}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := requireUserWithRole(ctx, tx, in.UserID, models.RoleMedico); err != nil {
			return err
		}

		_, err := tx.Doctors().FindByCRM(ctx, in.CRM)
		switch {
		case err == nil:
			return apperrors.ErrDuplicateCRM
		case !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("checking crm: %w", err)
		}

		if err := tx.Doctors().Create(ctx, doctor); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return apperrors.ErrDuplicateCRM
			}
			return fmt.Errorf("creating doctor: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"doctor_id": doctor.ID, "user_id": doctor.UserID}).Info("Doctor created")
	return doctor, nil
}

// GetByID returns a doctor.
func (s *DoctorService) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	doctor, err := s.store.Doctors().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("loading doctor: %w", err)
	}
	return doctor, nil
}

// List returns the doctors matching filter, ordered by name.
func (s *DoctorService) List(ctx context.Context, filter repository.DoctorFilter) ([]models.Doctor, error) {
	doctors, err := s.store.Doctors().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing doctors: %w", err)
	}
	return doctors, nil
}

// requireUserWithRole checks that userID names an existing user whose
// profile is one of roles.
func requireUserWithRole(ctx context.Context, tx repository.Store, userID string, roles ...models.Role) error {
	user, err := tx.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("loading user: %w", err)
	}
	if !user.HasRole(roles...) {
		return apperrors.ErrUserWrongRole
	}
	return nil
}
