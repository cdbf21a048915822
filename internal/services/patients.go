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

// PatientInput carries the fields of a new patient.
type PatientInput struct {
	Name      string
	BirthDate models.Date
	CPF       string
	Phone     *string
	Email     *string
}

// PatientUpdate is a partial patient update. Nil fields are left untouched.
type PatientUpdate struct {
	Name      *string
	BirthDate *models.Date
	CPF       *string
	Phone     *string
	Email     *string
}

// IsEmpty reports whether the update changes nothing.
func (u PatientUpdate) IsEmpty() bool {
	return u.Name == nil && u.BirthDate == nil && u.CPF == nil && u.Phone == nil && u.Email == nil
}

func (u PatientUpdate) apply(p *models.Patient) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.BirthDate != nil {
		p.BirthDate = *u.BirthDate
	}
	if u.CPF != nil {
		p.CPF = *u.CPF
	}
	if u.Phone != nil {
		p.Phone = u.Phone
	}
	if u.Email != nil {
		p.Email = u.Email
	}
}

// PatientService manages patient records.
type PatientService struct {
	store repository.Store
	log   *logrus.Entry
}

// NewPatientService creates a PatientService.
func NewPatientService(store repository.Store, log *logger.Logger) *PatientService {
	return &PatientService{store: store, log: log.WithComponent("patients")}
}

// Create registers a patient. The CPF must not belong to another patient.
func (s *PatientService) Create(ctx context.Context, in PatientInput) (*models.Patient, error) {
	patient := &models.Patient{
		Name:      in.Name,
		BirthDate: in.BirthDate,
		CPF:       in.CPF,
		Phone:     in.Phone,
		Email:     in.Email,
	}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := ensureCPFAvailable(ctx, tx, in.CPF, ""); err != nil {
			return err
		}
		if err := tx.Patients().Create(ctx, patient); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return apperrors.ErrDuplicateCPF
			}
			return fmt.Errorf("creating patient: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("patient_id", patient.ID).Info("Patient created")
	return patient, nil
}

// GetByID returns a patient.
func (s *PatientService) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	patient, err := s.store.Patients().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrPatientNotFound
		}
		return nil, fmt.Errorf("loading patient: %w", err)
	}
	return patient, nil
}

// List returns the patients matching filter, ordered by name.
func (s *PatientService) List(ctx context.Context, filter repository.PatientFilter) ([]models.Patient, error) {
	patients, err := s.store.Patients().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	return patients, nil
}

// Update applies the fields present in upd. An empty update returns the
// stored record without writing. A CPF collision fails before any change.
func (s *PatientService) Update(ctx context.Context, id string, upd PatientUpdate) (*models.Patient, error) {
	var patient *models.Patient

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		patient, err = tx.Patients().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.ErrPatientNotFound
			}
			return fmt.Errorf("loading patient: %w", err)
		}

		if upd.IsEmpty() {
			return nil
		}

		if upd.CPF != nil {
			if err := ensureCPFAvailable(ctx, tx, *upd.CPF, id); err != nil {
				return err
			}
		}

		upd.apply(patient)
		if err := tx.Patients().Update(ctx, patient); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return apperrors.ErrDuplicateCPF
			}
			return fmt.Errorf("updating patient: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !upd.IsEmpty() {
		s.log.WithField("patient_id", patient.ID).Info("Patient updated")
	}
	return patient, nil
}

func ensureCPFAvailable(ctx context.Context, tx repository.Store, cpf, excludeID string) error {
	_, err := tx.Patients().FindByCPF(ctx, cpf, excludeID)
	switch {
	case err == nil:
		return apperrors.ErrDuplicateCPF
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("checking cpf: %w", err)
	}
}
