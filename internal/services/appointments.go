package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-scheduling-server/internal/apperrors"
	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/metrics"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/repository"

	"github.com/sirupsen/logrus"
)

// SlotPrecision is the resolution at which appointment times are stored and
// compared. DATETIME(3) columns keep milliseconds.
const SlotPrecision = time.Millisecond

// AppointmentInput carries a booking request.
type AppointmentInput struct {
	PatientID       string
	DoctorID        string
	SecretaryID     *string
	DateTime        time.Time
	AppointmentType models.AppointmentType
	Reason          string
}

// AppointmentUpdate reschedules or edits an appointment. Nil fields are left
// untouched.
type AppointmentUpdate struct {
	DateTime        *time.Time
	AppointmentType *models.AppointmentType
	Reason          *string
}

// IsEmpty reports whether the update changes nothing.
func (u AppointmentUpdate) IsEmpty() bool {
	return u.DateTime == nil && u.AppointmentType == nil && u.Reason == nil
}

// AppointmentService books, edits and cancels appointments.
//
// A doctor has at most one appointment per exact instant. The check matches
// timestamps exactly and ignores status, so a cancelled appointment still
// holds its slot.
type AppointmentService struct {
	store   repository.Store
	metrics *metrics.Metrics
	log     *logrus.Entry
}

// NewAppointmentService creates an AppointmentService. m may be nil.
func NewAppointmentService(store repository.Store, m *metrics.Metrics, log *logger.Logger) *AppointmentService {
	return &AppointmentService{store: store, metrics: m, log: log.WithComponent("appointments")}
}

func normalizeSlot(t time.Time) time.Time {
	return t.UTC().Truncate(SlotPrecision)
}

// Create books an appointment with status AGENDADA. Patient, doctor and
// secretary are resolved in that order before the slot is checked.
func (s *AppointmentService) Create(ctx context.Context, in AppointmentInput) (*models.Appointment, error) {
	appointment := &models.Appointment{
		PatientID:       in.PatientID,
		DoctorID:        in.DoctorID,
		SecretaryID:     in.SecretaryID,
		DateTime:        normalizeSlot(in.DateTime),
		Status:          models.StatusAgendada,
		AppointmentType: in.AppointmentType,
		Reason:          in.Reason,
	}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := s.resolveReferences(ctx, tx, in); err != nil {
			return err
		}
		if err := s.ensureSlotFree(ctx, tx, appointment.DoctorID, appointment.DateTime, ""); err != nil {
			return err
		}
		if err := tx.Appointments().Create(ctx, appointment); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				s.metrics.RecordAppointmentEvent(metrics.EventConflict)
				return apperrors.ErrAppointmentConflict
			}
			return fmt.Errorf("creating appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAppointmentEvent(metrics.EventBooked)
	s.log.WithFields(logrus.Fields{
		"appointment_id": appointment.ID,
		"doctor_id":      appointment.DoctorID,
		"date_time":      appointment.DateTime.Format(time.RFC3339),
	}).Info("Appointment booked")
	return appointment, nil
}

func (s *AppointmentService) resolveReferences(ctx context.Context, tx repository.Store, in AppointmentInput) error {
	if _, err := tx.Patients().FindByID(ctx, in.PatientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrReferencedPatientNotFound
		}
		return fmt.Errorf("loading patient: %w", err)
	}

	if _, err := tx.Doctors().FindByID(ctx, in.DoctorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrReferencedDoctorNotFound
		}
		return fmt.Errorf("loading doctor: %w", err)
	}

	if in.SecretaryID != nil {
		if _, err := tx.Secretaries().FindByID(ctx, *in.SecretaryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.ErrReferencedSecretaryNotFound
			}
			return fmt.Errorf("loading secretary: %w", err)
		}
	}

	return nil
}

func (s *AppointmentService) ensureSlotFree(ctx context.Context, tx repository.Store, doctorID string, dateTime time.Time, excludeID string) error {
	_, err := tx.Appointments().FindBySlot(ctx, doctorID, dateTime, excludeID)
	switch {
	case err == nil:
		s.metrics.RecordAppointmentEvent(metrics.EventConflict)
		return apperrors.ErrAppointmentConflict
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("checking slot: %w", err)
	}
}

// Update applies the fields present in upd. A new date time is checked
// against the doctor's other appointments. Status is never changed here and
// an empty update returns the stored record without writing.
func (s *AppointmentService) Update(ctx context.Context, id string, upd AppointmentUpdate) (*models.Appointment, error) {
	var appointment *models.Appointment

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		appointment, err = loadAppointment(ctx, tx, id)
		if err != nil {
			return err
		}

		if upd.IsEmpty() {
			return nil
		}

		if upd.DateTime != nil {
			slot := normalizeSlot(*upd.DateTime)
			if err := s.ensureSlotFree(ctx, tx, appointment.DoctorID, slot, appointment.ID); err != nil {
				return err
			}
			appointment.DateTime = slot
		}
		if upd.AppointmentType != nil {
			appointment.AppointmentType = *upd.AppointmentType
		}
		if upd.Reason != nil {
			appointment.Reason = *upd.Reason
		}

		if err := tx.Appointments().Update(ctx, appointment); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return apperrors.ErrAppointmentConflict
			}
			return fmt.Errorf("updating appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if upd.DateTime != nil {
		s.metrics.RecordAppointmentEvent(metrics.EventRescheduled)
	}
	if !upd.IsEmpty() {
		s.log.WithField("appointment_id", appointment.ID).Info("Appointment updated")
	}
	return appointment, nil
}

// Cancel moves a scheduled appointment to CANCELADA. Terminal appointments
// cannot be cancelled.
func (s *AppointmentService) Cancel(ctx context.Context, id string, reason *string) (*models.Appointment, error) {
	var appointment *models.Appointment

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		appointment, err = loadAppointment(ctx, tx, id)
		if err != nil {
			return err
		}

		if appointment.Status.IsTerminal() {
			if appointment.Status == models.StatusCancelada {
				return apperrors.ErrAlreadyCancelled
			}
			return apperrors.ErrAlreadyCompleted
		}

		appointment.Status = models.StatusCancelada
		appointment.CancelReason = reason
		if err := tx.Appointments().Update(ctx, appointment); err != nil {
			return fmt.Errorf("cancelling appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAppointmentEvent(metrics.EventCancelled)
	s.log.WithField("appointment_id", appointment.ID).Info("Appointment cancelled")
	return appointment, nil
}

// List returns the appointments matching filter, ordered by date time.
func (s *AppointmentService) List(ctx context.Context, filter repository.AppointmentFilter) ([]models.Appointment, error) {
	appointments, err := s.store.Appointments().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	return appointments, nil
}

// GetByID returns an appointment with the names of the people it references.
func (s *AppointmentService) GetByID(ctx context.Context, id string) (*models.AppointmentDetail, error) {
	detail, err := s.store.Appointments().FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("loading appointment: %w", err)
	}
	return detail, nil
}

func loadAppointment(ctx context.Context, tx repository.Store, id string) (*models.Appointment, error) {
	appointment, err := tx.Appointments().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("loading appointment: %w", err)
	}
	return appointment, nil
}
