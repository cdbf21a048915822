// Package repository persists the clinic's records.
package repository

import (
	"context"
	"errors"
	"time"

	"clinic-scheduling-server/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a write violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key")
)

// PatientFilter narrows a patient listing. Empty fields impose no constraint;
// set fields are case-insensitive substring matches combined with AND.
type PatientFilter struct {
	Name string
	CPF  string
}

// DoctorFilter narrows a doctor listing.
type DoctorFilter struct {
	Name      string
	Specialty string
}

// SecretaryFilter narrows a secretary listing.
type SecretaryFilter struct {
	FullName     string
	Registration string
}

// AppointmentFilter narrows an appointment listing. StartDate and EndDate
// bound date_time inclusively.
type AppointmentFilter struct {
	PatientID string
	DoctorID  string
	Status    models.AppointmentStatus
	StartDate *time.Time
	EndDate   *time.Time
}

// UserRepository persists login accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// PatientRepository persists patients.
type PatientRepository interface {
	Create(ctx context.Context, patient *models.Patient) error
	FindByID(ctx context.Context, id string) (*models.Patient, error)
	// FindByCPF returns the patient holding cpf, ignoring excludeID when set.
	FindByCPF(ctx context.Context, cpf, excludeID string) (*models.Patient, error)
	List(ctx context.Context, filter PatientFilter) ([]models.Patient, error)
	Update(ctx context.Context, patient *models.Patient) error
}

// DoctorRepository persists doctors.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	FindByID(ctx context.Context, id string) (*models.Doctor, error)
	FindByCRM(ctx context.Context, crm string) (*models.Doctor, error)
	List(ctx context.Context, filter DoctorFilter) ([]models.Doctor, error)
}

// SecretaryRepository persists secretaries.
type SecretaryRepository interface {
	Create(ctx context.Context, secretary *models.Secretary) error
	FindByID(ctx context.Context, id string) (*models.Secretary, error)
	FindByUserID(ctx context.Context, userID string) (*models.Secretary, error)
	List(ctx context.Context, filter SecretaryFilter) ([]models.Secretary, error)
}

// AppointmentRepository persists appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	FindByID(ctx context.Context, id string) (*models.Appointment, error)
	FindDetailByID(ctx context.Context, id string) (*models.AppointmentDetail, error)
	// FindBySlot returns any appointment of doctorID at exactly dateTime,
	// whatever its status, ignoring excludeID when set.
	FindBySlot(ctx context.Context, doctorID string, dateTime time.Time, excludeID string) (*models.Appointment, error)
	List(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error)
	Update(ctx context.Context, appointment *models.Appointment) error
}

// Store groups the repositories and runs units of work atomically.
type Store interface {
	Users() UserRepository
	Patients() PatientRepository
	Doctors() DoctorRepository
	Secretaries() SecretaryRepository
	Appointments() AppointmentRepository
	// WithTx runs fn against a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}
