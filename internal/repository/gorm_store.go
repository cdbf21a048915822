package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// GormStore implements Store on top of GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by db. db should be opened with
// TranslateError so unique violations surface as ErrDuplicateKey.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserRepository               { return &userRepository{db: s.db} }
func (s *GormStore) Patients() PatientRepository         { return &patientRepository{db: s.db} }
func (s *GormStore) Doctors() DoctorRepository           { return &doctorRepository{db: s.db} }
func (s *GormStore) Secretaries() SecretaryRepository    { return &secretaryRepository{db: s.db} }
func (s *GormStore) Appointments() AppointmentRepository { return &appointmentRepository{db: s.db} }

func (s *GormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// translate maps GORM errors to the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	default:
		return err
	}
}

// containsPattern builds a LIKE pattern for a case-insensitive substring
// match against LOWER(column).
func containsPattern(value string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(strings.ToLower(value)) + "%"
}

// whereContains adds LOWER(column) LIKE pattern when value is not empty.
func whereContains(q *gorm.DB, column, value string) *gorm.DB {
	if value == "" {
		return q
	}
	return q.Where("LOWER("+column+") LIKE ?", containsPattern(value))
}
