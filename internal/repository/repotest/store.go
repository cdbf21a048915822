// Package repotest provides an in-memory repository.Store for tests. It keeps
// the unique constraints the database schema declares, so services see the
// same ErrDuplicateKey they would get from GORM.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/repository"

	"github.com/google/uuid"
)

type tables struct {
	users        map[string]models.User
	patients     map[string]models.Patient
	doctors      map[string]models.Doctor
	secretaries  map[string]models.Secretary
	appointments map[string]models.Appointment
}

func newTables() *tables {
	return &tables{
		users:        map[string]models.User{},
		patients:     map[string]models.Patient{},
		doctors:      map[string]models.Doctor{},
		secretaries:  map[string]models.Secretary{},
		appointments: map[string]models.Appointment{},
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.patients {
		c.patients[k] = v
	}
	for k, v := range t.doctors {
		c.doctors[k] = v
	}
	for k, v := range t.secretaries {
		c.secretaries[k] = v
	}
	for k, v := range t.appointments {
		c.appointments[k] = v
	}
	return c
}

// Store is an in-memory repository.Store. Transactions are serialized and
// rolled back by restoring a snapshot taken when they began.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data *tables

	// PingErr is returned by Ping when set.
	PingErr error
	// Writes counts successful Create and Update calls.
	Writes int
}

// New returns an empty Store.
func New() *Store {
	return &Store{data: newTables()}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Users() repository.UserRepository               { return &users{s} }
func (s *Store) Patients() repository.PatientRepository         { return &patients{s} }
func (s *Store) Doctors() repository.DoctorRepository           { return &doctors{s} }
func (s *Store) Secretaries() repository.SecretaryRepository    { return &secretaries{s} }
func (s *Store) Appointments() repository.AppointmentRepository { return &appointments{s} }

func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	writes := s.Writes
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.Writes = writes
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.PingErr
}

func stamp(base *models.BaseModel) {
	now := time.Now().UTC()
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}

func contains(value, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(value), strings.ToLower(sub))
}

type users struct{ s *Store }

func (r *users) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.data.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	stamp(&user.BaseModel)
	r.s.data.users[user.ID] = *user
	r.s.Writes++
	return nil
}

func (r *users) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.data.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.data.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type patients struct{ s *Store }

func (r *patients) cpfTaken(cpf, excludeID string) bool {
	for id, p := range r.s.data.patients {
		if p.CPF == cpf && id != excludeID {
			return true
		}
	}
	return false
}

func (r *patients) Create(ctx context.Context, patient *models.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.cpfTaken(patient.CPF, "") {
		return repository.ErrDuplicateKey
	}
	stamp(&patient.BaseModel)
	r.s.data.patients[patient.ID] = *patient
	r.s.Writes++
	return nil
}

func (r *patients) FindByID(ctx context.Context, id string) (*models.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.data.patients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *patients) FindByCPF(ctx context.Context, cpf, excludeID string) (*models.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, p := range r.s.data.patients {
		if p.CPF == cpf && id != excludeID {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *patients) List(ctx context.Context, filter repository.PatientFilter) ([]models.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.Patient{}
	for _, p := range r.s.data.patients {
		if contains(p.Name, filter.Name) && contains(p.CPF, filter.CPF) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *patients) Update(ctx context.Context, patient *models.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.patients[patient.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.cpfTaken(patient.CPF, patient.ID) {
		return repository.ErrDuplicateKey
	}
	patient.UpdatedAt = time.Now().UTC()
	r.s.data.patients[patient.ID] = *patient
	r.s.Writes++
	return nil
}

type doctors struct{ s *Store }

func (r *doctors) Create(ctx context.Context, doctor *models.Doctor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, d := range r.s.data.doctors {
		if d.CRM == doctor.CRM {
			return repository.ErrDuplicateKey
		}
	}
	stamp(&doctor.BaseModel)
	r.s.data.doctors[doctor.ID] = *doctor
	r.s.Writes++
	return nil
}

func (r *doctors) FindByID(ctx context.Context, id string) (*models.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.data.doctors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (r *doctors) FindByCRM(ctx context.Context, crm string) (*models.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, d := range r.s.data.doctors {
		if d.CRM == crm {
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *doctors) List(ctx context.Context, filter repository.DoctorFilter) ([]models.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.Doctor{}
	for _, d := range r.s.data.doctors {
		if contains(d.Name, filter.Name) && contains(d.Specialty, filter.Specialty) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type secretaries struct{ s *Store }

func (r *secretaries) Create(ctx context.Context, secretary *models.Secretary) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, sec := range r.s.data.secretaries {
		if sec.UserID == secretary.UserID {
			return repository.ErrDuplicateKey
		}
	}
	stamp(&secretary.BaseModel)
	r.s.data.secretaries[secretary.ID] = *secretary
	r.s.Writes++
	return nil
}

func (r *secretaries) FindByID(ctx context.Context, id string) (*models.Secretary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sec, ok := r.s.data.secretaries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sec, nil
}

func (r *secretaries) FindByUserID(ctx context.Context, userID string) (*models.Secretary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, sec := range r.s.data.secretaries {
		if sec.UserID == userID {
			return &sec, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *secretaries) List(ctx context.Context, filter repository.SecretaryFilter) ([]models.Secretary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.Secretary{}
	for _, sec := range r.s.data.secretaries {
		if contains(sec.FullName, filter.FullName) && contains(sec.Registration, filter.Registration) {
			out = append(out, sec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

type appointments struct{ s *Store }

func (r *appointments) slotTaken(doctorID string, dateTime time.Time, excludeID string) (models.Appointment, bool) {
	for id, a := range r.s.data.appointments {
		if a.DoctorID == doctorID && a.DateTime.Equal(dateTime) && id != excludeID {
			return a, true
		}
	}
	return models.Appointment{}, false
}

func (r *appointments) Create(ctx context.Context, appointment *models.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.slotTaken(appointment.DoctorID, appointment.DateTime, ""); taken {
		return repository.ErrDuplicateKey
	}
	if appointment.Status == "" {
		appointment.Status = models.StatusAgendada
	}
	stamp(&appointment.BaseModel)
	r.s.data.appointments[appointment.ID] = *appointment
	r.s.Writes++
	return nil
}

func (r *appointments) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.data.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *appointments) FindDetailByID(ctx context.Context, id string) (*models.AppointmentDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.data.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	detail := &models.AppointmentDetail{Appointment: a}
	if p, ok := r.s.data.patients[a.PatientID]; ok {
		name := p.Name
		detail.PatientName = &name
	}
	if d, ok := r.s.data.doctors[a.DoctorID]; ok {
		name := d.Name
		detail.DoctorName = &name
	}
	if a.SecretaryID != nil {
		if sec, ok := r.s.data.secretaries[*a.SecretaryID]; ok {
			name := sec.FullName
			detail.SecretaryName = &name
		}
	}
	return detail, nil
}

func (r *appointments) FindBySlot(ctx context.Context, doctorID string, dateTime time.Time, excludeID string) (*models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, taken := r.slotTaken(doctorID, dateTime, excludeID)
	if !taken {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *appointments) List(ctx context.Context, filter repository.AppointmentFilter) ([]models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.Appointment{}
	for _, a := range r.s.data.appointments {
		switch {
		case filter.PatientID != "" && a.PatientID != filter.PatientID:
			continue
		case filter.DoctorID != "" && a.DoctorID != filter.DoctorID:
			continue
		case filter.Status != "" && a.Status != filter.Status:
			continue
		case filter.StartDate != nil && a.DateTime.Before(*filter.StartDate):
			continue
		case filter.EndDate != nil && a.DateTime.After(*filter.EndDate):
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	return out, nil
}

func (r *appointments) Update(ctx context.Context, appointment *models.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.appointments[appointment.ID]; !ok {
		return repository.ErrNotFound
	}
	if _, taken := r.slotTaken(appointment.DoctorID, appointment.DateTime, appointment.ID); taken {
		return repository.ErrDuplicateKey
	}
	appointment.UpdatedAt = time.Now().UTC()
	r.s.data.appointments[appointment.ID] = *appointment
	r.s.Writes++
	return nil
}
