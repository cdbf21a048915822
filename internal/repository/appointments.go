package repository

import (
	"context"
	"time"

	"clinic-scheduling-server/internal/models"

	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	return translate(r.db.WithContext(ctx).Omit("Patient", "Doctor", "Secretary").Create(appointment).Error)
}

func (r *appointmentRepository) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&appointment).Error; err != nil {
		return nil, translate(err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindDetailByID(ctx context.Context, id string) (*models.AppointmentDetail, error) {
	var detail models.AppointmentDetail
	res := r.db.WithContext(ctx).
		Table("appointments").
		Select("appointments.*, patients.name AS patient_name, doctors.name AS doctor_name, secretaries.full_name AS secretary_name").
		Joins("LEFT JOIN patients ON patients.id = appointments.patient_id").
		Joins("LEFT JOIN doctors ON doctors.id = appointments.doctor_id").
		Joins("LEFT JOIN secretaries ON secretaries.id = appointments.secretary_id").
		Where("appointments.id = ?", id).
		Limit(1).
		Scan(&detail)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &detail, nil
}

func (r *appointmentRepository) FindBySlot(ctx context.Context, doctorID string, dateTime time.Time, excludeID string) (*models.Appointment, error) {
	q := r.db.WithContext(ctx).Where("doctor_id = ? AND date_time = ?", doctorID, dateTime.UTC())
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var appointment models.Appointment
	if err := q.First(&appointment).Error; err != nil {
		return nil, translate(err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	q := r.db.WithContext(ctx).Model(&models.Appointment{})
	if filter.PatientID != "" {
		q = q.Where("patient_id = ?", filter.PatientID)
	}
	if filter.DoctorID != "" {
		q = q.Where("doctor_id = ?", filter.DoctorID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		q = q.Where("date_time >= ?", filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		q = q.Where("date_time <= ?", filter.EndDate.UTC())
	}

	appointments := []models.Appointment{}
	if err := q.Order("date_time asc").Find(&appointments).Error; err != nil {
		return nil, translate(err)
	}
	return appointments, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *models.Appointment) error {
	return translate(r.db.WithContext(ctx).Omit("Patient", "Doctor", "Secretary").Save(appointment).Error)
}
