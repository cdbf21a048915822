package repository

import (
	"context"

	"clinic-scheduling-server/internal/models"

	"gorm.io/gorm"
)

type doctorRepository struct {
	db *gorm.DB
}

func (r *doctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(doctor).Error)
}

func (r *doctorRepository) FindByID(ctx context.Context, id string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&doctor).Error; err != nil {
		return nil, translate(err)
	}
	return &doctor, nil
}

func (r *doctorRepository) FindByCRM(ctx context.Context, crm string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).Where("crm = ?", crm).First(&doctor).Error; err != nil {
		return nil, translate(err)
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context, filter DoctorFilter) ([]models.Doctor, error) {
	q := r.db.WithContext(ctx).Model(&models.Doctor{})
	q = whereContains(q, "name", filter.Name)
	q = whereContains(q, "specialty", filter.Specialty)

	doctors := []models.Doctor{}
	if err := q.Order("name asc").Find(&doctors).Error; err != nil {
		return nil, translate(err)
	}
	return doctors, nil
}
