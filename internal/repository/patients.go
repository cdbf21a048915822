package repository

import (
	"context"

	"clinic-scheduling-server/internal/models"

	"gorm.io/gorm"
)

type patientRepository struct {
	db *gorm.DB
}

func (r *patientRepository) Create(ctx context.Context, patient *models.Patient) error {
	return translate(r.db.WithContext(ctx).Create(patient).Error)
}

func (r *patientRepository) FindByID(ctx context.Context, id string) (*models.Patient, error) {
	var patient models.Patient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&patient).Error; err != nil {
		return nil, translate(err)
	}
	return &patient, nil
}

func (r *patientRepository) FindByCPF(ctx context.Context, cpf, excludeID string) (*models.Patient, error) {
	q := r.db.WithContext(ctx).Where("cpf = ?", cpf)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var patient models.Patient
	if err := q.First(&patient).Error; err != nil {
		return nil, translate(err)
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context, filter PatientFilter) ([]models.Patient, error) {
	q := r.db.WithContext(ctx).Model(&models.Patient{})
	q = whereContains(q, "name", filter.Name)
	q = whereContains(q, "cpf", filter.CPF)

	patients := []models.Patient{}
	if err := q.Order("name asc").Find(&patients).Error; err != nil {
		return nil, translate(err)
	}
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *models.Patient) error {
	return translate(r.db.WithContext(ctx).Save(patient).Error)
}
