package repository

import (
	"context"

	"clinic-scheduling-server/internal/models"

	"gorm.io/gorm"
)

type secretaryRepository struct {
	db *gorm.DB
}

func (r *secretaryRepository) Create(ctx context.Context, secretary *models.Secretary) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(secretary).Error)
}

func (r *secretaryRepository) FindByID(ctx context.Context, id string) (*models.Secretary, error) {
	var secretary models.Secretary
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&secretary).Error; err != nil {
		return nil, translate(err)
	}
	return &secretary, nil
}

func (r *secretaryRepository) FindByUserID(ctx context.Context, userID string) (*models.Secretary, error) {
	var secretary models.Secretary
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&secretary).Error; err != nil {
		return nil, translate(err)
	}
	return &secretary, nil
}

func (r *secretaryRepository) List(ctx context.Context, filter SecretaryFilter) ([]models.Secretary, error) {
	q := r.db.WithContext(ctx).Model(&models.Secretary{})
	q = whereContains(q, "full_name", filter.FullName)
	q = whereContains(q, "registration", filter.Registration)

	secretaries := []models.Secretary{}
	if err := q.Order("full_name asc").Find(&secretaries).Error; err != nil {
		return nil, translate(err)
	}
	return secretaries, nil
}
