package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/micca12/Progetto-IW/internal/models"
)

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).
		Preload("Role").
		Preload("Brand").
		Where("email = ?", email).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).
		Preload("Role").
		Preload("Brand").
		First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// EmailTaken checks uniqueness; excludeID 0 means no exclusion.
func (r *GormRepo) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	q := r.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) RoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.DB.WithContext(ctx).Where("nome = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Omit("Role", "Brand").Create(u).Error
}

func (r *GormRepo) UpdateUserFields(ctx context.Context, id uint, fields map[string]any) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("ultimo_accesso", at).Error
}
