package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tuanasish/leave-request/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository 用户档案数据访问接口
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	ListAll(ctx context.Context) ([]models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	MarkVerified(ctx context.Context, id string) (bool, error)
	ConfirmContact(ctx context.Context, id, channel string, at time.Time) error
}

// GormProfileRepository GORM 实现
type GormProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建用户档案仓库
func NewProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// GetByID 获取用户档案
func (r *GormProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// ListAll 按姓名排序列出全部用户
func (r *GormProfileRepository) ListAll(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.WithContext(ctx).Order("full_name asc, id asc").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// Create 创建用户档案
func (r *GormProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// MarkVerified 将未验证用户置为已验证，返回是否发生变化
func (r *GormProfileRepository) MarkVerified(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ? AND is_verified = ?", id, false).
		Update("is_verified", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ConfirmContact 记录邮箱或手机号确认时间
func (r *GormProfileRepository) ConfirmContact(ctx context.Context, id, channel string, at time.Time) error {
	column := "phone_confirmed_at"
	if channel == "email" {
		column = "email_confirmed_at"
	}
	result := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Update(column, at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
