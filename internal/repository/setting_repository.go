package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tuanasish/leave-request/internal/models"

	"gorm.io/gorm"
)

// SettingRepository 设置数据访问接口
type SettingRepository interface {
	List(ctx context.Context) ([]models.Setting, error)
	GetByKey(ctx context.Context, key string) (*models.Setting, error)
	GetByKeys(ctx context.Context, keys []string) (map[string]models.Setting, error)
	UpdateValue(ctx context.Context, key string, value models.JSONValue, updatedAt time.Time) (bool, error)
}

// GormSettingRepository GORM 实现
type GormSettingRepository struct {
	db *gorm.DB
}

// NewSettingRepository 创建设置仓库
func NewSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// List 列出全部设置
func (r *GormSettingRepository) List(ctx context.Context) ([]models.Setting, error) {
	var settings []models.Setting
	if err := r.db.WithContext(ctx).Order("id asc").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// GetByKey 获取设置
func (r *GormSettingRepository) GetByKey(ctx context.Context, key string) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.WithContext(ctx).Where(map[string]interface{}{"key": key}).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// GetByKeys 批量获取设置
func (r *GormSettingRepository) GetByKeys(ctx context.Context, keys []string) (map[string]models.Setting, error) {
	result := make(map[string]models.Setting, len(keys))
	if len(keys) == 0 {
		return result, nil
	}
	var settings []models.Setting
	if err := r.db.WithContext(ctx).Where(map[string]interface{}{"key": keys}).Find(&settings).Error; err != nil {
		return nil, err
	}
	for _, setting := range settings {
		result[setting.Key] = setting
	}
	return result, nil
}

// UpdateValue 更新已存在的设置项，返回是否命中
func (r *GormSettingRepository) UpdateValue(ctx context.Context, key string, value models.JSONValue, updatedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Setting{}).
		Where(map[string]interface{}{"key": key}).
		Updates(map[string]interface{}{
			"value":      value,
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
