package repository

import (
	"context"
	"strings"

	"github.com/tuanasish/leave-request/internal/models"

	"gorm.io/gorm"
)

// NotificationLogRepository 通知审计数据访问接口
type NotificationLogRepository interface {
	Create(ctx context.Context, log *models.NotificationLog) error
	List(ctx context.Context, filter NotificationLogListFilter) ([]models.NotificationLog, int64, error)
}

// NotificationLogListFilter 审计列表过滤条件
type NotificationLogListFilter struct {
	Page     int
	PageSize int
	Channel  string
	Status   string
	Type     string
}

// GormNotificationLogRepository GORM 实现
type GormNotificationLogRepository struct {
	db *gorm.DB
}

// NewNotificationLogRepository 创建通知审计仓库
func NewNotificationLogRepository(db *gorm.DB) *GormNotificationLogRepository {
	return &GormNotificationLogRepository{db: db}
}

// Create 写入审计记录
func (r *GormNotificationLogRepository) Create(ctx context.Context, log *models.NotificationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// List 分页查询审计记录
func (r *GormNotificationLogRepository) List(ctx context.Context, filter NotificationLogListFilter) ([]models.NotificationLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.NotificationLog{})
	if channel := strings.TrimSpace(filter.Channel); channel != "" {
		query = query.Where("channel = ?", channel)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if logType := strings.TrimSpace(filter.Type); logType != "" {
		query = query.Where("type = ?", logType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.NotificationLog
	if err := query.Scopes(paginate(filter.Page, filter.PageSize)).Order("created_at desc, id desc").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
