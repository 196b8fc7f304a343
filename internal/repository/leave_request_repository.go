package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tuanasish/leave-request/internal/constants"
	"github.com/tuanasish/leave-request/internal/models"

	"gorm.io/gorm"
)

// LeaveRequestRepository 请假申请数据访问接口
type LeaveRequestRepository interface {
	Create(ctx context.Context, req *models.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*models.LeaveRequest, error)
	GetByIDForUser(ctx context.Context, id, userID string) (*models.LeaveRequest, error)
	ListByUser(ctx context.Context, userID string) ([]models.LeaveRequest, error)
	CountByUserGroupedStatus(ctx context.Context, userID string) (map[string]int64, error)
	ListAdmin(ctx context.Context, filter LeaveRequestListFilter) ([]models.LeaveRequest, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	ListActiveAbsences(ctx context.Context, day models.Date) ([]models.LeaveRequest, error)
	DeletePendingByOwner(ctx context.Context, id, userID string) (bool, error)
	Review(ctx context.Context, input LeaveReviewUpdate) (bool, error)
	ListDueReminders(ctx context.Context, from, to models.Date, limit int) ([]models.LeaveRequest, error)
	MarkReminderSent(ctx context.Context, id string) (bool, error)
	ReleaseReminder(ctx context.Context, id string) error
}

// LeaveRequestListFilter 管理端列表过滤条件
type LeaveRequestListFilter struct {
	Status string
	Search string
}

// LeaveReviewUpdate 审批写入参数
type LeaveReviewUpdate struct {
	ID         string
	Status     string
	AdminNote  *string
	ReviewerID string
	ReviewedAt time.Time
}

// GormLeaveRequestRepository GORM 实现
type GormLeaveRequestRepository struct {
	db *gorm.DB
}

// NewLeaveRequestRepository 创建请假申请仓库
func NewLeaveRequestRepository(db *gorm.DB) *GormLeaveRequestRepository {
	return &GormLeaveRequestRepository{db: db}
}

// Create 创建请假申请
func (r *GormLeaveRequestRepository) Create(ctx context.Context, req *models.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// GetByID 获取请假申请及申请人
func (r *GormLeaveRequestRepository) GetByID(ctx context.Context, id string) (*models.LeaveRequest, error) {
	var req models.LeaveRequest
	if err := r.db.WithContext(ctx).Preload("Profile").Where("id = ?", id).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// GetByIDForUser 获取属于指定用户的请假申请
func (r *GormLeaveRequestRepository) GetByIDForUser(ctx context.Context, id, userID string) (*models.LeaveRequest, error) {
	var req models.LeaveRequest
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// ListByUser 按创建时间倒序列出用户的申请
func (r *GormLeaveRequestRepository) ListByUser(ctx context.Context, userID string) ([]models.LeaveRequest, error) {
	var list []models.LeaveRequest
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

type statusCountRow struct {
	Status string
	Total  int64
}

// CountByUserGroupedStatus 按状态统计用户的申请数量
func (r *GormLeaveRequestRepository) CountByUserGroupedStatus(ctx context.Context, userID string) (map[string]int64, error) {
	var rows []statusCountRow
	if err := r.db.WithContext(ctx).Model(&models.LeaveRequest{}).
		Select("status, COUNT(*) AS total").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// ListAdmin 管理端列表，支持状态过滤与姓名搜索
func (r *GormLeaveRequestRepository) ListAdmin(ctx context.Context, filter LeaveRequestListFilter) ([]models.LeaveRequest, error) {
	query := r.db.WithContext(ctx).Model(&models.LeaveRequest{}).
		Joins("LEFT JOIN profiles ON profiles.id = leave_requests.user_id").
		Preload("Profile")

	status := strings.TrimSpace(filter.Status)
	if status != "" && status != constants.LeaveStatusFilterAll {
		query = query.Where("leave_requests.status = ?", status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, count := buildLikeCondition(r.db, "profiles.full_name")
		query = query.Where(condition, repeatLikeArgs(containsPattern(dbDialectName(r.db), search), count)...)
	}

	var list []models.LeaveRequest
	if err := query.Select("leave_requests.*").
		Order("leave_requests.created_at desc, leave_requests.id desc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// CountAll 统计全部申请
func (r *GormLeaveRequestRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.LeaveRequest{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// CountByStatus 按状态统计
func (r *GormLeaveRequestRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.LeaveRequest{}).
		Where("status = ?", status).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// ListActiveAbsences 指定日期正在休假的已批准申请
func (r *GormLeaveRequestRepository) ListActiveAbsences(ctx context.Context, day models.Date) ([]models.LeaveRequest, error) {
	var list []models.LeaveRequest
	if err := r.db.WithContext(ctx).Preload("Profile").
		Where("status = ? AND start_date <= ? AND end_date >= ?", constants.LeaveStatusApproved, day, day).
		Order("start_date asc, id asc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// DeletePendingByOwner 删除本人待审批的申请，返回是否删除
func (r *GormLeaveRequestRepository) DeletePendingByOwner(ctx context.Context, id, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, constants.LeaveStatusPending).
		Delete(&models.LeaveRequest{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Review 写入审批结果，仅对待审批记录生效
func (r *GormLeaveRequestRepository) Review(ctx context.Context, input LeaveReviewUpdate) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.LeaveRequest{}).
		Where("id = ? AND status = ?", input.ID, constants.LeaveStatusPending).
		Updates(map[string]interface{}{
			"status":      input.Status,
			"admin_note":  input.AdminNote,
			"reviewed_by": input.ReviewerID,
			"reviewed_at": input.ReviewedAt,
			"updated_at":  input.ReviewedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListDueReminders 查询开始日期在区间内、尚未提醒的已批准申请
func (r *GormLeaveRequestRepository) ListDueReminders(ctx context.Context, from, to models.Date, limit int) ([]models.LeaveRequest, error) {
	query := r.db.WithContext(ctx).Preload("Profile").
		Where("status = ? AND reminder_sent = ? AND start_date >= ? AND start_date <= ?",
			constants.LeaveStatusApproved, false, from, to).
		Order("start_date asc, id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var list []models.LeaveRequest
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// MarkReminderSent 标记已发送提醒，返回是否由本次调用完成标记
func (r *GormLeaveRequestRepository) MarkReminderSent(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.LeaveRequest{}).
		Where("id = ? AND reminder_sent = ?", id, false).
		Update("reminder_sent", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ReleaseReminder 发送失败时撤销提醒标记，下一轮扫描重新发送
func (r *GormLeaveRequestRepository) ReleaseReminder(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.LeaveRequest{}).
		Where("id = ? AND reminder_sent = ?", id, true).
		Update("reminder_sent", false).Error
}
