package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tuanasish/leave-request/internal/cache"
	"github.com/tuanasish/leave-request/internal/constants"
	"github.com/tuanasish/leave-request/internal/logger"
	"github.com/tuanasish/leave-request/internal/models"
	"github.com/tuanasish/leave-request/internal/repository"
)

const (
	adminLeaveListTTL = 2 * time.Minute
	adminStatsTTL     = time.Minute
	employeesTTL      = 5 * time.Minute
)

// ReviewLeaveInput 审批参数
type ReviewLeaveInput struct {
	Status    string
	AdminNote string
}

// AdminStats 管理端统计
type AdminStats struct {
	PendingRequests    int64                 `json:"pendingRequests"`
	TotalRequests      int64                 `json:"totalRequests"`
	CurrentAbsences    int                   `json:"currentAbsences"`
	ActiveAbsencesList []models.LeaveRequest `json:"activeAbsencesList"`
}

// LeaveStatusNotifier 审批结果通知
type LeaveStatusNotifier interface {
	QueueLeaveStatus(ctx context.Context, leaveRequestID string)
}

// AdminLeaveService 管理端请假审批与统计
type AdminLeaveService struct {
	leaves   repository.LeaveRequestRepository
	profiles repository.ProfileRepository
	cache    *cache.Store
	notifier LeaveStatusNotifier
	loc      *time.Location
	now      func() time.Time
}

// NewAdminLeaveService 创建管理端服务
func NewAdminLeaveService(
	leaves repository.LeaveRequestRepository,
	profiles repository.ProfileRepository,
	store *cache.Store,
	notifier LeaveStatusNotifier,
	loc *time.Location,
) *AdminLeaveService {
	if loc == nil {
		loc = time.UTC
	}
	return &AdminLeaveService{
		leaves:   leaves,
		profiles: profiles,
		cache:    store,
		notifier: notifier,
		loc:      loc,
		now:      time.Now,
	}
}

// List 全部申请，支持状态过滤与姓名搜索（缓存 2 分钟）
func (s *AdminLeaveService) List(ctx context.Context, status, search string) ([]models.LeaveRequest, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		status = constants.LeaveStatusFilterAll
	}
	search = strings.TrimSpace(search)
	key := fmt.Sprintf("admin:leave-requests:%s:%s", status, strings.ToLower(search))
	return cache.Remember(ctx, s.cache, key, adminLeaveListTTL, []string{constants.CacheTagLeaveRequests}, func(ctx context.Context) ([]models.LeaveRequest, error) {
		list, err := s.leaves.ListAdmin(ctx, repository.LeaveRequestListFilter{Status: status, Search: search})
		if err != nil {
			return nil, err
		}
		if list == nil {
			list = []models.LeaveRequest{}
		}
		return list, nil
	})
}

// Review 审批待处理的申请
func (s *AdminLeaveService) Review(ctx context.Context, reviewerID, id string, input ReviewLeaveInput) (*models.LeaveRequest, error) {
	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status != constants.LeaveStatusApproved && status != constants.LeaveStatusRejected {
		return nil, ErrLeaveStatusInvalid
	}
	var note *string
	if trimmed := strings.TrimSpace(input.AdminNote); trimmed != "" {
		note = &trimmed
	}
	updated, err := s.leaves.Review(ctx, repository.LeaveReviewUpdate{
		ID:         id,
		Status:     status,
		AdminNote:  note,
		ReviewerID: reviewerID,
		ReviewedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}
	if !updated {
		existing, err := s.leaves.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrLeaveNotFound
		}
		return nil, ErrLeaveNotPending
	}
	s.cache.InvalidateTags(ctx, constants.CacheTagLeaveRequests, constants.CacheTagAdminStats)
	logger.Infow("leave_request_reviewed", "leave_request_id", id, "status", status, "reviewer_id", reviewerID)

	if s.notifier != nil {
		s.notifier.QueueLeaveStatus(ctx, id)
	}
	return s.leaves.GetByID(ctx, id)
}

// Stats 待审批数、总数与今日休假人员（缓存 1 分钟）
func (s *AdminLeaveService) Stats(ctx context.Context) (*AdminStats, error) {
	return cache.Remember(ctx, s.cache, "admin:stats", adminStatsTTL, []string{constants.CacheTagAdminStats}, func(ctx context.Context) (*AdminStats, error) {
		pending, err := s.leaves.CountByStatus(ctx, constants.LeaveStatusPending)
		if err != nil {
			return nil, err
		}
		total, err := s.leaves.CountAll(ctx)
		if err != nil {
			return nil, err
		}
		today := models.NewDate(s.now().In(s.loc))
		absences, err := s.leaves.ListActiveAbsences(ctx, today)
		if err != nil {
			return nil, err
		}
		if absences == nil {
			absences = []models.LeaveRequest{}
		}
		return &AdminStats{
			PendingRequests:    pending,
			TotalRequests:      total,
			CurrentAbsences:    len(absences),
			ActiveAbsencesList: absences,
		}, nil
	})
}

// Employees 全部员工，按姓名排序（缓存 5 分钟）
func (s *AdminLeaveService) Employees(ctx context.Context) ([]models.Profile, error) {
	return cache.Remember(ctx, s.cache, "admin:employees", employeesTTL, []string{constants.CacheTagEmployees}, func(ctx context.Context) ([]models.Profile, error) {
		list, err := s.profiles.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		if list == nil {
			list = []models.Profile{}
		}
		return list, nil
	})
}
