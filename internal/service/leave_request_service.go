package service

import (
	"context"
	"strings"

	"github.com/tuanasish/leave-request/internal/cache"
	"github.com/tuanasish/leave-request/internal/constants"
	"github.com/tuanasish/leave-request/internal/logger"
	"github.com/tuanasish/leave-request/internal/models"
	"github.com/tuanasish/leave-request/internal/repository"
)

// CreateLeaveInput 创建请假申请参数
type CreateLeaveInput struct {
	StartDate string
	EndDate   string
	Reason    string
}

// UserLeaveStats 员工首页统计
type UserLeaveStats struct {
	TotalRequests    int64 `json:"totalRequests"`
	PendingRequests  int64 `json:"pendingRequests"`
	ApprovedRequests int64 `json:"approvedRequests"`
	RejectedRequests int64 `json:"rejectedRequests"`
}

// LeaveRequestService 员工请假申请服务
type LeaveRequestService struct {
	repo  repository.LeaveRequestRepository
	cache *cache.Store
}

// NewLeaveRequestService 创建请假申请服务
func NewLeaveRequestService(repo repository.LeaveRequestRepository, store *cache.Store) *LeaveRequestService {
	return &LeaveRequestService{repo: repo, cache: store}
}

// Create 提交请假申请，状态为待审批
func (s *LeaveRequestService) Create(ctx context.Context, userID string, input CreateLeaveInput) (*models.LeaveRequest, error) {
	start, err := models.ParseDate(input.StartDate)
	if err != nil {
		return nil, ErrLeaveDateInvalid
	}
	end, err := models.ParseDate(input.EndDate)
	if err != nil {
		return nil, ErrLeaveDateInvalid
	}
	if start.After(end) {
		return nil, ErrLeaveDateRangeInvalid
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, ErrLeaveReasonRequired
	}
	req := &models.LeaveRequest{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Reason:    reason,
		Status:    constants.LeaveStatusPending,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	logger.Infow("leave_request_created", "leave_request_id", req.ID, "user_id", userID)
	return req, nil
}

// List 当前用户的申请，最新在前
func (s *LeaveRequestService) List(ctx context.Context, userID string) ([]models.LeaveRequest, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.LeaveRequest{}
	}
	return list, nil
}

// Get 获取本人的申请
func (s *LeaveRequestService) Get(ctx context.Context, userID, id string) (*models.LeaveRequest, error) {
	req, err := s.repo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrLeaveNotFound
	}
	return req, nil
}

// Cancel 撤回本人待审批的申请
func (s *LeaveRequestService) Cancel(ctx context.Context, userID, id string) error {
	deleted, err := s.repo.DeletePendingByOwner(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrLeaveCancelNotAllowed
	}
	s.invalidate(ctx)
	logger.Infow("leave_request_cancelled", "leave_request_id", id, "user_id", userID)
	return nil
}

// Stats 当前用户按状态统计
func (s *LeaveRequestService) Stats(ctx context.Context, userID string) (*UserLeaveStats, error) {
	counts, err := s.repo.CountByUserGroupedStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := &UserLeaveStats{
		PendingRequests:  counts[constants.LeaveStatusPending],
		ApprovedRequests: counts[constants.LeaveStatusApproved],
		RejectedRequests: counts[constants.LeaveStatusRejected],
	}
	for _, n := range counts {
		stats.TotalRequests += n
	}
	return stats, nil
}

func (s *LeaveRequestService) invalidate(ctx context.Context) {
	s.cache.InvalidateTags(ctx, constants.CacheTagLeaveRequests, constants.CacheTagAdminStats)
}
