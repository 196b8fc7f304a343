package public

import (
	"errors"

	"github.com/tuanasish/leave-request/internal/http/handlers/shared"
	"github.com/tuanasish/leave-request/internal/http/response"
	"github.com/tuanasish/leave-request/internal/i18n"
	"github.com/tuanasish/leave-request/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateLeaveRequest 创建请假申请请求
type CreateLeaveRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

// CreateLeaveRequest 提交请假申请
func (h *Handler) CreateLeaveRequest(c *gin.Context) {
	userID, ok := shared.GetSessionUserID(c)
	if !ok {
		return
	}
	var req CreateLeaveRequest
	if !shared.BindJSON(c, &req, nil) {
		return
	}

	leave, err := h.LeaveRequestService.Create(c.Request.Context(), userID, service.CreateLeaveInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	})
	if err != nil {
		respondLeaveError(c, err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.leave_created"), leave)
}

// ListLeaveRequests 当前用户的请假申请
func (h *Handler) ListLeaveRequests(c *gin.Context) {
	userID, ok := shared.GetSessionUserID(c)
	if !ok {
		return
	}
	items, err := h.LeaveRequestService.List(c.Request.Context(), userID)
	if err != nil {
		respondLeaveError(c, err)
		return
	}
	response.SuccessWithData(c, items)
}

// GetLeaveRequest 查看单个请假申请
func (h *Handler) GetLeaveRequest(c *gin.Context) {
	userID, ok := shared.GetSessionUserID(c)
	if !ok {
		return
	}
	leave, err := h.LeaveRequestService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondLeaveError(c, err)
		return
	}
	response.SuccessWithData(c, leave)
}

// CancelLeaveRequest 撤回待审批的请假申请
func (h *Handler) CancelLeaveRequest(c *gin.Context) {
	userID, ok := shared.GetSessionUserID(c)
	if !ok {
		return
	}
	if err := h.LeaveRequestService.Cancel(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondLeaveError(c, err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.leave_cancelled"), nil)
}

// GetDashboardStats 员工首页统计
func (h *Handler) GetDashboardStats(c *gin.Context) {
	userID, ok := shared.GetSessionUserID(c)
	if !ok {
		return
	}
	stats, err := h.LeaveRequestService.Stats(c.Request.Context(), userID)
	if err != nil {
		respondLeaveError(c, err)
		return
	}
	response.SuccessWithData(c, stats)
}

// GetMe 当前用户档案
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := shared.GetSessionUserID(c)
	if !ok {
		return
	}
	profile, err := h.SessionService.Profile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileMissing) {
			shared.RespondError(c, response.CodeNotFound, "error.not_found", nil)
			return
		}
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithData(c, profile)
}
