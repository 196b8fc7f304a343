package admin

import (
	"github.com/tuanasish/leave-request/internal/constants"
	"github.com/tuanasish/leave-request/internal/http/handlers/shared"
	"github.com/tuanasish/leave-request/internal/http/response"
	"github.com/tuanasish/leave-request/internal/i18n"
	"github.com/tuanasish/leave-request/internal/service"

	"github.com/gin-gonic/gin"
)

// ListLeaveRequests 全部请假申请（?status=&search=）
func (h *Handler) ListLeaveRequests(c *gin.Context) {
	items, err := h.AdminLeaveService.List(c.Request.Context(), c.Query("status"), c.Query("search"))
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithData(c, items)
}

// ReviewLeaveRequest 审批请求
type ReviewLeaveRequest struct {
	Status    string `json:"status" binding:"required,oneof=approved rejected"`
	AdminNote string `json:"admin_note"`
}

var reviewFieldKeys = shared.FieldErrorKeys{
	"Status": "error.leave_status_invalid",
}

// ReviewLeaveRequest 审批请假申请
func (h *Handler) ReviewLeaveRequest(c *gin.Context) {
	reviewerID, ok := shared.GetSessionUserID(c)
	if !ok {
		return
	}
	var req ReviewLeaveRequest
	if !shared.BindJSON(c, &req, reviewFieldKeys) {
		return
	}

	leave, err := h.AdminLeaveService.Review(c.Request.Context(), reviewerID, c.Param("id"), service.ReviewLeaveInput{
		Status:    req.Status,
		AdminNote: req.AdminNote,
	})
	if err != nil {
		shared.RespondMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.internal")
		return
	}

	messageKey := "message.leave_rejected"
	if leave != nil && leave.Status == constants.LeaveStatusApproved {
		messageKey = "message.leave_approved"
	}
	requestLog(c).Infow("admin_leave_review_done", "leave_request_id", c.Param("id"), "reviewer_id", reviewerID, "status", req.Status)
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), messageKey), leave)
}

// GetStats 管理端首页统计
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.AdminLeaveService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithData(c, stats)
}

// ListEmployees 员工列表
func (h *Handler) ListEmployees(c *gin.Context) {
	profiles, err := h.AdminLeaveService.Employees(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithData(c, profiles)
}
