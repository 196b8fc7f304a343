package admin

import (
	"errors"
	"strings"

	"github.com/tuanasish/leave-request/internal/http/handlers/shared"
	"github.com/tuanasish/leave-request/internal/http/response"
	"github.com/tuanasish/leave-request/internal/repository"
	"github.com/tuanasish/leave-request/internal/service"
	"github.com/tuanasish/leave-request/internal/sms"

	"github.com/gin-gonic/gin"
)

// ListNotificationLogs 通知发送审计
func (h *Handler) ListNotificationLogs(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	logs, total, err := h.NotificationService.ListLogs(c.Request.Context(), repository.NotificationLogListFilter{
		Page:     page,
		PageSize: pageSize,
		Channel:  strings.TrimSpace(c.Query("channel")),
		Status:   strings.TrimSpace(c.Query("status")),
		Type:     strings.TrimSpace(c.Query("type")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, logs, response.NewPagination(page, pageSize, total))
}

// GetSMSAccount 短信账户信息
func (h *Handler) GetSMSAccount(c *gin.Context) {
	info, err := h.NotificationService.SMSAccountInfo(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSMSAccountUnsupported):
			respondError(c, response.CodeBadRequest, "error.sms_account_unsupported", nil)
		case errors.Is(err, sms.ErrNotConfigured):
			respondError(c, response.CodeBadRequest, "error.sms_not_configured", nil)
		default:
			respondErrorWithMsg(c, response.CodeBadRequest, sms.UserMessage(err), err)
		}
		return
	}
	response.SuccessWithData(c, info)
}
