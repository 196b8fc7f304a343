package admin

import (
	"encoding/json"

	"github.com/tuanasish/leave-request/internal/http/handlers/shared"
	"github.com/tuanasish/leave-request/internal/http/response"
	"github.com/tuanasish/leave-request/internal/i18n"

	"github.com/gin-gonic/gin"
)

// ListSettings 全部设置项
func (h *Handler) ListSettings(c *gin.Context) {
	settings, err := h.SettingService.List(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithData(c, settings)
}

// UpdateSettingRequest 更新设置请求
type UpdateSettingRequest struct {
	Value json.RawMessage `json:"value" binding:"required"`
}

// UpdateSetting 更新单个设置项
func (h *Handler) UpdateSetting(c *gin.Context) {
	var req UpdateSettingRequest
	if !shared.BindJSON(c, &req, nil) {
		return
	}
	setting, err := h.SettingService.Update(c.Request.Context(), c.Param("key"), req.Value)
	if err != nil {
		shared.RespondMappedError(c, err, settingErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.setting_updated"), setting)
}
