package admin

import (
	"github.com/tuanasish/leave-request/internal/http/handlers/shared"
	"github.com/tuanasish/leave-request/internal/http/response"
	"github.com/tuanasish/leave-request/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return shared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	shared.RespondError(c, code, key, err)
}

func respondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	shared.RespondErrorWithMsg(c, code, msg, err)
}

var reviewErrorRules = []shared.MappedError{
	{Target: service.ErrLeaveStatusInvalid, Code: response.CodeBadRequest, Key: "error.leave_status_invalid"},
	{Target: service.ErrLeaveNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
	{Target: service.ErrLeaveNotPending, Code: response.CodeBadRequest, Key: "error.leave_not_pending"},
}

var settingErrorRules = []shared.MappedError{
	{Target: service.ErrSettingNotFound, Code: response.CodeNotFound, Key: "error.setting_not_found"},
	{Target: service.ErrSettingValueInvalid, Code: response.CodeBadRequest, Key: "error.setting_value_invalid"},
}
