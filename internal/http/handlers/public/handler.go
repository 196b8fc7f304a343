package public

import "github.com/tuanasish/leave-request/internal/provider"

// Handler 前台接口处理器入口
// 说明：验证码接口无需登录，其余接口由会话中间件保护。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
