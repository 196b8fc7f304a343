package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

const (
	httpReadHeaderTimeout = 10 * time.Second
	httpIdleTimeout       = 120 * time.Second
)

// HTTPService HTTP 服务封装
type HTTPService struct {
	server *http.Server
}

// NewHTTPService 创建 HTTP 服务
func NewHTTPService(addr string, handler http.Handler) *HTTPService {
	return &HTTPService{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: httpReadHeaderTimeout,
			IdleTimeout:       httpIdleTimeout,
		},
	}
}

// Name 服务名称
func (s *HTTPService) Name() string {
	return "http"
}

// Addr 监听地址
func (s *HTTPService) Addr() string {
	if s == nil || s.server == nil {
		return ""
	}
	return s.server.Addr
}

// Start 启动服务，请求上下文继承 ctx
func (s *HTTPService) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	s.server.BaseContext = func(net.Listener) context.Context { return ctx }
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 等待进行中的请求结束
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
