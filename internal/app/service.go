package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"time"

	"go.uber.org/zap"
)

// Service 可启停的后台服务（HTTP、队列消费、提醒扫描）
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Runner 服务运行器：任一服务退出即整体停止
type Runner struct {
	services []Service
}

// NewRunner 创建服务运行器
func NewRunner(services ...Service) *Runner {
	return &Runner{services: services}
}

// Services 已注册的服务
func (r *Runner) Services() []Service {
	if r == nil {
		return nil
	}
	return r.services
}

// RunWithOptions 运行服务并处理系统信号
func RunWithOptions(runner *Runner, opts Options) error {
	if runner == nil {
		return errors.New("runner is nil")
	}
	opts = normalizeOptions(opts)
	ctx := context.Background()
	if len(opts.Signals) > 0 {
		var cancel context.CancelFunc
		ctx, cancel = signal.NotifyContext(ctx, opts.Signals...)
		defer cancel()
	}
	return runner.Run(ctx, opts.ShutdownTimeout, opts.Logger)
}

type serviceExit struct {
	name string
	err  error
}

// Run 启动全部服务，ctx 取消或任一服务退出后按注册逆序停止
func (r *Runner) Run(ctx context.Context, stopTimeout time.Duration, log *zap.SugaredLogger) error {
	if r == nil || len(r.services) == 0 {
		return errors.New("no services to run")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	for _, svc := range r.services {
		if svc == nil {
			return errors.New("service is nil")
		}
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	exits := make(chan serviceExit, len(r.services))
	for _, svc := range r.services {
		go func(svc Service) {
			log.Infow("service_start", "service", svc.Name())
			err := svc.Start(ctx)
			log.Infow("service_exit", "service", svc.Name(), "error", err)
			exits <- serviceExit{name: svc.Name(), err: err}
		}(svc)
	}

	var runErr error
	select {
	case <-ctx.Done():
	case exit := <-exits:
		if exit.err != nil {
			runErr = fmt.Errorf("%s: %w", exit.name, exit.err)
		}
	}
	cancel()

	if stopTimeout <= 0 {
		stopTimeout = 10 * time.Second
	}
	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	for i := len(r.services) - 1; i >= 0; i-- {
		svc := r.services[i]
		if err := svc.Stop(stopCtx); err != nil {
			log.Errorw("service_stop_failed", "service", svc.Name(), "error", err)
		}
	}
	return runErr
}
