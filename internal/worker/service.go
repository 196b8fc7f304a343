package worker

import (
	"context"
	"errors"
	"time"

	"github.com/tuanasish/leave-request/internal/config"
	"github.com/tuanasish/leave-request/internal/logger"
	"github.com/tuanasish/leave-request/internal/queue"
	"github.com/tuanasish/leave-request/internal/service"

	"github.com/hibiken/asynq"
)

const (
	defaultReminderScanInterval = time.Hour
)

// ReminderScanInterval 休假提醒扫描间隔
func ReminderScanInterval(cfg config.NotifyConfig) time.Duration {
	if cfg.ReminderScanMinutes <= 0 {
		return defaultReminderScanInterval
	}
	return time.Duration(cfg.ReminderScanMinutes) * time.Minute
}

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
	interval time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer, reminderInterval time.Duration) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
		interval: reminderInterval,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.NotificationService != nil {
		go runReminderLoop(ctx, s.consumer.NotificationService, s.interval)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// ReminderService 未启用队列时只运行休假提醒扫描，短信同步发送
type ReminderService struct {
	notifications *service.NotificationService
	interval      time.Duration
}

// NewReminderService 创建提醒扫描服务
func NewReminderService(notifications *service.NotificationService, interval time.Duration) (*ReminderService, error) {
	if notifications == nil {
		return nil, errors.New("notification service is nil")
	}
	return &ReminderService{notifications: notifications, interval: interval}, nil
}

// Name 服务名称
func (s *ReminderService) Name() string {
	return "reminder"
}

// Start 阻塞运行直到 ctx 取消
func (s *ReminderService) Start(ctx context.Context) error {
	if s == nil || s.notifications == nil {
		return errors.New("reminder service not initialized")
	}
	runReminderLoop(ctx, s.notifications, s.interval)
	return nil
}

// Stop 停止服务
func (s *ReminderService) Stop(ctx context.Context) error {
	return nil
}

func runReminderLoop(ctx context.Context, notifications *service.NotificationService, interval time.Duration) {
	if notifications == nil {
		return
	}
	if interval <= 0 {
		interval = defaultReminderScanInterval
	}
	runOnce := func() {
		processed, err := notifications.SendDueReminders(ctx)
		if err != nil {
			logger.Warnw("worker_leave_reminder_scan_failed", "error", err)
			return
		}
		if processed > 0 {
			logger.Infow("worker_leave_reminder_scan_done", "processed", processed)
		}
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
