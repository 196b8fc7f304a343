package app

import (
	"errors"

	"github.com/tuanasish/leave-request/internal/config"
	"github.com/tuanasish/leave-request/internal/logger"
	"github.com/tuanasish/leave-request/internal/provider"
	"github.com/tuanasish/leave-request/internal/router"
	"github.com/tuanasish/leave-request/internal/worker"

	"gorm.io/gorm"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, db *gorm.DB, mode string) (*Runner, *provider.Container, error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}
	if db == nil {
		return nil, nil, errors.New("database is nil")
	}
	mode, err := ParseMode(mode)
	if err != nil {
		return nil, nil, err
	}

	container := provider.NewContainer(cfg, db)

	var services []Service

	// 初始化 HTTP 服务
	if servesHTTP(mode) {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		httpService := NewHTTPService(addr, engine)
		services = append(services, httpService)
	}

	// 初始化 Worker 服务；未启用队列时只保留提醒扫描
	if runsNotifications(mode) {
		interval := worker.ReminderScanInterval(cfg.Notify)
		if cfg.Queue.Enabled {
			consumer := worker.NewConsumer(container)
			workerService, err := worker.NewService(&cfg.Queue, consumer, interval)
			if err != nil {
				container.Close()
				return nil, nil, err
			}
			services = append(services, workerService)
		} else {
			logger.Infow("app_queue_disabled_reminder_only", "interval", interval.String())
			reminderService, err := worker.NewReminderService(container.NotificationService, interval)
			if err != nil {
				container.Close()
				return nil, nil, err
			}
			services = append(services, reminderService)
		}
	}

	if len(services) == 0 {
		container.Close()
		return nil, nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), container, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, container, err := BuildRunner(opts.Config, opts.DB, opts.Mode)
	if err != nil {
		return err
	}
	defer container.Close()

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
