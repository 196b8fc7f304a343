package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tuanasish/leave-request/internal/config"
	"github.com/tuanasish/leave-request/internal/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 启动模式：all 同时运行 API 与通知 worker
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

const defaultShutdownTimeout = 10 * time.Second

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	DB              *gorm.DB
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// ParseMode 校验命令行传入的启动模式，空值视为 all
func ParseMode(raw string) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	switch mode {
	case "":
		return ModeAll, nil
	case ModeAll, ModeAPI, ModeWorker:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected all, api or worker)", raw)
	}
}

func servesHTTP(mode string) bool {
	return mode == ModeAll || mode == ModeAPI
}

// runsNotifications 是否运行短信通知与提醒扫描
func runsNotifications(mode string) bool {
	return mode == ModeAll || mode == ModeWorker
}

func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	if mode, err := ParseMode(opts.Mode); err == nil {
		opts.Mode = mode
	}
	return opts
}
