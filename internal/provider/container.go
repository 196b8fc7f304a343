package provider

import (
	"github.com/tuanasish/leave-request/internal/authz"
	"github.com/tuanasish/leave-request/internal/cache"
	"github.com/tuanasish/leave-request/internal/config"
	"github.com/tuanasish/leave-request/internal/constants"
	"github.com/tuanasish/leave-request/internal/logger"
	"github.com/tuanasish/leave-request/internal/queue"
	"github.com/tuanasish/leave-request/internal/repository"
	"github.com/tuanasish/leave-request/internal/service"
	"github.com/tuanasish/leave-request/internal/sms"
	"github.com/tuanasish/leave-request/internal/supabase"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	Cache       *cache.Store
	QueueClient *queue.Client
	SMSSender   sms.Sender

	// Repositories
	ProfileRepo         repository.ProfileRepository
	OTPCodeRepo         repository.OTPCodeRepository
	LeaveRequestRepo    repository.LeaveRequestRepository
	SettingRepo         repository.SettingRepository
	NotificationLogRepo repository.NotificationLogRepository

	// Services
	AuthzService        *authz.Service
	EmailService        *service.EmailService
	CaptchaService      *service.CaptchaService
	SettingService      *service.SettingService
	SessionService      *service.SessionService
	OTPService          *service.OTPService
	LeaveRequestService *service.LeaveRequestService
	AdminLeaveService   *service.AdminLeaveService
	NotificationService *service.NotificationService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config, db *gorm.DB) *Container {
	// 初始化缓存
	store := cache.New(&cfg.Redis)

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		Cache:       store,
		QueueClient: queueClient,
		SMSSender:   sms.NewSender(cfg.SMS),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	c.ProfileRepo = repository.NewProfileRepository(c.DB)
	c.OTPCodeRepo = repository.NewOTPCodeRepository(c.DB)
	c.LeaveRequestRepo = repository.NewLeaveRequestRepository(c.DB)
	c.SettingRepo = repository.NewSettingRepository(c.DB)
	c.NotificationLogRepo = repository.NewNotificationLogRepository(c.DB)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	loc := c.Config.Server.Location()

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.SettingService = service.NewSettingService(c.SettingRepo, c.Cache)
	c.SessionService = service.NewSessionService(c.Config.Auth, c.ProfileRepo, c.Cache)
	c.NotificationService = service.NewNotificationService(c.LeaveRequestRepo, c.SettingService, c.SMSSender, c.QueueClient, c.NotificationLogRepo, loc)
	c.LeaveRequestService = service.NewLeaveRequestService(c.LeaveRequestRepo, c.Cache)
	c.AdminLeaveService = service.NewAdminLeaveService(c.LeaveRequestRepo, c.ProfileRepo, c.Cache, c.NotificationService, loc)

	dispatcher := service.NewOTPDispatcher(c.SMSSender, c.EmailService, c.NotificationLogRepo)
	c.OTPService = service.NewOTPService(c.Config.OTP, c.OTPCodeRepo, c.ProfileRepo, dispatcher, c.newAuthConfirmer(), c.Cache)
}

// newAuthConfirmer 按认证后端选择注册确认方式，外部后端未配置时退回本地确认
func (c *Container) newAuthConfirmer() service.AuthConfirmer {
	if c.Config.Auth.Provider != constants.AuthProviderSupabase {
		return service.NewLocalAuthConfirmer(c.ProfileRepo)
	}
	client, err := supabase.NewAdminClient(c.Config.Auth)
	if err != nil {
		logger.Warnw("provider_init_auth_admin_failed", "error", err, "fallback", constants.AuthProviderLocal)
		return service.NewLocalAuthConfirmer(c.ProfileRepo)
	}
	return client
}

// Close 释放外部连接
func (c *Container) Close() {
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := c.Cache.Close(); err != nil {
		logger.Warnw("provider_close_cache_failed", "error", err)
	}
}
