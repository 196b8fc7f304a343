package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tuanasish/leave-request/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
	Auth     AuthConfig     `mapstructure:"auth"`
	OTP      OTPConfig      `mapstructure:"otp"`
	SMS      SMSConfig      `mapstructure:"sms"`
	Email    EmailConfig    `mapstructure:"email"`
	Captcha  CaptchaConfig  `mapstructure:"captcha"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Web      WebConfig      `mapstructure:"web"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Mode     string `mapstructure:"mode"`     // debug / release
	Timezone string `mapstructure:"timezone"` // 计算“今天”使用的时区
}

// Location 返回业务时区，解析失败回退到 UTC
func (c ServerConfig) Location() *time.Location {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warnw("config_timezone_invalid", "timezone", name, "error", err)
		return time.UTC
	}
	return loc
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
	Stdout     bool   `mapstructure:"stdout"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
		Stdout:     c.Stdout,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // sqlite / postgres / mysql
	DSN    string             `mapstructure:"dsn"`
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	SendOTPRateLimit   RateLimitConfig `mapstructure:"send_otp_rate_limit"`
	VerifyOTPRateLimit RateLimitConfig `mapstructure:"verify_otp_rate_limit"`
}

// RateLimitConfig 固定窗口限流配置
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// AuthConfig 会话与外部认证后端配置
type AuthConfig struct {
	Provider       string `mapstructure:"provider"` // supabase / local
	JWTSecret      string `mapstructure:"jwt_secret"`
	AccessCookie   string `mapstructure:"access_cookie"`
	SupabaseURL    string `mapstructure:"supabase_url"`
	ServiceRoleKey string `mapstructure:"service_role_key"`
	TimeoutMS      int    `mapstructure:"timeout_ms"`
	GateCacheTTL   int    `mapstructure:"gate_cache_ttl_seconds"`
}

// OTPConfig 一次性验证码配置
type OTPConfig struct {
	ExpireMinutes         int  `mapstructure:"expire_minutes"`
	ResendIntervalSeconds int  `mapstructure:"resend_interval_seconds"`
	MaxAttempts           int  `mapstructure:"max_attempts"`
	Length                int  `mapstructure:"length"`
	DevEcho               bool `mapstructure:"dev_echo"`
}

// SMSConfig 短信网关配置
type SMSConfig struct {
	Provider string         `mapstructure:"provider"` // speedsms / twilio
	SpeedSMS SpeedSMSConfig `mapstructure:"speedsms"`
	Twilio   TwilioConfig   `mapstructure:"twilio"`
}

// SpeedSMSConfig SpeedSMS 配置
type SpeedSMSConfig struct {
	AccessToken string `mapstructure:"access_token"`
	Sender      string `mapstructure:"sender"`
	SMSType     int    `mapstructure:"sms_type"`
	BaseURL     string `mapstructure:"base_url"`
	TimeoutMS   int    `mapstructure:"timeout_ms"`
}

// TwilioConfig Twilio 配置
type TwilioConfig struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	From       string `mapstructure:"from"`
}

// EmailConfig 邮件服务配置
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
	UseTLS   bool   `mapstructure:"use_tls"`
	UseSSL   bool   `mapstructure:"use_ssl"`
}

// CaptchaConfig 验证码配置
type CaptchaConfig struct {
	Provider string             `mapstructure:"provider"` // none / image
	Scenes   CaptchaSceneConfig `mapstructure:"scenes"`
	Image    CaptchaImageConfig `mapstructure:"image"`
}

// CaptchaSceneConfig 验证码场景开关
type CaptchaSceneConfig struct {
	SendOTP bool `mapstructure:"send_otp"`
}

// CaptchaImageConfig 图片验证码配置
type CaptchaImageConfig struct {
	Length        int `mapstructure:"length"`
	Width         int `mapstructure:"width"`
	Height        int `mapstructure:"height"`
	NoiseCount    int `mapstructure:"noise_count"`
	ShowLine      int `mapstructure:"show_line"`
	ExpireSeconds int `mapstructure:"expire_seconds"`
	MaxStore      int `mapstructure:"max_store"`
}

// NotifyConfig 通知配置
type NotifyConfig struct {
	CompanyName         string `mapstructure:"company_name"`
	ReminderScanMinutes int    `mapstructure:"reminder_scan_minutes"`
	BootstrapAdminEmail string `mapstructure:"bootstrap_admin_email"`
}

// WebConfig 前端静态资源
type WebConfig struct {
	StaticDir string `mapstructure:"static_dir"`
}

// Load 从 .env 与 config.yml 加载配置
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		logger.Infow("dotenv_loaded", "file", ".env")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("./etc")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // otp.dev_echo -> OTP_DEV_ECHO
	bindLegacyEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}

	return &cfg
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.timezone", "Asia/Ho_Chi_Minh")
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.filename", "app.log")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 7)
	viper.SetDefault("log.max_age_days", 30)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("log.stdout", false)
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "./db/leave_request.db")
	viper.SetDefault("database.pool.max_open_conns", 1)
	viper.SetDefault("database.pool.max_idle_conns", 1)
	viper.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	viper.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "127.0.0.1")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.prefix", "lr")
	viper.SetDefault("queue.enabled", true)
	viper.SetDefault("queue.host", "127.0.0.1")
	viper.SetDefault("queue.port", 6379)
	viper.SetDefault("queue.password", "")
	viper.SetDefault("queue.db", 1)
	viper.SetDefault("queue.concurrency", 5)
	viper.SetDefault("queue.queues", map[string]int{
		"default":  10,
		"critical": 5,
	})
	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	viper.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Accept-Language",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
	})
	viper.SetDefault("cors.allow_credentials", true)
	viper.SetDefault("cors.max_age", 600)
	viper.SetDefault("security.send_otp_rate_limit.window_seconds", 600)
	viper.SetDefault("security.send_otp_rate_limit.max_requests", 5)
	viper.SetDefault("security.verify_otp_rate_limit.window_seconds", 300)
	viper.SetDefault("security.verify_otp_rate_limit.max_requests", 20)
	viper.SetDefault("auth.provider", "supabase")
	viper.SetDefault("auth.jwt_secret", "change-me-in-production")
	viper.SetDefault("auth.access_cookie", "sb-access-token")
	viper.SetDefault("auth.supabase_url", "")
	viper.SetDefault("auth.service_role_key", "")
	viper.SetDefault("auth.timeout_ms", 5000)
	viper.SetDefault("auth.gate_cache_ttl_seconds", 60)
	viper.SetDefault("otp.expire_minutes", 5)
	viper.SetDefault("otp.resend_interval_seconds", 60)
	viper.SetDefault("otp.max_attempts", 5)
	viper.SetDefault("otp.length", 6)
	viper.SetDefault("otp.dev_echo", false)
	viper.SetDefault("sms.provider", "speedsms")
	viper.SetDefault("sms.speedsms.access_token", "")
	viper.SetDefault("sms.speedsms.sender", "")
	viper.SetDefault("sms.speedsms.sms_type", 5)
	viper.SetDefault("sms.speedsms.base_url", "https://api.speedsms.vn")
	viper.SetDefault("sms.speedsms.timeout_ms", 10000)
	viper.SetDefault("sms.twilio.account_sid", "")
	viper.SetDefault("sms.twilio.auth_token", "")
	viper.SetDefault("sms.twilio.from", "")
	viper.SetDefault("email.enabled", false)
	viper.SetDefault("email.host", "")
	viper.SetDefault("email.port", 587)
	viper.SetDefault("email.username", "")
	viper.SetDefault("email.password", "")
	viper.SetDefault("email.from", "")
	viper.SetDefault("email.from_name", "DKNgayNghi")
	viper.SetDefault("email.use_tls", true)
	viper.SetDefault("email.use_ssl", false)
	viper.SetDefault("captcha.provider", "none")
	viper.SetDefault("captcha.scenes.send_otp", false)
	viper.SetDefault("captcha.image.length", 5)
	viper.SetDefault("captcha.image.width", 240)
	viper.SetDefault("captcha.image.height", 80)
	viper.SetDefault("captcha.image.noise_count", 2)
	viper.SetDefault("captcha.image.show_line", 2)
	viper.SetDefault("captcha.image.expire_seconds", 300)
	viper.SetDefault("captcha.image.max_store", 10240)
	viper.SetDefault("notify.company_name", "DKNgayNghi")
	viper.SetDefault("notify.reminder_scan_minutes", 60)
	viper.SetDefault("notify.bootstrap_admin_email", "")
	viper.SetDefault("web.static_dir", "")
}

// bindLegacyEnv 兼容部署环境里沿用的旧变量名
func bindLegacyEnv() {
	bindings := map[string][]string{
		"sms.speedsms.access_token":     {"SPEEDSMS_ACCESS_TOKEN"},
		"sms.speedsms.sender":           {"SPEEDSMS_SENDER"},
		"sms.speedsms.sms_type":         {"SPEEDSMS_SMS_TYPE"},
		"auth.supabase_url":             {"NEXT_PUBLIC_SUPABASE_URL", "SUPABASE_URL"},
		"auth.service_role_key":         {"SUPABASE_SERVICE_ROLE_KEY"},
		"auth.jwt_secret":               {"SUPABASE_JWT_SECRET"},
		"database.dsn":                  {"DATABASE_URL"},
		"notify.bootstrap_admin_email":  {"LR_BOOTSTRAP_ADMIN_EMAIL"},
	}
	for key, envs := range bindings {
		args := append([]string{key, strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, envs...)
		if err := viper.BindEnv(args...); err != nil {
			logger.Warnw("config_env_bind_failed", "key", key, "error", err)
		}
	}
}
