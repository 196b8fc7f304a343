package constants

// OTP 类型常量
const (
	OTPTypeRegister      = "register"
	OTPTypeResetPassword = "reset_password"
	OTPTypeLogin         = "login"
)

// OTP 发送渠道常量
const (
	OTPChannelEmail = "email"
	OTPChannelSMS   = "sms"
)

// 请假申请状态常量
const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

// 请假列表筛选：不过滤状态
const LeaveStatusFilterAll = "all"

// 用户角色常量
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// 设置项键名
const (
	SettingKeyReminderDaysBefore = "reminder_days_before"
	SettingKeySMSEnabled         = "sms_enabled"
	SettingKeyCompanyName        = "company_name"
)

// 默认公司名称
const DefaultCompanyName = "DKNgayNghi"

// 通知渠道常量
const (
	NotificationChannelSMS   = "sms"
	NotificationChannelEmail = "email"
)

// 通知类型常量
const (
	NotificationTypeOTP       = "otp"
	NotificationTypeApproval  = "approval"
	NotificationTypeRejection = "rejection"
	NotificationTypeReminder  = "reminder"
)

// 通知状态常量
const (
	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
)

// 缓存标签
const (
	CacheTagLeaveRequests = "leave-requests"
	CacheTagAdminStats    = "admin-stats"
	CacheTagEmployees     = "employees"
	CacheTagSettings      = "settings"
)

// 外部认证后端
const (
	AuthProviderSupabase = "supabase"
	AuthProviderLocal    = "local"
)

// 短信服务商
const (
	SMSProviderSpeedSMS = "speedsms"
	SMSProviderTwilio   = "twilio"
)

// 验证码场景
const (
	CaptchaSceneSendOTP = "send_otp"
)

// 验证码提供方
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskLeaveStatusSMS   = "leave:status_sms"
	TaskLeaveReminderSMS = "leave:reminder_sms"
)
