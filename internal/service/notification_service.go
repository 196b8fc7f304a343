package service

import (
	"context"
	"strings"
	"time"

	"github.com/tuanasish/leave-request/internal/constants"
	"github.com/tuanasish/leave-request/internal/logger"
	"github.com/tuanasish/leave-request/internal/models"
	"github.com/tuanasish/leave-request/internal/queue"
	"github.com/tuanasish/leave-request/internal/repository"
	"github.com/tuanasish/leave-request/internal/sms"
)

const reminderBatchSize = 200

// notificationAudit 发送审计，写入失败只记录日志
type notificationAudit struct {
	repo repository.NotificationLogRepository
}

func newNotificationAudit(repo repository.NotificationLogRepository) *notificationAudit {
	return &notificationAudit{repo: repo}
}

func (a *notificationAudit) record(ctx context.Context, entry *models.NotificationLog) {
	if a == nil || a.repo == nil || entry == nil {
		return
	}
	if err := a.repo.Create(ctx, entry); err != nil {
		logger.Warnw("notification_log_write_failed",
			"channel", entry.Channel,
			"type", entry.Type,
			"recipient", logger.Mask(entry.Recipient),
			"error", err,
		)
	}
}

func (a *notificationAudit) recordSMS(ctx context.Context, phone, content, notifyType string, leaveRequestID *string, result *sms.Result, sendErr error) {
	entry := &models.NotificationLog{
		Channel:        constants.NotificationChannelSMS,
		Recipient:      phone,
		Message:        content,
		Type:           notifyType,
		LeaveRequestID: leaveRequestID,
	}
	if sendErr != nil {
		entry.Status = constants.NotificationStatusFailed
		entry.ErrorMessage = sms.UserMessage(sendErr)
		if raw := sms.RawResponse(sendErr); raw != nil {
			entry.ProviderResponse = models.JSON(raw)
		}
	} else {
		now := time.Now()
		entry.Status = constants.NotificationStatusSent
		entry.SentAt = &now
		if result != nil && result.Raw != nil {
			entry.ProviderResponse = models.JSON(result.Raw)
		}
	}
	a.record(ctx, entry)
}

// NotificationService 请假相关短信通知
type NotificationService struct {
	leaves   repository.LeaveRequestRepository
	settings *SettingService
	sender   sms.Sender
	queue    *queue.Client
	audit    *notificationAudit
	loc      *time.Location
	now      func() time.Time
}

// NewNotificationService 创建通知服务
func NewNotificationService(
	leaves repository.LeaveRequestRepository,
	settings *SettingService,
	sender sms.Sender,
	queueClient *queue.Client,
	logs repository.NotificationLogRepository,
	loc *time.Location,
) *NotificationService {
	if loc == nil {
		loc = time.UTC
	}
	return &NotificationService{
		leaves:   leaves,
		settings: settings,
		sender:   sender,
		queue:    queueClient,
		audit:    newNotificationAudit(logs),
		loc:      loc,
		now:      time.Now,
	}
}

// QueueLeaveStatus 审批后通知申请人；队列不可用时同步发送，失败只记录日志
func (s *NotificationService) QueueLeaveStatus(ctx context.Context, leaveRequestID string) {
	if s == nil {
		return
	}
	if s.queue.Enabled() {
		err := s.queue.EnqueueLeaveStatusSMS(queue.LeaveStatusSMSPayload{LeaveRequestID: leaveRequestID})
		if err == nil {
			return
		}
		logger.Warnw("leave_status_sms_enqueue_failed", "leave_request_id", leaveRequestID, "error", err)
	}
	if err := s.NotifyLeaveStatus(ctx, leaveRequestID); err != nil {
		logger.Warnw("leave_status_sms_send_failed", "leave_request_id", leaveRequestID, "error", err)
	}
}

// NotifyLeaveStatus 发送审批结果短信
func (s *NotificationService) NotifyLeaveStatus(ctx context.Context, leaveRequestID string) error {
	leave, err := s.leaves.GetByID(ctx, leaveRequestID)
	if err != nil {
		return err
	}
	if leave == nil {
		logger.Debugw("leave_status_sms_skip_not_found", "leave_request_id", leaveRequestID)
		return nil
	}
	var notifyType string
	switch leave.Status {
	case constants.LeaveStatusApproved:
		notifyType = constants.NotificationTypeApproval
	case constants.LeaveStatusRejected:
		notifyType = constants.NotificationTypeRejection
	default:
		logger.Debugw("leave_status_sms_skip_status", "leave_request_id", leave.ID, "status", leave.Status)
		return nil
	}
	settings, err := s.settings.NotificationSettings(ctx)
	if err != nil {
		return err
	}
	if !settings.SMSEnabled {
		logger.Debugw("leave_status_sms_skip_disabled", "leave_request_id", leave.ID)
		return nil
	}
	phone := ownerPhone(leave)
	if phone == "" {
		logger.Debugw("leave_status_sms_skip_no_phone", "leave_request_id", leave.ID)
		return nil
	}
	note := ""
	if leave.AdminNote != nil {
		note = strings.TrimSpace(*leave.AdminNote)
	}
	dates := sms.FormatDateRange(leave.StartDate.Time, leave.EndDate.Time)
	content := sms.LeaveStatusMessage(dates, leave.Status, note, settings.CompanyName)
	return s.send(ctx, leave.ID, phone, content, notifyType)
}

// SendDueReminders 扫描即将开始的已批准申请并发送提醒，返回处理条数
func (s *NotificationService) SendDueReminders(ctx context.Context) (int, error) {
	settings, err := s.settings.NotificationSettings(ctx)
	if err != nil {
		return 0, err
	}
	if !settings.SMSEnabled {
		return 0, nil
	}
	today := models.NewDate(s.now().In(s.loc))
	until := models.NewDate(today.AddDate(0, 0, settings.ReminderDaysBefore))
	due, err := s.leaves.ListDueReminders(ctx, today, until, reminderBatchSize)
	if err != nil {
		return 0, err
	}
	processed := 0
	for i := range due {
		leave := due[i]
		claimed, err := s.leaves.MarkReminderSent(ctx, leave.ID)
		if err != nil {
			logger.Warnw("leave_reminder_mark_failed", "leave_request_id", leave.ID, "error", err)
			continue
		}
		if !claimed {
			continue
		}
		if s.queue.Enabled() {
			err := s.queue.EnqueueLeaveReminderSMS(queue.LeaveReminderSMSPayload{LeaveRequestID: leave.ID})
			if err == nil {
				processed++
				continue
			}
			logger.Warnw("leave_reminder_enqueue_failed", "leave_request_id", leave.ID, "error", err)
		}
		if err := s.sendReminder(ctx, &leave, settings.CompanyName); err != nil {
			logger.Warnw("leave_reminder_send_failed", "leave_request_id", leave.ID, "error", err)
			if releaseErr := s.leaves.ReleaseReminder(ctx, leave.ID); releaseErr != nil {
				logger.Warnw("leave_reminder_release_failed", "leave_request_id", leave.ID, "error", releaseErr)
			}
			continue
		}
		processed++
	}
	return processed, nil
}

// SendReminder 发送单条休假提醒
func (s *NotificationService) SendReminder(ctx context.Context, leaveRequestID string) error {
	leave, err := s.leaves.GetByID(ctx, leaveRequestID)
	if err != nil {
		return err
	}
	if leave == nil || leave.Status != constants.LeaveStatusApproved {
		logger.Debugw("leave_reminder_skip", "leave_request_id", leaveRequestID)
		return nil
	}
	settings, err := s.settings.NotificationSettings(ctx)
	if err != nil {
		return err
	}
	return s.sendReminder(ctx, leave, settings.CompanyName)
}

func (s *NotificationService) sendReminder(ctx context.Context, leave *models.LeaveRequest, companyName string) error {
	phone := ownerPhone(leave)
	if phone == "" {
		logger.Debugw("leave_reminder_skip_no_phone", "leave_request_id", leave.ID)
		return nil
	}
	dates := sms.FormatDateRange(leave.StartDate.Time, leave.EndDate.Time)
	return s.send(ctx, leave.ID, phone, sms.LeaveReminderMessage(dates, companyName), constants.NotificationTypeReminder)
}

func (s *NotificationService) send(ctx context.Context, leaveRequestID, phone, content, notifyType string) error {
	if s.sender == nil {
		return sms.ErrNotConfigured
	}
	result, err := s.sender.Send(ctx, sms.Message{Phone: phone, Content: content, Kind: sms.KindBrandname})
	id := leaveRequestID
	s.audit.recordSMS(ctx, phone, content, notifyType, &id, result, err)
	if err != nil {
		return err
	}
	logger.Infow("leave_sms_sent", "leave_request_id", leaveRequestID, "type", notifyType, "provider", s.sender.Name())
	return nil
}

func ownerPhone(leave *models.LeaveRequest) string {
	if leave == nil || leave.Profile == nil {
		return ""
	}
	return strings.TrimSpace(leave.Profile.Phone)
}

// ListLogs 分页查询发送审计
func (s *NotificationService) ListLogs(ctx context.Context, filter repository.NotificationLogListFilter) ([]models.NotificationLog, int64, error) {
	if s.audit == nil || s.audit.repo == nil {
		return []models.NotificationLog{}, 0, nil
	}
	return s.audit.repo.List(ctx, filter)
}

type smsAccountInfoProvider interface {
	AccountInfo(ctx context.Context) (map[string]interface{}, error)
}

// SMSAccountInfo 查询短信账户信息（仅 SpeedSMS 支持）
func (s *NotificationService) SMSAccountInfo(ctx context.Context) (map[string]interface{}, error) {
	provider, ok := s.sender.(smsAccountInfoProvider)
	if !ok {
		return nil, ErrSMSAccountUnsupported
	}
	return provider.AccountInfo(ctx)
}
