package service

import (
	"context"
	"time"

	"github.com/tuanasish/leave-request/internal/constants"
	"github.com/tuanasish/leave-request/internal/logger"
	"github.com/tuanasish/leave-request/internal/models"
	"github.com/tuanasish/leave-request/internal/repository"
	"github.com/tuanasish/leave-request/internal/sms"
)

// OTPDispatch 单次验证码投递参数
type OTPDispatch struct {
	Identifier    string
	Type          string
	Channel       string
	Code          string
	ExpireMinutes int
	Locale        string
}

// OTPDispatcher 验证码投递（短信 / 邮件）
type OTPDispatcher struct {
	sender sms.Sender
	email  *EmailService
	audit  *notificationAudit
}

// NewOTPDispatcher 创建投递器
func NewOTPDispatcher(sender sms.Sender, email *EmailService, logs repository.NotificationLogRepository) *OTPDispatcher {
	return &OTPDispatcher{
		sender: sender,
		email:  email,
		audit:  newNotificationAudit(logs),
	}
}

// Dispatch 按渠道发送验证码，失败时返回 OTPDispatchError
func (d *OTPDispatcher) Dispatch(ctx context.Context, input OTPDispatch) error {
	switch input.Channel {
	case constants.OTPChannelSMS:
		return d.dispatchSMS(ctx, input)
	case constants.OTPChannelEmail:
		return d.dispatchEmail(ctx, input)
	default:
		return ErrOTPMethodInvalid
	}
}

func (d *OTPDispatcher) dispatchSMS(ctx context.Context, input OTPDispatch) error {
	content := sms.OTPMessage(input.Code, input.ExpireMinutes)
	if d.sender == nil {
		return &OTPDispatchError{Message: sms.UserMessage(sms.ErrNotConfigured), Cause: sms.ErrNotConfigured}
	}
	result, err := d.sender.Send(ctx, sms.Message{
		Phone:   input.Identifier,
		Content: content,
		Kind:    sms.KindOTP,
	})
	d.audit.recordSMS(ctx, input.Identifier, content, constants.NotificationTypeOTP, nil, result, err)
	if err != nil {
		logger.Warnw("otp_sms_send_failed",
			"provider", d.sender.Name(),
			"identifier", logger.Mask(input.Identifier),
			"type", input.Type,
			"error", err,
		)
		return &OTPDispatchError{Message: sms.UserMessage(err), Cause: err}
	}
	return nil
}

func (d *OTPDispatcher) dispatchEmail(ctx context.Context, input OTPDispatch) error {
	if !d.email.Enabled() {
		// 未配置 SMTP 时邮件由认证后端发送
		logger.Infow("otp_email_delegated", "identifier", logger.Mask(input.Identifier), "type", input.Type)
		return nil
	}
	err := d.email.SendOTP(ctx, input.Identifier, input.Code, input.Type, input.ExpireMinutes, input.Locale)
	entry := &models.NotificationLog{
		Channel:   constants.NotificationChannelEmail,
		Recipient: input.Identifier,
		Message:   "otp:" + input.Type,
		Type:      constants.NotificationTypeOTP,
	}
	if err != nil {
		entry.Status = constants.NotificationStatusFailed
		entry.ErrorMessage = err.Error()
	} else {
		now := time.Now()
		entry.Status = constants.NotificationStatusSent
		entry.SentAt = &now
	}
	d.audit.record(ctx, entry)
	if err != nil {
		logger.Warnw("otp_email_send_failed", "identifier", logger.Mask(input.Identifier), "type", input.Type, "error", err)
		return &OTPDispatchError{Cause: err}
	}
	return nil
}
