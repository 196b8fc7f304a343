package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tuanasish/leave-request/internal/logger"
	"github.com/tuanasish/leave-request/internal/provider"
	"github.com/tuanasish/leave-request/internal/queue"
	"github.com/tuanasish/leave-request/internal/sms"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskLeaveStatusSMS, c.handleLeaveStatusSMS)
	mux.HandleFunc(queue.TaskLeaveReminderSMS, c.handleLeaveReminderSMS)
}

func (c *Consumer) handleLeaveStatusSMS(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_leave_status_sms_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.LeaveStatusSMSPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_leave_status_sms_unmarshal_failed", "error", err)
		return err
	}
	leaveID := strings.TrimSpace(payload.LeaveRequestID)
	if leaveID == "" {
		logger.Debugw("worker_leave_status_sms_skip_invalid_payload")
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_leave_status_sms_skip_service_nil", "leave_request_id", leaveID)
		return nil
	}
	if err := c.NotificationService.NotifyLeaveStatus(ctx, leaveID); err != nil {
		logger.Warnw("worker_leave_status_sms_send_failed", "leave_request_id", leaveID, "error", err)
		return retryableSMSError(err)
	}
	return nil
}

func (c *Consumer) handleLeaveReminderSMS(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_leave_reminder_sms_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.LeaveReminderSMSPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_leave_reminder_sms_unmarshal_failed", "error", err)
		return err
	}
	leaveID := strings.TrimSpace(payload.LeaveRequestID)
	if leaveID == "" {
		logger.Debugw("worker_leave_reminder_sms_skip_invalid_payload")
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_leave_reminder_sms_skip_service_nil", "leave_request_id", leaveID)
		return nil
	}
	if err := c.NotificationService.SendReminder(ctx, leaveID); err != nil {
		logger.Warnw("worker_leave_reminder_sms_send_failed", "leave_request_id", leaveID, "error", err)
		return retryableSMSError(err)
	}
	return nil
}

// retryableSMSError 未配置短信不重试；服务商明确拒绝时跳过重试，网络类错误交给队列重试
func retryableSMSError(err error) error {
	if errors.Is(err, sms.ErrNotConfigured) {
		return nil
	}
	var providerErr *sms.ProviderError
	if errors.As(err, &providerErr) {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return err
}
