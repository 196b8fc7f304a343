package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tuanasish/leave-request/internal/config"
	"github.com/tuanasish/leave-request/internal/constants"
	"github.com/tuanasish/leave-request/internal/logger"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault

	smsMaxRetry       = 3
	smsTaskTimeout    = 30 * time.Second
	statusUniqueTTL   = 10 * time.Minute
	reminderRetention = 48 * time.Hour
)

// Client 短信任务投递，未启用时所有投递直接返回 nil
type Client struct {
	client *asynq.Client
	queue  string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{queue: DefaultQueue}, nil
	}
	return &Client{client: asynq.NewClient(redisOpt(cfg)), queue: DefaultQueue}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueLeaveStatusSMS 推送审批结果短信，同一申请短时间内只投递一次
func (c *Client) EnqueueLeaveStatusSMS(payload LeaveStatusSMSPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewLeaveStatusSMSTask(payload)
	if err != nil {
		return err
	}
	err = c.enqueue(task, asynq.Unique(statusUniqueTTL))
	if errors.Is(err, asynq.ErrDuplicateTask) {
		logger.Debugw("queue_leave_status_sms_duplicate", "leave_request_id", payload.LeaveRequestID)
		return nil
	}
	return err
}

// EnqueueLeaveReminderSMS 推送休假提醒短信，任务 ID 按申请固定
func (c *Client) EnqueueLeaveReminderSMS(payload LeaveReminderSMSPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewLeaveReminderSMSTask(payload)
	if err != nil {
		return err
	}
	err = c.enqueue(task,
		asynq.TaskID(ReminderTaskID(payload.LeaveRequestID)),
		asynq.Retention(reminderRetention),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		logger.Debugw("queue_leave_reminder_sms_duplicate", "leave_request_id", payload.LeaveRequestID)
		return nil
	}
	return err
}

func (c *Client) enqueue(task *asynq.Task, opts ...asynq.Option) error {
	options := append([]asynq.Option{
		asynq.Queue(c.queue),
		asynq.MaxRetry(smsMaxRetry),
		asynq.Timeout(smsTaskTimeout),
	}, opts...)
	info, err := c.client.Enqueue(task, options...)
	if err != nil {
		return err
	}
	logger.Debugw("queue_task_enqueued", "type", task.Type(), "task_id", info.ID, "queue", info.Queue)
	return nil
}

// ReminderTaskID 休假提醒任务 ID
func ReminderTaskID(leaveRequestID string) string {
	return fmt.Sprintf("%s:%s", TaskLeaveReminderSMS, strings.TrimSpace(leaveRequestID))
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	concurrency := 5
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			queues = cfg.Queues
		}
	}
	return redisOpt(cfg), asynq.Config{
		Concurrency:    concurrency,
		Queues:         queues,
		RetryDelayFunc: smsRetryDelay,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			logger.Warnw("queue_task_failed", "type", task.Type(), "retried", retried, "error", err)
		}),
	}
}

// smsRetryDelay 短信重试退避：30s、60s、120s
func smsRetryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	if n < 0 {
		n = 0
	}
	if n > 4 {
		n = 4
	}
	return 30 * time.Second << uint(n)
}

func redisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
