package queue

import (
	"encoding/json"

	"github.com/tuanasish/leave-request/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskLeaveStatusSMS 审批结果短信任务
	TaskLeaveStatusSMS = constants.TaskLeaveStatusSMS
	// TaskLeaveReminderSMS 休假提醒短信任务
	TaskLeaveReminderSMS = constants.TaskLeaveReminderSMS
)

// LeaveStatusSMSPayload 审批结果短信任务载荷
type LeaveStatusSMSPayload struct {
	LeaveRequestID string `json:"leave_request_id"`
}

// LeaveReminderSMSPayload 休假提醒短信任务载荷
type LeaveReminderSMSPayload struct {
	LeaveRequestID string `json:"leave_request_id"`
}

// NewLeaveStatusSMSTask 创建审批结果短信任务
func NewLeaveStatusSMSTask(payload LeaveStatusSMSPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeaveStatusSMS, body), nil
}

// NewLeaveReminderSMSTask 创建休假提醒短信任务
func NewLeaveReminderSMSTask(payload LeaveReminderSMSPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeaveReminderSMS, body), nil
}
