package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/tuanasish/leave-request/internal/config"
)

func TestNewLeaveStatusSMSTask(t *testing.T) {
	task, err := NewLeaveStatusSMSTask(LeaveStatusSMSPayload{LeaveRequestID: "lr-1"})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != "leave:status_sms" {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	var payload LeaveStatusSMSPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil || payload.LeaveRequestID != "lr-1" {
		t.Fatalf("unexpected payload: %s err=%v", task.Payload(), err)
	}
}

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(nil)
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client without config must be disabled")
	}
	if err := client.EnqueueLeaveReminderSMS(LeaveReminderSMSPayload{LeaveRequestID: "lr-1"}); err != nil {
		t.Fatalf("disabled enqueue should be a no-op, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("unexpected addr: %s", opt.Addr)
	}
	if cfg.Concurrency != 5 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}

func TestBuildServerConfigFromQueueConfig(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{
		Host:        "redis.internal",
		Port:        6380,
		DB:          2,
		Concurrency: 8,
		Queues:      map[string]int{"default": 3},
	})
	if opt.Addr != "redis.internal:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 8 || cfg.Queues["default"] != 3 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
	if cfg.ErrorHandler == nil || cfg.RetryDelayFunc == nil {
		t.Fatalf("error handler and retry delay must be set")
	}
}

func TestSMSRetryDelayBacksOff(t *testing.T) {
	want := []time.Duration{30 * time.Second, time.Minute, 2 * time.Minute}
	for i, expected := range want {
		if got := smsRetryDelay(i, nil, nil); got != expected {
			t.Fatalf("retry %d: want %v got %v", i, expected, got)
		}
	}
	if got := smsRetryDelay(99, nil, nil); got != 8*time.Minute {
		t.Fatalf("retry delay should be capped, got %v", got)
	}
}

func TestReminderTaskID(t *testing.T) {
	if got := ReminderTaskID(" lr-9 "); got != "leave:reminder_sms:lr-9" {
		t.Fatalf("unexpected task id: %s", got)
	}
}
