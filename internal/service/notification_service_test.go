package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/tuanasish/leave-request/internal/cache"
	"github.com/tuanasish/leave-request/internal/constants"
	"github.com/tuanasish/leave-request/internal/models"
	"github.com/tuanasish/leave-request/internal/queue"
	"github.com/tuanasish/leave-request/internal/repository"
	"github.com/tuanasish/leave-request/internal/sms"

	"gorm.io/gorm"
)

type notificationTestEnv struct {
	db       *gorm.DB
	svc      *NotificationService
	settings *SettingService
	sender   *stubSMSSender
	leaves   *repository.GormLeaveRequestRepository
}

func newNotificationTestEnv(t *testing.T) *notificationTestEnv {
	t.Helper()
	db := setupServiceTest(t)
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}
	leaves := repository.NewLeaveRequestRepository(db)
	settings := NewSettingService(repository.NewSettingRepository(db), cache.New(nil))
	sender := &stubSMSSender{}
	svc := NewNotificationService(leaves, settings, sender, queueClient, repository.NewNotificationLogRepository(db), time.UTC)
	svc.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	return &notificationTestEnv{db: db, svc: svc, settings: settings, sender: sender, leaves: leaves}
}

func (e *notificationTestEnv) enableSMS(t *testing.T) {
	t.Helper()
	if _, err := e.settings.Update(context.Background(), constants.SettingKeySMSEnabled, json.RawMessage(`true`)); err != nil {
		t.Fatalf("enable sms failed: %v", err)
	}
}

func (e *notificationTestEnv) createLeave(t *testing.T, userID, start, end, status string) *models.LeaveRequest {
	t.Helper()
	startDate, _ := models.ParseDate(start)
	endDate, _ := models.ParseDate(end)
	req := &models.LeaveRequest{UserID: userID, StartDate: startDate, EndDate: endDate, Reason: "test", Status: status}
	if err := e.db.Create(req).Error; err != nil {
		t.Fatalf("create leave failed: %v", err)
	}
	return req
}

func TestNotifyLeaveStatusSkipsWhenDisabled(t *testing.T) {
	env := newNotificationTestEnv(t)
	profile := createTestProfile(t, env.db, &models.Profile{FullName: "A", Phone: "0912345678"})
	leave := env.createLeave(t, profile.ID, "2026-03-05", "2026-03-06", constants.LeaveStatusApproved)

	if err := env.svc.NotifyLeaveStatus(context.Background(), leave.ID); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if len(env.sender.messages) != 0 {
		t.Fatalf("sms must not be sent while disabled")
	}
}

func TestNotifyLeaveStatusSendsAndAudits(t *testing.T) {
	env := newNotificationTestEnv(t)
	env.enableSMS(t)
	profile := createTestProfile(t, env.db, &models.Profile{FullName: "A", Phone: "0912345678"})
	leave := env.createLeave(t, profile.ID, "2026-03-05", "2026-03-06", constants.LeaveStatusRejected)
	note := "Thieu nguoi"
	env.db.Model(leave).Update("admin_note", note)

	env.svc.QueueLeaveStatus(context.Background(), leave.ID)
	if len(env.sender.messages) != 1 {
		t.Fatalf("expected one sms, got %d", len(env.sender.messages))
	}
	want := "[DKNgayNghi] Don xin nghi ngay 05/03 - 06/03/2026 cua ban da bi TU CHOI. Ghi chu: Thieu nguoi"
	if env.sender.messages[0].Content != want || env.sender.messages[0].Phone != "0912345678" {
		t.Fatalf("unexpected sms: %+v", env.sender.messages[0])
	}

	logs, total, err := env.svc.ListLogs(context.Background(), repository.NotificationLogListFilter{Page: 1, PageSize: 10})
	if err != nil || total != 1 {
		t.Fatalf("expected one audit row, got %d err=%v", total, err)
	}
	if logs[0].Type != constants.NotificationTypeRejection || logs[0].Status != constants.NotificationStatusSent {
		t.Fatalf("unexpected audit row: %+v", logs[0])
	}
	if logs[0].LeaveRequestID == nil || *logs[0].LeaveRequestID != leave.ID {
		t.Fatalf("audit row should reference leave request")
	}
}

func TestNotifyLeaveStatusRecordsFailure(t *testing.T) {
	env := newNotificationTestEnv(t)
	env.enableSMS(t)
	env.sender.err = &sms.ProviderError{Code: "300", Message: sms.SpeedSMSErrorMessage("300")}
	profile := createTestProfile(t, env.db, &models.Profile{FullName: "A", Phone: "0912345678"})
	leave := env.createLeave(t, profile.ID, "2026-03-05", "2026-03-06", constants.LeaveStatusApproved)

	if err := env.svc.NotifyLeaveStatus(context.Background(), leave.ID); err == nil {
		t.Fatalf("expected provider error")
	}
	var row models.NotificationLog
	env.db.First(&row)
	if row.Status != constants.NotificationStatusFailed || row.ErrorMessage != "Số dư tài khoản không đủ để gửi tin" {
		t.Fatalf("unexpected failure audit: %+v", row)
	}
}

func TestSendDueRemindersOnlyOnce(t *testing.T) {
	env := newNotificationTestEnv(t)
	env.enableSMS(t)
	ctx := context.Background()
	withPhone := createTestProfile(t, env.db, &models.Profile{FullName: "A", Phone: "0912345678"})

	due := env.createLeave(t, withPhone.ID, "2026-03-03", "2026-03-04", constants.LeaveStatusApproved)
	env.createLeave(t, withPhone.ID, "2026-03-10", "2026-03-11", constants.LeaveStatusApproved)
	env.createLeave(t, withPhone.ID, "2026-03-03", "2026-03-03", constants.LeaveStatusPending)

	processed, err := env.svc.SendDueReminders(ctx)
	if err != nil {
		t.Fatalf("send reminders failed: %v", err)
	}
	if processed != 1 || len(env.sender.messages) != 1 {
		t.Fatalf("expected one reminder, processed=%d sent=%d", processed, len(env.sender.messages))
	}
	if env.sender.messages[0].Content != "[DKNgayNghi] Nhac nho: ban co lich nghi phep ngay 03/03 - 04/03/2026" {
		t.Fatalf("unexpected reminder: %s", env.sender.messages[0].Content)
	}
	var reloaded models.LeaveRequest
	env.db.First(&reloaded, "id = ?", due.ID)
	if !reloaded.ReminderSent {
		t.Fatalf("reminder flag should be set")
	}

	processed, _ = env.svc.SendDueReminders(ctx)
	if processed != 0 || len(env.sender.messages) != 1 {
		t.Fatalf("reminders must not repeat")
	}
}

func TestSendDueRemindersRetriesAfterFailedSend(t *testing.T) {
	env := newNotificationTestEnv(t)
	env.enableSMS(t)
	ctx := context.Background()
	profile := createTestProfile(t, env.db, &models.Profile{FullName: "A", Phone: "0912345678"})
	leave := env.createLeave(t, profile.ID, "2026-03-03", "2026-03-03", constants.LeaveStatusApproved)

	env.sender.err = sms.ErrNetwork
	processed, err := env.svc.SendDueReminders(ctx)
	if err != nil {
		t.Fatalf("send reminders failed: %v", err)
	}
	if processed != 0 || len(env.sender.messages) != 1 {
		t.Fatalf("expected one failed attempt, processed=%d sent=%d", processed, len(env.sender.messages))
	}
	var reloaded models.LeaveRequest
	env.db.First(&reloaded, "id = ?", leave.ID)
	if reloaded.ReminderSent {
		t.Fatalf("failed reminder must stay pending")
	}

	env.sender.err = nil
	processed, err = env.svc.SendDueReminders(ctx)
	if err != nil {
		t.Fatalf("second scan failed: %v", err)
	}
	if processed != 1 || len(env.sender.messages) != 2 {
		t.Fatalf("expected reminder on next scan, processed=%d sent=%d", processed, len(env.sender.messages))
	}
	env.db.First(&reloaded, "id = ?", leave.ID)
	if !reloaded.ReminderSent {
		t.Fatalf("reminder flag should be set after success")
	}
}
