package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tuanasish/leave-request/internal/models"
	"github.com/tuanasish/leave-request/internal/sms"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupServiceTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	if err := models.EnsureDefaultSettings(db); err != nil {
		t.Fatalf("seed settings failed: %v", err)
	}
	return db
}

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type stubDeliverer struct {
	sent []OTPDispatch
	err  error
}

func (d *stubDeliverer) Dispatch(_ context.Context, input OTPDispatch) error {
	d.sent = append(d.sent, input)
	return d.err
}

func (d *stubDeliverer) lastCode(t *testing.T) string {
	t.Helper()
	if len(d.sent) == 0 {
		t.Fatalf("no otp dispatched")
	}
	return d.sent[len(d.sent)-1].Code
}

type stubConfirmer struct {
	calls []string
	err   error
}

func (c *stubConfirmer) ConfirmUser(_ context.Context, userID, channel string) error {
	c.calls = append(c.calls, userID+":"+channel)
	return c.err
}

type stubSMSSender struct {
	messages []sms.Message
	err      error
}

func (s *stubSMSSender) Name() string {
	return "stub"
}

func (s *stubSMSSender) Send(_ context.Context, msg sms.Message) (*sms.Result, error) {
	s.messages = append(s.messages, msg)
	if s.err != nil {
		return nil, s.err
	}
	return &sms.Result{MessageID: fmt.Sprintf("m-%d", len(s.messages)), Raw: map[string]interface{}{"status": "success"}}, nil
}

func createTestProfile(t *testing.T, db *gorm.DB, profile *models.Profile) *models.Profile {
	t.Helper()
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("create profile failed: %v", err)
	}
	return profile
}

func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}
