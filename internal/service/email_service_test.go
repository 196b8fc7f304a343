package service

import (
	"context"
	"errors"
	"net/textproto"
	"strings"
	"testing"

	"github.com/tuanasish/leave-request/internal/config"
	"github.com/tuanasish/leave-request/internal/i18n"
)

func TestBuildOTPEmailContent(t *testing.T) {
	tests := []struct {
		name                string
		locale              string
		otpType             string
		wantSubjectContains []string
		wantBodyContains    []string
	}{
		{
			name:                "register_vi",
			locale:              i18n.LocaleVI,
			otpType:             "register",
			wantSubjectContains: []string{"Mã xác thực", "đăng ký tài khoản"},
			wantBodyContains:    []string{"123456", "5 phút"},
		},
		{
			name:                "reset_en",
			locale:              i18n.LocaleEN,
			otpType:             "reset_password",
			wantSubjectContains: []string{"Verification code", "password reset"},
			wantBodyContains:    []string{"123456", "5 minutes"},
		},
		{
			name:                "unknown_type_falls_back",
			locale:              i18n.LocaleEN,
			otpType:             "other",
			wantSubjectContains: []string{"verification"},
			wantBodyContains:    []string{"123456"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := buildOTPEmailContent("123456", tt.otpType, 5, tt.locale)
			for _, expected := range tt.wantSubjectContains {
				if !strings.Contains(subject, expected) {
					t.Fatalf("subject missing %q: %s", expected, subject)
				}
			}
			for _, expected := range tt.wantBodyContains {
				if !strings.Contains(body, expected) {
					t.Fatalf("body missing %q: %s", expected, body)
				}
			}
		})
	}
}

func TestSendOTPRequiresConfiguredSMTP(t *testing.T) {
	if err := NewEmailService(nil).SendOTP(context.Background(), "a@b.vn", "123456", "login", 5, i18n.LocaleVI); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("expected disabled, got %v", err)
	}
	svc := NewEmailService(&config.EmailConfig{Enabled: true})
	if err := svc.SendOTP(context.Background(), "a@b.vn", "123456", "login", 5, i18n.LocaleVI); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
	svc = NewEmailService(&config.EmailConfig{Enabled: true, Host: "smtp.local", Port: 25, From: "noreply@local"})
	if err := svc.SendOTP(context.Background(), "not-an-email", "123456", "login", 5, i18n.LocaleVI); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected invalid email, got %v", err)
	}
}

func TestIsEmailRecipientRejected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "smtp_550_no_such_recipient", err: errors.New("550 No such recipient here"), want: true},
		{name: "smtp_user_unknown", err: errors.New("SMTP 5.1.1 user unknown"), want: true},
		{name: "smtp_550_mailbox_unavailable", err: errors.New("550 mailbox unavailable"), want: true},
		{name: "smtp_553_proto_error", err: &textproto.Error{Code: 553, Msg: "5.1.3 bad address"}, want: true},
		{name: "smtp_451_temporary", err: &textproto.Error{Code: 451, Msg: "try again later"}, want: false},
		{name: "network_timeout", err: errors.New("dial tcp timeout"), want: false},
		{name: "nil_error", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isEmailRecipientRejected(tt.err); got != tt.want {
				t.Fatalf("isEmailRecipientRejected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeEmailSendError(t *testing.T) {
	rejected := errors.New("550 No such recipient here")
	if got := normalizeEmailSendError(rejected); !errors.Is(got, ErrEmailRecipientRejected) {
		t.Fatalf("normalizeEmailSendError() expected ErrEmailRecipientRejected, got %v", got)
	}

	networkErr := errors.New("dial tcp timeout")
	if got := normalizeEmailSendError(networkErr); !errors.Is(got, networkErr) {
		t.Fatalf("normalizeEmailSendError() should keep original error, got %v", got)
	}
}
