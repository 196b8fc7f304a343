package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tuanasish/leave-request/internal/cache"
	"github.com/tuanasish/leave-request/internal/config"
	"github.com/tuanasish/leave-request/internal/constants"
	"github.com/tuanasish/leave-request/internal/models"
	"github.com/tuanasish/leave-request/internal/repository"
	"github.com/tuanasish/leave-request/internal/sms"

	"gorm.io/gorm"
)

type otpTestEnv struct {
	db        *gorm.DB
	svc       *OTPService
	deliverer *stubDeliverer
	confirmer *stubConfirmer
	clock     *fakeClock
}

func newOTPTestEnv(t *testing.T, cfg config.OTPConfig) *otpTestEnv {
	t.Helper()
	db := setupServiceTest(t)
	deliverer := &stubDeliverer{}
	confirmer := &stubConfirmer{}
	clock := newFakeClock()
	svc := NewOTPService(cfg, repository.NewOTPCodeRepository(db), repository.NewProfileRepository(db), deliverer, confirmer, cache.New(nil))
	svc.now = clock.Now
	return &otpTestEnv{db: db, svc: svc, deliverer: deliverer, confirmer: confirmer, clock: clock}
}

func (e *otpTestEnv) issue(t *testing.T, identifier, otpType string) *IssueOTPResult {
	t.Helper()
	result, err := e.svc.Issue(context.Background(), IssueOTPInput{Identifier: identifier, Type: otpType, Channel: constants.OTPChannelSMS})
	if err != nil {
		t.Fatalf("issue otp failed: %v", err)
	}
	return result
}

func TestIssueValidatesInput(t *testing.T) {
	env := newOTPTestEnv(t, config.OTPConfig{})
	ctx := context.Background()
	if _, err := env.svc.Issue(ctx, IssueOTPInput{Identifier: "0912345678", Type: "signup", Channel: "sms"}); !errors.Is(err, ErrOTPTypeInvalid) {
		t.Fatalf("expected invalid type, got %v", err)
	}
	if _, err := env.svc.Issue(ctx, IssueOTPInput{Identifier: "0912345678", Type: "login", Channel: "fax"}); !errors.Is(err, ErrOTPMethodInvalid) {
		t.Fatalf("expected invalid method, got %v", err)
	}
	if len(env.deliverer.sent) != 0 {
		t.Fatalf("nothing should be dispatched on invalid input")
	}
}

func TestIssueCreatesSixDigitCodeAndHidesItByDefault(t *testing.T) {
	env := newOTPTestEnv(t, config.OTPConfig{})
	result := env.issue(t, "0912345678", constants.OTPTypeLogin)
	if result.DevCode != "" {
		t.Fatalf("dev code must be hidden when dev echo is off")
	}
	if want := env.clock.Now().Add(5 * time.Minute); !result.ExpiresAt.Equal(want) {
		t.Fatalf("unexpected expiry: %v want %v", result.ExpiresAt, want)
	}
	code := env.deliverer.lastCode(t)
	if len(code) != 6 {
		t.Fatalf("expected 6 digit code, got %q", code)
	}
	for _, ch := range code {
		if ch < '0' || ch > '9' {
			t.Fatalf("code must be numeric: %q", code)
		}
	}
	if env.deliverer.sent[0].ExpireMinutes != 5 {
		t.Fatalf("dispatch should carry expiry minutes")
	}
}

func TestIssueDevEchoReturnsCode(t *testing.T) {
	env := newOTPTestEnv(t, config.OTPConfig{DevEcho: true})
	result := env.issue(t, "a@example.com", constants.OTPTypeRegister)
	if result.DevCode == "" || result.DevCode != env.deliverer.lastCode(t) {
		t.Fatalf("dev code should echo the dispatched code")
	}
}

func TestIssueCooldownRoundsUp(t *testing.T) {
	env := newOTPTestEnv(t, config.OTPConfig{})
	env.issue(t, "0912345678", constants.OTPTypeLogin)

	env.clock.Advance(10*time.Second + 500*time.Millisecond)
	_, err := env.svc.Issue(context.Background(), IssueOTPInput{Identifier: "0912345678", Type: constants.OTPTypeLogin, Channel: constants.OTPChannelSMS})
	var cooldown *OTPCooldownError
	if !errors.As(err, &cooldown) || !errors.Is(err, ErrOTPTooFrequent) {
		t.Fatalf("expected cooldown error, got %v", err)
	}
	if cooldown.RemainingSeconds != 50 {
		t.Fatalf("expected 50 seconds remaining, got %d", cooldown.RemainingSeconds)
	}

	// 其他类型不受影响
	env.issue(t, "0912345678", constants.OTPTypeResetPassword)

	env.clock.Advance(50 * time.Second)
	env.issue(t, "0912345678", constants.OTPTypeLogin)

	var active int64
	env.db.Model(&models.OTPCode{}).Where("identifier = ? AND type = ? AND used = ?", "0912345678", constants.OTPTypeLogin, false).Count(&active)
	if active != 1 {
		t.Fatalf("expected exactly one active login code, got %d", active)
	}
}

func TestIssueDispatchFailureInvalidatesCode(t *testing.T) {
	env := newOTPTestEnv(t, config.OTPConfig{})
	env.deliverer.err = &OTPDispatchError{Message: "Số dư tài khoản không đủ để gửi tin", Cause: &sms.ProviderError{Code: "300"}}

	_, err := env.svc.Issue(context.Background(), IssueOTPInput{Identifier: "0912345678", Type: constants.OTPTypeLogin, Channel: constants.OTPChannelSMS})
	var dispatchErr *OTPDispatchError
	if !errors.As(err, &dispatchErr) || !errors.Is(err, ErrOTPDispatchFailed) {
		t.Fatalf("expected dispatch error, got %v", err)
	}
	if dispatchErr.Message != "Số dư tài khoản không đủ để gửi tin" {
		t.Fatalf("unexpected dispatch message: %s", dispatchErr.Message)
	}

	// 投递失败的记录已作废，不再触发冷却
	env.deliverer.err = nil
	env.issue(t, "0912345678", constants.OTPTypeLogin)
}

func TestVerifySuccessConsumesCode(t *testing.T) {
	env := newOTPTestEnv(t, config.OTPConfig{})
	ctx := context.Background()
	env.issue(t, "0912345678", constants.OTPTypeLogin)
	code := env.deliverer.lastCode(t)

	if _, err := env.svc.Verify(ctx, VerifyOTPInput{Identifier: "0912345678", Type: constants.OTPTypeLogin, Code: code}); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if _, err := env.svc.Verify(ctx, VerifyOTPInput{Identifier: "0912345678", Type: constants.OTPTypeLogin, Code: code}); !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("used code must not verify again, got %v", err)
	}
}

func TestVerifyMismatchCountsDownThenLocks(t *testing.T) {
	env := newOTPTestEnv(t, config.OTPConfig{})
	ctx := context.Background()
	env.issue(t, "0912345678", constants.OTPTypeLogin)
	code := env.deliverer.lastCode(t)
	input := VerifyOTPInput{Identifier: "0912345678", Type: constants.OTPTypeLogin, Code: wrongCode(code)}

	for want := 4; want >= 0; want-- {
		_, err := env.svc.Verify(ctx, input)
		var mismatch *OTPMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("expected mismatch, got %v", err)
		}
		if mismatch.RemainingAttempts != want {
			t.Fatalf("expected %d remaining, got %d", want, mismatch.RemainingAttempts)
		}
	}

	input.Code = code
	if _, err := env.svc.Verify(ctx, input); !errors.Is(err, ErrOTPAttemptsExceeded) {
		t.Fatalf("expected attempts exceeded even with the right code, got %v", err)
	}
	if _, err := env.svc.Verify(ctx, input); !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("locked code is terminal, got %v", err)
	}
}

func TestVerifyExpiredCode(t *testing.T) {
	env := newOTPTestEnv(t, config.OTPConfig{})
	ctx := context.Background()
	env.issue(t, "a@example.com", constants.OTPTypeResetPassword)
	code := env.deliverer.lastCode(t)

	env.clock.Advance(5*time.Minute + time.Second)
	input := VerifyOTPInput{Identifier: "a@example.com", Type: constants.OTPTypeResetPassword, Code: code}
	if _, err := env.svc.Verify(ctx, input); !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("expected expired, got %v", err)
	}
	if _, err := env.svc.Verify(ctx, input); !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("expired code is terminal, got %v", err)
	}
}

func TestVerifyUnknownIdentifier(t *testing.T) {
	env := newOTPTestEnv(t, config.OTPConfig{})
	_, err := env.svc.Verify(context.Background(), VerifyOTPInput{Identifier: "0900000000", Type: constants.OTPTypeLogin, Code: "123456"})
	if !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestVerifyRegisterConfirmsUser(t *testing.T) {
	env := newOTPTestEnv(t, config.OTPConfig{})
	ctx := context.Background()
	profile := createTestProfile(t, env.db, &models.Profile{FullName: "Nguyen Van A", Phone: "0912345678"})

	env.issue(t, "0912345678", constants.OTPTypeRegister)
	code := env.deliverer.lastCode(t)
	result, err := env.svc.Verify(ctx, VerifyOTPInput{
		Identifier:    "0912345678",
		Type:          constants.OTPTypeRegister,
		Code:          code,
		SessionUserID: profile.ID,
	})
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if result.UserID != profile.ID {
		t.Fatalf("expected session user fallback, got %q", result.UserID)
	}
	if len(env.confirmer.calls) != 1 || env.confirmer.calls[0] != profile.ID+":phone" {
		t.Fatalf("unexpected confirm calls: %v", env.confirmer.calls)
	}
	var reloaded models.Profile
	env.db.First(&reloaded, "id = ?", profile.ID)
	if !reloaded.IsVerified {
		t.Fatalf("profile should be verified")
	}
}

func TestVerifyRegisterConfirmFailureStillSucceeds(t *testing.T) {
	env := newOTPTestEnv(t, config.OTPConfig{})
	env.confirmer.err = errors.New("auth backend down")
	profile := createTestProfile(t, env.db, &models.Profile{FullName: "Tran B", Email: "b@example.com"})

	env.issue(t, "b@example.com", constants.OTPTypeRegister)
	_, err := env.svc.Verify(context.Background(), VerifyOTPInput{
		Identifier: "b@example.com",
		Type:       constants.OTPTypeRegister,
		Code:       env.deliverer.lastCode(t),
		UserID:     profile.ID,
	})
	if err != nil {
		t.Fatalf("confirm failure must not fail verification: %v", err)
	}
	if env.confirmer.calls[0] != profile.ID+":email" {
		t.Fatalf("identifier with @ should confirm email, got %v", env.confirmer.calls)
	}
}

func TestVerifyLoginDoesNotConfirm(t *testing.T) {
	env := newOTPTestEnv(t, config.OTPConfig{})
	env.issue(t, "0912345678", constants.OTPTypeLogin)
	if _, err := env.svc.Verify(context.Background(), VerifyOTPInput{
		Identifier: "0912345678",
		Type:       constants.OTPTypeLogin,
		Code:       env.deliverer.lastCode(t),
		UserID:     "u-1",
	}); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if len(env.confirmer.calls) != 0 {
		t.Fatalf("login verification must not confirm users")
	}
}

func TestCeilSeconds(t *testing.T) {
	cases := map[time.Duration]int{
		59*time.Second + time.Millisecond: 60,
		30 * time.Second:                  30,
		time.Millisecond:                  1,
		0:                                 1,
	}
	for input, want := range cases {
		if got := ceilSeconds(input); got != want {
			t.Fatalf("ceilSeconds(%v) want %d got %d", input, want, got)
		}
	}
}
