package service

import (
	"errors"
	"testing"

	"github.com/tuanasish/leave-request/internal/config"
	"github.com/tuanasish/leave-request/internal/constants"
)

func TestCaptchaDisabledByDefault(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Provider: "turnstile", Scenes: config.CaptchaSceneConfig{SendOTP: true}})
	if svc.Provider() != constants.CaptchaProviderNone {
		t.Fatalf("unknown provider should normalise to none, got %s", svc.Provider())
	}
	if err := svc.Verify(constants.CaptchaSceneSendOTP, CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("disabled captcha must pass, got %v", err)
	}
	if _, err := svc.GenerateImageChallenge(); !errors.Is(err, ErrCaptchaConfigInvalid) {
		t.Fatalf("expected config invalid, got %v", err)
	}
}

func TestCaptchaImageRequiresPayload(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Provider: "image", Scenes: config.CaptchaSceneConfig{SendOTP: true}})
	if err := svc.Verify(constants.CaptchaSceneSendOTP, CaptchaVerifyPayload{}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("expected captcha required, got %v", err)
	}
	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate challenge failed: %v", err)
	}
	if challenge.CaptchaID == "" || challenge.ImageBase64 == "" {
		t.Fatalf("unexpected challenge: %+v", challenge)
	}
	if err := svc.Verify(constants.CaptchaSceneSendOTP, CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: "wrong!"}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("expected captcha invalid, got %v", err)
	}
}
