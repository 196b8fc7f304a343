package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolvePrefersQueryLang(t *testing.T) {
	if got := Resolve("en-US", "vi-VN"); got != LocaleEN {
		t.Fatalf("expected en from query, got %s", got)
	}
	if got := Resolve("fr", "en-GB,en;q=0.8"); got != LocaleEN {
		t.Fatalf("unsupported query should fall through to header, got %s", got)
	}
}

func TestResolveAcceptLanguage(t *testing.T) {
	cases := map[string]string{
		"":                      LocaleVI,
		"vi-VN,vi;q=0.9":        LocaleVI,
		"en-US,en;q=0.9":        LocaleEN,
		"ja-JP":                 LocaleVI,
		"not a language header": LocaleVI,
	}
	for header, want := range cases {
		if got := Resolve("", header); got != want {
			t.Fatalf("header %q want %s got %s", header, want, got)
		}
	}
}

func TestTranslateFallbacks(t *testing.T) {
	if got := Sprintf(LocaleVI, "error.otp_too_frequent", 42); got != "Vui lòng đợi 42 giây trước khi gửi lại" {
		t.Fatalf("unexpected vi message: %s", got)
	}
	if got := T("de", "error.otp_not_found"); got != "Mã OTP không tồn tại hoặc đã hết hạn" {
		t.Fatalf("unknown locale should fall back to vi, got %s", got)
	}
	if got := T(LocaleEN, "error.unknown_key"); got != "error.unknown_key" {
		t.Fatalf("unknown key should echo key, got %s", got)
	}
}

func TestResolveLocaleFromRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/me?lang=en", nil)
	c.Request.Header.Set("Accept-Language", "vi-VN")
	if got := ResolveLocale(c); got != LocaleEN {
		t.Fatalf("expected en, got %s", got)
	}
	if got := ResolveLocale(nil); got != DefaultLocale {
		t.Fatalf("nil context should use default, got %s", got)
	}
}
