package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorWithDataCarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	ErrorWithData(c, CodeBadRequest, "Mã OTP không đúng. Còn 3 lần thử.", gin.H{"remainingAttempts": 3, "error": "ignored"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body["error"] != "Mã OTP không đúng. Còn 3 lần thử." || body["request_id"] != "req-1" {
		t.Fatalf("unexpected body: %v", body)
	}
	if body["remainingAttempts"] != float64(3) {
		t.Fatalf("expected extra field, got %v", body)
	}
	if !c.IsAborted() {
		t.Fatalf("error response must abort the chain")
	}
}

func TestSuccessFlattensFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, gin.H{"message": "ok", "expiresAt": "x"})

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body["success"] != true || body["message"] != "ok" || body["expiresAt"] != "x" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestWrapErrorClampsNonErrorStatus(t *testing.T) {
	if got := WrapError(0, "x", nil).Code; got != CodeInternal {
		t.Fatalf("expected internal code, got %d", got)
	}
	if got := WrapError(CodeNotFound, "x", nil).Code; got != CodeNotFound {
		t.Fatalf("expected not found code, got %d", got)
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 41)
	if p.TotalPage != 3 || p.Page != 2 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
}
