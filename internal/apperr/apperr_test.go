package apperr

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
)

func TestNewDefaultsDetailByStatus(t *testing.T) {
	cases := map[int]string{
		http.StatusNotFound:            MsgNotFound,
		http.StatusConflict:            MsgConflict,
		http.StatusUnauthorized:        MsgUnauthorized,
		http.StatusInternalServerError: MsgInternal,
		http.StatusTooManyRequests:     "Too Many Requests",
	}
	for status, want := range cases {
		e := New(status, "")
		if e.Detail != want {
			t.Errorf("New(%d, \"\").Detail = %q, want %q", status, e.Detail, want)
		}
		if e.GetStatus() != status {
			t.Errorf("GetStatus() = %d, want %d", e.GetStatus(), status)
		}
	}
}

func TestNewKeepsExplicitDetail(t *testing.T) {
	e := NotFound("Profile not found")
	if e.Detail != "Profile not found" {
		t.Errorf("unexpected detail: %q", e.Detail)
	}
	if e.Error() != "Profile not found" {
		t.Errorf("Error() must return the detail, got %q", e.Error())
	}
}

func TestUnavailableCarriesRetryAfter(t *testing.T) {
	e := Unavailable("try later", "30")
	if got := e.GetHeaders().Get("Retry-After"); got != "30" {
		t.Errorf("expected Retry-After=30, got %q", got)
	}
	if e.GetStatus() != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", e.GetStatus())
	}
}

func TestWriteSerializesDetailShape(t *testing.T) {
	resp := httptest.NewRecorder()
	Write(resp, Conflict("Profile already exists").WithHeader("X-Extra", "1"))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("unexpected content type: %q", got)
	}
	if got := resp.Header().Get("X-Extra"); got != "1" {
		t.Errorf("extra header not written: %q", got)
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if body["detail"] != "Profile already exists" {
		t.Errorf("unexpected detail: %v", body["detail"])
	}
	if _, ok := body["errors"]; ok {
		t.Error("errors must be omitted when empty")
	}
}

func TestInstallRoutesFrameworkErrors(t *testing.T) {
	Install()

	err := huma.NewError(http.StatusUnprocessableEntity, "validation failed",
		&huma.ErrorDetail{Message: "expected string", Location: "body.firstname"},
	)
	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if e.Detail != "validation failed" {
		t.Errorf("unexpected detail: %q", e.Detail)
	}
	if len(e.Errors) != 1 || e.Errors[0].Location != "body.firstname" {
		t.Errorf("expected per-field issue to survive, got %+v", e.Errors)
	}
}

func TestIssuesFromErrors(t *testing.T) {
	issues := issuesFromErrors([]error{
		nil,
		errors.New("plain"),
		&huma.ErrorDetail{Message: "typed", Location: "body.email"},
	})
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(issues))
	}
	if issues[0].Message != "plain" {
		t.Errorf("unexpected first issue: %+v", issues[0])
	}
	if issues[1].Location != "body.email" {
		t.Errorf("unexpected second issue: %+v", issues[1])
	}

	if got := issuesFromErrors(nil); got != nil {
		t.Errorf("expected nil for no errors, got %v", got)
	}
}
