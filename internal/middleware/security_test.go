package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func serveSecurity(t *testing.T, debug bool, target string) *httptest.ResponseRecorder {
	t.Helper()
	handler := Security(debug)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, target, nil))
	return resp
}

func TestSecurityHeadersAlwaysSet(t *testing.T) {
	resp := serveSecurity(t, false, "http://example.com/")

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "same-origin",
	}
	for key, value := range want {
		if got := resp.Header().Get(key); got != value {
			t.Errorf("expected %s=%s, got %q", key, value, got)
		}
	}
}

func TestSecurityNoHSTSOverPlaintext(t *testing.T) {
	resp := serveSecurity(t, false, "http://example.com/")
	if got := resp.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS must not be advertised over plaintext, got %q", got)
	}
}

func TestSecurityHSTSOverTLS(t *testing.T) {
	resp := serveSecurity(t, false, "https://example.com/")
	if got := resp.Header().Get("Strict-Transport-Security"); got != hstsValue {
		t.Errorf("expected HSTS over TLS, got %q", got)
	}
}

func TestSecurityNoHSTSInDebugMode(t *testing.T) {
	resp := serveSecurity(t, true, "https://example.com/")
	if got := resp.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS must not be advertised in debug mode, got %q", got)
	}
}
