package profile_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mkarvo/profile-api/internal/apperr"
	"github.com/mkarvo/profile-api/internal/http/v1/routes"
	"github.com/mkarvo/profile-api/internal/platform/auth"
	profilesvc "github.com/mkarvo/profile-api/internal/service/profile"
)

// envelope mirrors the wire response for assertions.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Profile json.RawMessage `json:"profile"`
}

type wireProfile struct {
	ID          string `json:"id"`
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Marketing   bool   `json:"marketing"`
	Terms       bool   `json:"terms"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// failingService returns the configured error from every operation.
type failingService struct {
	err error
}

func (f *failingService) Create(context.Context, string, profilesvc.CreateParams) (*profilesvc.Profile, error) {
	return nil, f.err
}
func (f *failingService) Get(context.Context, string) (*profilesvc.Profile, error) {
	return nil, f.err
}
func (f *failingService) Update(context.Context, string, profilesvc.UpdateParams) (*profilesvc.Profile, error) {
	return nil, f.err
}
func (f *failingService) Delete(context.Context, string) (*profilesvc.Profile, error) {
	return nil, f.err
}

func newTestRouter(svc profilesvc.Service, verifier auth.Verifier) chi.Router {
	apperr.Install()
	router := chi.NewRouter()
	router.Use(chimiddleware.StripSlashes)
	api := humachi.New(router, huma.DefaultConfig("Profile API", "test"))
	routes.Register(api, verifier, svc)
	return router
}

func newAuthedRouter(svc profilesvc.Service) chi.Router {
	return newTestRouter(svc, &auth.MockVerifier{Principal: auth.TestPrincipal()})
}

func do(t *testing.T, router chi.Router, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/profile", reader)
	req.Header.Set("Authorization", "Bearer test-token")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("json unmarshal: %v: %s", err, resp.Body.String())
	}
	return env
}

func decodeProfile(t *testing.T, env envelope) wireProfile {
	t.Helper()
	if string(env.Profile) == "null" || len(env.Profile) == 0 {
		t.Fatalf("expected profile in envelope, got %s", env.Profile)
	}
	var p wireProfile
	if err := json.Unmarshal(env.Profile, &p); err != nil {
		t.Fatalf("json unmarshal profile: %v", err)
	}
	return p
}

func errorDetail(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("json unmarshal: %v: %s", err, resp.Body.String())
	}
	return body.Detail
}

const validCreateBody = `{
	"firstname": "John",
	"lastname": "Smith",
	"email": "John@Example.COM",
	"phone_number": "+358401234567",
	"terms": true
}`

func TestCreateProfile(t *testing.T) {
	router := newAuthedRouter(profilesvc.NewMemoryStore())

	resp := do(t, router, http.MethodPost, validCreateBody)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Location"); got != "/profile" {
		t.Errorf("expected Location header, got %q", got)
	}

	env := decodeEnvelope(t, resp)
	if !env.Success || env.Message != "Profile created successfully" {
		t.Errorf("unexpected envelope: %+v", env)
	}
	p := decodeProfile(t, env)
	if p.ID != auth.TestPrincipal().UID {
		t.Errorf("profile ID must be the caller's UID: %s", p.ID)
	}
	if p.Email != "john@example.com" {
		t.Errorf("email must be normalized: %q", p.Email)
	}
	if p.Marketing {
		t.Error("marketing must default to false")
	}
	if p.CreatedAt == "" || p.CreatedAt != p.UpdatedAt {
		t.Errorf("timestamps must be set and equal on create: %q / %q", p.CreatedAt, p.UpdatedAt)
	}
}

func TestCreateProfileDuplicate(t *testing.T) {
	router := newAuthedRouter(profilesvc.NewMemoryStore())

	if resp := do(t, router, http.MethodPost, validCreateBody); resp.Code != http.StatusCreated {
		t.Fatalf("first create: %d", resp.Code)
	}
	resp := do(t, router, http.MethodPost, validCreateBody)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", resp.Code, resp.Body.String())
	}
	if got := errorDetail(t, resp); got != "Profile already exists" {
		t.Errorf("unexpected detail: %q", got)
	}
}

func TestCreateProfileTermsNotAccepted(t *testing.T) {
	store := profilesvc.NewMemoryStore()
	router := newAuthedRouter(store)

	body := strings.Replace(validCreateBody, `"terms": true`, `"terms": false`, 1)
	resp := do(t, router, http.MethodPost, body)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", resp.Code, resp.Body.String())
	}

	// The rejected create must not leave a profile behind.
	if resp := do(t, router, http.MethodGet, ""); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after rejected create, got %d", resp.Code)
	}
}

func TestCreateProfileValidation(t *testing.T) {
	router := newAuthedRouter(profilesvc.NewMemoryStore())

	cases := map[string]string{
		"missing fields": `{"firstname": "John"}`,
		"bad email":      strings.Replace(validCreateBody, "John@Example.COM", "not-an-email", 1),
		"bad phone":      strings.Replace(validCreateBody, "+358401234567", "0401234567", 1),
		"empty name":     strings.Replace(validCreateBody, `"John"`, `""`, 1),
	}
	for name, body := range cases {
		resp := do(t, router, http.MethodPost, body)
		if resp.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: expected 422, got %d: %s", name, resp.Code, resp.Body.String())
		}
	}
}

func TestGetProfile(t *testing.T) {
	router := newAuthedRouter(profilesvc.NewMemoryStore())

	if resp := do(t, router, http.MethodPost, validCreateBody); resp.Code != http.StatusCreated {
		t.Fatalf("create: %d", resp.Code)
	}

	resp := do(t, router, http.MethodGet, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	env := decodeEnvelope(t, resp)
	if env.Message != "Profile retrieved successfully" {
		t.Errorf("unexpected message: %q", env.Message)
	}
	p := decodeProfile(t, env)
	if p.Firstname != "John" || p.Lastname != "Smith" {
		t.Errorf("unexpected profile: %+v", p)
	}
}

func TestGetProfileTrailingSlash(t *testing.T) {
	router := newAuthedRouter(profilesvc.NewMemoryStore())

	if resp := do(t, router, http.MethodPost, validCreateBody); resp.Code != http.StatusCreated {
		t.Fatalf("create: %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/profile/", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected /profile/ to route like /profile, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGetProfileCBOR(t *testing.T) {
	router := newAuthedRouter(profilesvc.NewMemoryStore())

	if resp := do(t, router, http.MethodPost, validCreateBody); resp.Code != http.StatusCreated {
		t.Fatalf("create: %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	req.Header.Set("Accept", "application/cbor")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/cbor" {
		t.Errorf("expected application/cbor, got %s", ct)
	}

	var env struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := cbor.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("cbor unmarshal: %v", err)
	}
	if !env.Success || env.Message != "Profile retrieved successfully" {
		t.Errorf("unexpected envelope: %+v", env)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	router := newAuthedRouter(profilesvc.NewMemoryStore())

	resp := do(t, router, http.MethodGet, "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.Code, resp.Body.String())
	}
	if got := errorDetail(t, resp); got != "Profile not found" {
		t.Errorf("unexpected detail: %q", got)
	}
}

func TestUpdateProfileMerges(t *testing.T) {
	router := newAuthedRouter(profilesvc.NewMemoryStore())

	if resp := do(t, router, http.MethodPost, validCreateBody); resp.Code != http.StatusCreated {
		t.Fatalf("create: %d", resp.Code)
	}

	resp := do(t, router, http.MethodPatch, `{"firstname": "Jane"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	env := decodeEnvelope(t, resp)
	if env.Message != "Profile updated successfully" {
		t.Errorf("unexpected message: %q", env.Message)
	}
	p := decodeProfile(t, env)
	if p.Firstname != "Jane" {
		t.Errorf("firstname not updated: %q", p.Firstname)
	}
	if p.Lastname != "Smith" {
		t.Errorf("omitted field must survive: %q", p.Lastname)
	}
}

func TestUpdateProfileEmptyBody(t *testing.T) {
	router := newAuthedRouter(profilesvc.NewMemoryStore())

	if resp := do(t, router, http.MethodPost, validCreateBody); resp.Code != http.StatusCreated {
		t.Fatalf("create: %d", resp.Code)
	}

	resp := do(t, router, http.MethodPatch, `{}`)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty update, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestUpdateProfileNotFound(t *testing.T) {
	router := newAuthedRouter(profilesvc.NewMemoryStore())

	resp := do(t, router, http.MethodPatch, `{"firstname": "Jane"}`)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestDeleteProfileReturnsLastState(t *testing.T) {
	router := newAuthedRouter(profilesvc.NewMemoryStore())

	if resp := do(t, router, http.MethodPost, validCreateBody); resp.Code != http.StatusCreated {
		t.Fatalf("create: %d", resp.Code)
	}

	resp := do(t, router, http.MethodDelete, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	env := decodeEnvelope(t, resp)
	if env.Message != "Profile deleted successfully" {
		t.Errorf("unexpected message: %q", env.Message)
	}
	p := decodeProfile(t, env)
	if p.Email != "john@example.com" {
		t.Errorf("delete must return the removed state: %+v", p)
	}

	if resp := do(t, router, http.MethodGet, ""); resp.Code != http.StatusNotFound {
		t.Fatalf("profile must be gone after delete, got %d", resp.Code)
	}
}

func TestDeleteProfileNotFound(t *testing.T) {
	router := newAuthedRouter(profilesvc.NewMemoryStore())

	resp := do(t, router, http.MethodDelete, "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestProfileRequiresAuthentication(t *testing.T) {
	router := newAuthedRouter(profilesvc.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without credentials, got %d", resp.Code)
	}
}

func TestProfileRejectsInvalidToken(t *testing.T) {
	router := newTestRouter(profilesvc.NewMemoryStore(), &auth.MockVerifier{Err: auth.ErrInvalidToken})

	resp := do(t, router, http.MethodGet, "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestServiceFailureIsGeneric(t *testing.T) {
	router := newAuthedRouter(&failingService{err: errors.New("firestore: connection reset")})

	resp := do(t, router, http.MethodGet, "")
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", resp.Code, resp.Body.String())
	}
	detail := errorDetail(t, resp)
	if detail != "Failed to get profile" {
		t.Errorf("unexpected detail: %q", detail)
	}
	if strings.Contains(resp.Body.String(), "firestore") {
		t.Error("internal error text must not leak to the client")
	}
}

func TestProfilesAreIsolatedByUser(t *testing.T) {
	store := profilesvc.NewMemoryStore()

	routerA := newTestRouter(store, &auth.MockVerifier{Principal: &auth.Principal{UID: "user-a"}})
	routerB := newTestRouter(store, &auth.MockVerifier{Principal: &auth.Principal{UID: "user-b"}})

	if resp := do(t, routerA, http.MethodPost, validCreateBody); resp.Code != http.StatusCreated {
		t.Fatalf("create as user-a: %d", resp.Code)
	}

	// user-b sees no profile even though user-a has one.
	if resp := do(t, routerB, http.MethodGet, ""); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for user-b, got %d", resp.Code)
	}
}
