package auth

import (
	"context"
)

// MockVerifier provides canned token verification for tests.
type MockVerifier struct {
	Principal *Principal
	Err       error
}

// Verify returns the configured principal or error.
func (m *MockVerifier) Verify(_ context.Context, _ string) (*Principal, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Principal, nil
}

// TestPrincipal returns a standard principal for tests.
func TestPrincipal() *Principal {
	return &Principal{
		UID:           "test-user-123",
		Email:         "test@example.com",
		EmailVerified: true,
	}
}

// Compile-time interface check
var _ Verifier = (*MockVerifier)(nil)
