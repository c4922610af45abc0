package profile

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/mkarvo/profile-api/internal/apperr"
	"github.com/mkarvo/profile-api/internal/platform/auth"
	applog "github.com/mkarvo/profile-api/internal/platform/logging"
	"github.com/mkarvo/profile-api/internal/platform/timeutil"
	profilesvc "github.com/mkarvo/profile-api/internal/service/profile"
)

// Fixed wire messages. Tests and clients depend on these verbatim.
const (
	msgCreated  = "Profile created successfully"
	msgFetched  = "Profile retrieved successfully"
	msgUpdated  = "Profile updated successfully"
	msgDeleted  = "Profile deleted successfully"
	msgNotFound = "Profile not found"
	msgExists   = "Profile already exists"
)

// Output wraps the envelope for huma serialization.
type Output struct {
	Body Envelope
}

// CreateOutput adds the Location header on 201.
type CreateOutput struct {
	Location string `header:"Location" doc:"URL of created profile"`
	Body     Envelope
}

var bearerSecurity = []map[string][]string{{"bearerAuth": {}}}

// Register registers the profile endpoints on the API. The service is
// injected here once at wiring time; nothing is resolved per request.
func Register(api huma.API, svc profilesvc.Service) {
	huma.Register(api, huma.Operation{
		OperationID:   "profile-create",
		Method:        http.MethodPost,
		Path:          "/profile",
		Summary:       "Create user profile",
		Description:   "Creates a profile for the authenticated user. Terms must be accepted.",
		Tags:          []string{"Profile"},
		DefaultStatus: http.StatusCreated,
		Security:      bearerSecurity,
	}, func(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
		principal := auth.PrincipalFromContext(ctx)

		// Acceptance is a precondition, checked before any write.
		if !input.Body.Terms {
			return nil, huma.Error422UnprocessableEntity("terms must be accepted")
		}

		created, err := svc.Create(ctx, principal.UID, profilesvc.CreateParams{
			Firstname:   input.Body.Firstname,
			Lastname:    input.Body.Lastname,
			Email:       input.Body.Email,
			PhoneNumber: input.Body.PhoneNumber,
			Marketing:   input.Body.Marketing,
			Terms:       input.Body.Terms,
		})
		if err != nil {
			return nil, mapServiceError(ctx, "create", principal.UID, err)
		}
		return &CreateOutput{
			Location: "/profile",
			Body:     successEnvelope(msgCreated, created),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "profile-get",
		Method:      http.MethodGet,
		Path:        "/profile",
		Summary:     "Get current user's profile",
		Description: "Retrieves the profile of the authenticated user.",
		Tags:        []string{"Profile"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, _ *GetInput) (*Output, error) {
		principal := auth.PrincipalFromContext(ctx)

		found, err := svc.Get(ctx, principal.UID)
		if err != nil {
			return nil, mapServiceError(ctx, "get", principal.UID, err)
		}
		return &Output{Body: successEnvelope(msgFetched, found)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "profile-update",
		Method:      http.MethodPatch,
		Path:        "/profile",
		Summary:     "Update current user's profile",
		Description: "Merges the supplied fields into the authenticated user's profile. Omitted fields keep their values.",
		Tags:        []string{"Profile"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *UpdateInput) (*Output, error) {
		principal := auth.PrincipalFromContext(ctx)

		if !hasUpdateFields(input) {
			return nil, huma.Error422UnprocessableEntity("at least one field must be provided")
		}

		updated, err := svc.Update(ctx, principal.UID, profilesvc.UpdateParams{
			Firstname:   input.Body.Firstname,
			Lastname:    input.Body.Lastname,
			Email:       input.Body.Email,
			PhoneNumber: input.Body.PhoneNumber,
			Marketing:   input.Body.Marketing,
		})
		if err != nil {
			return nil, mapServiceError(ctx, "update", principal.UID, err)
		}
		return &Output{Body: successEnvelope(msgUpdated, updated)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "profile-delete",
		Method:      http.MethodDelete,
		Path:        "/profile",
		Summary:     "Delete current user's profile",
		Description: "Permanently deletes the authenticated user's profile and returns its last state.",
		Tags:        []string{"Profile"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, _ *DeleteInput) (*Output, error) {
		principal := auth.PrincipalFromContext(ctx)

		deleted, err := svc.Delete(ctx, principal.UID)
		if err != nil {
			return nil, mapServiceError(ctx, "delete", principal.UID, err)
		}
		return &Output{Body: successEnvelope(msgDeleted, deleted)}, nil
	})
}

func hasUpdateFields(input *UpdateInput) bool {
	return input.Body.Firstname != nil ||
		input.Body.Lastname != nil ||
		input.Body.Email != nil ||
		input.Body.PhoneNumber != nil ||
		input.Body.Marketing != nil
}

// mapServiceError is the one place service failures become HTTP failures.
// Business rule violations keep their fixed messages; anything else is
// logged with the acting principal and collapses to a generic 500.
func mapServiceError(ctx context.Context, op, uid string, err error) error {
	switch {
	case errors.Is(err, profilesvc.ErrNotFound):
		return apperr.NotFound(msgNotFound)
	case errors.Is(err, profilesvc.ErrAlreadyExists):
		return apperr.Conflict(msgExists)
	default:
		applog.LogError(ctx, "profile operation failed", err,
			zap.String("operation", op),
			zap.String("user_id", uid))
		return apperr.Internal("Failed to " + op + " profile")
	}
}

func successEnvelope(message string, p *profilesvc.Profile) Envelope {
	return Envelope{
		Success: true,
		Message: message,
		Profile: toWireProfile(p),
	}
}

func toWireProfile(p *profilesvc.Profile) *Profile {
	if p == nil {
		return nil
	}
	return &Profile{
		ID:          p.ID,
		Firstname:   p.Firstname,
		Lastname:    p.Lastname,
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
		Marketing:   p.Marketing,
		Terms:       p.Terms,
		CreatedAt:   timeutil.NewTime(p.CreatedAt),
		UpdatedAt:   timeutil.NewTime(p.UpdatedAt),
	}
}
