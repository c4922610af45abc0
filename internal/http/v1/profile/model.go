package profile

import (
	"github.com/mkarvo/profile-api/internal/platform/timeutil"
)

// Profile is the wire representation of a stored profile.
type Profile struct {
	ID          string        `json:"id"           doc:"Unique identifier"     example:"user-abc123"`
	Firstname   string        `json:"firstname"    doc:"First name"            example:"John"`
	Lastname    string        `json:"lastname"     doc:"Last name"             example:"Doe"`
	Email       string        `json:"email"        doc:"Email address"         example:"john@example.com"`
	PhoneNumber string        `json:"phone_number" doc:"Phone number (E.164)"  example:"+358401234567"`
	Marketing   bool          `json:"marketing"    doc:"Marketing opt-in"      example:"false"`
	Terms       bool          `json:"terms"        doc:"Terms acceptance"      example:"true"`
	CreatedAt   timeutil.Time `json:"created_at"   doc:"Creation timestamp"    example:"2025-01-15T10:30:00.000Z"`
	UpdatedAt   timeutil.Time `json:"updated_at"   doc:"Last update timestamp" example:"2025-01-15T10:30:00.000Z"`
}

// Envelope is the uniform response wrapper for profile operations. Profile
// is null only when an operation has no entity to return.
type Envelope struct {
	Success bool     `json:"success" doc:"Operation success status" example:"true"`
	Message string   `json:"message" doc:"Result message"           example:"Profile created successfully"`
	Profile *Profile `json:"profile" doc:"Profile data if available"`
}
