package profile

// CreateInput for POST /profile
type CreateInput struct {
	Body struct {
		Firstname   string `json:"firstname"    minLength:"1" maxLength:"100" required:"true" doc:"First name"       example:"John"`
		Lastname    string `json:"lastname"     minLength:"1" maxLength:"100" required:"true" doc:"Last name"        example:"Doe"`
		Email       string `json:"email"        format:"email"                required:"true" doc:"Email address"    example:"john@example.com"`
		PhoneNumber string `json:"phone_number" pattern:"^\\+[1-9]\\d{6,14}$" required:"true" doc:"Phone (E.164)"    example:"+358401234567"`
		Marketing   bool   `json:"marketing"                                 required:"false" doc:"Marketing opt-in" example:"false"`
		Terms       bool   `json:"terms"                                      required:"true" doc:"Terms acceptance" example:"true"`
	}
}

// GetInput for GET /profile (no body)
type GetInput struct{}

// UpdateInput for PATCH /profile. Pointer fields distinguish supplied from
// omitted; omitted fields are never treated as "set to zero".
type UpdateInput struct {
	Body struct {
		Firstname   *string `json:"firstname,omitempty"    minLength:"1" maxLength:"100" doc:"First name"       example:"Jane"`
		Lastname    *string `json:"lastname,omitempty"     minLength:"1" maxLength:"100" doc:"Last name"        example:"Doe"`
		Email       *string `json:"email,omitempty"        format:"email"                doc:"Email address"    example:"jane@example.com"`
		PhoneNumber *string `json:"phone_number,omitempty" pattern:"^\\+[1-9]\\d{6,14}$" doc:"Phone (E.164)"    example:"+358401234567"`
		Marketing   *bool   `json:"marketing,omitempty"                                  doc:"Marketing opt-in" example:"true"`
	}
}

// DeleteInput for DELETE /profile (no body)
type DeleteInput struct{}
