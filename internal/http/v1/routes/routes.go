// Package routes wires handlers, services, and the verifier into the API.
// All dependencies arrive through this function; handlers never resolve
// anything at request time.
package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/mkarvo/profile-api/internal/http/v1/profile"
	"github.com/mkarvo/profile-api/internal/platform/auth"
	profilesvc "github.com/mkarvo/profile-api/internal/service/profile"
)

// Register attaches the auth middleware and all resource routes.
func Register(api huma.API, verifier auth.Verifier, profileService profilesvc.Service) {
	api.UseMiddleware(auth.NewMiddleware(api, verifier))

	profile.Register(api, profileService)
}
