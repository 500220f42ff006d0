package dto

import "github.com/penwellapp/penwell-server/internal/service"

// Authorized is embedded in every input that reads the bearer token.
type Authorized struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
}

// RegisterInput wraps the registration request for huma.
type RegisterInput struct {
	Body service.RegisterRequest
}

// LoginInput wraps the login request for huma.
type LoginInput struct {
	Body service.LoginRequest
}

// AuthOutput wraps the token response for huma.
type AuthOutput struct {
	Body *service.AuthResponse
}
