// server/internal/auth/google.go
package auth

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"
)

// GoogleIdentity is the subset of a verified Google ID token the app cares
// about.
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
}

// VerifyGoogleCredential validates a Google ID token against the configured
// OAuth client ID and extracts the identity fields used for signup/login.
func VerifyGoogleCredential(ctx context.Context, credential, clientID string) (*GoogleIdentity, error) {
	if clientID == "" {
		return nil, errors.New("google client ID is not configured")
	}

	payload, err := idtoken.Validate(ctx, credential, clientID)
	if err != nil {
		return nil, err
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, errors.New("google token has no email claim")
	}
	name, _ := payload.Claims["name"].(string)

	return &GoogleIdentity{
		Subject: payload.Subject,
		Email:   email,
		Name:    name,
	}, nil
}
