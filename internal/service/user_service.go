// server/internal/service/user_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"agrifield-api-server/internal/auth"
	"agrifield-api-server/internal/models"
	"agrifield-api-server/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserService owns signup, login, Google sign-in and the onboarding profile
// step. Users are never hard-deleted.
type UserService struct {
	Users          repository.UserRepository
	GoogleClientID string
	Logger         *zap.Logger

	// verifyGoogle is swapped out in tests; defaults to the real verifier.
	verifyGoogle func(ctx context.Context, credential, clientID string) (*auth.GoogleIdentity, error)
}

func NewUserService(users repository.UserRepository, googleClientID string, logger *zap.Logger) *UserService {
	return &UserService{
		Users:          users,
		GoogleClientID: googleClientID,
		Logger:         logger,
		verifyGoogle:   auth.VerifyGoogleCredential,
	}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

func (s *UserService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, validationf("name is required")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, validationf("email is required")
	}
	if len(input.Password) < 6 {
		return nil, validationf("password must be at least 6 characters")
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Password:     hashed,
		AuthProvider: models.ProviderLocal,
	}
	if err := s.Users.Insert(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Password == "" || !auth.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GoogleLogin verifies the ID-token credential and returns the matching user,
// creating one on first sign-in. Google accounts start without a password;
// the onboarding step can set one later.
func (s *UserService) GoogleLogin(ctx context.Context, credential string) (*models.User, error) {
	identity, err := s.verifyGoogle(ctx, credential, s.GoogleClientID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Users.FindByEmail(ctx, strings.ToLower(identity.Email))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user = &models.User{
		Name:         identity.Name,
		Email:        strings.ToLower(identity.Email),
		AuthProvider: models.ProviderGoogle,
	}
	if err := s.Users.Insert(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Raced with another first sign-in; the account exists now.
			return s.Users.FindByEmail(ctx, user.Email)
		}
		return nil, err
	}
	s.Logger.Info("created user from google sign-in", zap.String("user", user.ID.Hex()))
	return user, nil
}

// GetProfile fetches a user record. Requester must be the user themselves.
func (s *UserService) GetProfile(ctx context.Context, requester, id primitive.ObjectID) (*models.User, error) {
	if requester != id {
		return nil, ErrNotAuthorized
	}
	user, err := s.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

type UpdateProfileInput struct {
	Name     string
	Age      int
	State    string
	District string
	Pincode  string
	Password string
}

// UpdateProfile completes the onboarding fields and optionally sets a
// password (the path by which a Google account gains local login).
func (s *UserService) UpdateProfile(ctx context.Context, requester, id primitive.ObjectID, input UpdateProfileInput) (*models.User, error) {
	if requester != id {
		return nil, ErrNotAuthorized
	}
	if input.Age < 0 {
		return nil, validationf("age cannot be negative")
	}

	update := repository.ProfileUpdate{
		Name:     strings.TrimSpace(input.Name),
		Age:      input.Age,
		State:    input.State,
		District: input.District,
		Pincode:  input.Pincode,
	}
	if input.Password != "" {
		if len(input.Password) < 6 {
			return nil, validationf("password must be at least 6 characters")
		}
		hashed, err := auth.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		update.Password = hashed
	}

	if err := s.Users.UpdateProfile(ctx, id, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Users.FindByID(ctx, id)
}
