// Package services contains application services for the storymap client.
// This file defines the authentication service: login against the story API,
// registration, and housekeeping of the locally persisted session token.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aprilian/storymap/internal/client/api"
	"github.com/aprilian/storymap/internal/client/repositories/metadata"
	"github.com/aprilian/storymap/internal/client/validation"
	"github.com/aprilian/storymap/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// ErrValidation wraps field validation failures so callers can print
// them instead of treating them as transport errors.
var ErrValidation = errors.New("validation failed")

// AuthService defines session operations for the CLI.
//
// Contract:
//   - Login: authenticate against the story API and persist the session token.
//   - Register: create a new account on the story API.
//   - Token: return the persisted token, or "" when no session exists.
//   - CurrentUser: return the display name of the logged-in user.
//   - Logout: drop the persisted session.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, email string, password string) (*api.LoginResult, error)
	Register(ctx context.Context, name string, email string, password string) error
	Token(ctx context.Context) (string, error)
	CurrentUser(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
}

type authService struct {
	client   api.Client
	metadata metadata.Repository
}

// NewAuthService constructs an AuthService bound to the given API client
// and metadata repository.
func NewAuthService(client api.Client, meta metadata.Repository) AuthService {
	return &authService{client: client, metadata: meta}
}

func validationError(errs []string) error {
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, "; "))
}

// Login validates the credentials, authenticates against the story API,
// and persists the returned token and user name for later sessions.
func (a *authService) Login(ctx context.Context, email string, password string) (*api.LoginResult, error) {
	if errs := validation.ValidateLogin(email, password); len(errs) > 0 {
		return nil, validationError(errs)
	}

	login, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	if err := a.metadata.Set(ctx, metadata.TokenKey, login.Token); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	if err := a.metadata.Set(ctx, metadata.UserNameKey, login.Name); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return login, nil
}

// Register validates the form and creates a new account on the story API.
// The user still has to log in afterwards.
func (a *authService) Register(ctx context.Context, name string, email string, password string) error {
	if errs := validation.ValidateRegistration(name, email, password); len(errs) > 0 {
		return validationError(errs)
	}

	if err := a.client.Register(ctx, name, email, password); err != nil {
		return fmt.Errorf("registration error: %w", err)
	}
	return nil
}

// Token returns the persisted session token. Placeholder values that a
// previous buggy session may have written ("null", "undefined") count
// as no session at all.
func (a *authService) Token(ctx context.Context) (string, error) {
	token, err := a.metadata.Get(ctx, metadata.TokenKey)
	if errors.Is(err, common.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if token == "" || token == "null" || token == "undefined" {
		return "", nil
	}
	return token, nil
}

// CurrentUser returns the display name of the logged-in user. The name
// comes from the token claims when possible, falling back to the name
// persisted at login time. Returns common.ErrUnauthorized when no
// session exists.
func (a *authService) CurrentUser(ctx context.Context) (string, error) {
	token, err := a.Token(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", common.ErrUnauthorized
	}

	if name := nameFromToken(token); name != "" {
		return name, nil
	}

	name, err := a.metadata.Get(ctx, metadata.UserNameKey)
	if errors.Is(err, common.ErrNotFound) {
		return "", common.ErrUnauthorized
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

// nameFromToken extracts a display name from the JWT claims without
// verifying the signature. The client has no key material, the token is
// only trusted as far as the server accepted it.
func nameFromToken(token string) string {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return ""
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	if name, ok := claims["name"].(string); ok && name != "" {
		return name
	}
	if id, ok := claims["userId"].(string); ok {
		return id
	}
	return ""
}

// Logout drops the persisted session token and user name.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.metadata.Delete(ctx, metadata.TokenKey); err != nil {
		return fmt.Errorf("failed to drop session: %w", err)
	}
	if err := a.metadata.Delete(ctx, metadata.UserNameKey); err != nil {
		return fmt.Errorf("failed to drop session: %w", err)
	}
	return nil
}
