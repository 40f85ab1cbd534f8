// Package api implements the client for the remote story service.
package api

import (
	"context"

	"github.com/aprilian/storymap/internal/client/models"
)

// Client is the remote story API surface used by the application services.
type Client interface {
	// ListStories fetches the story collection with bearer auth.
	ListStories(ctx context.Context, token string) ([]models.Story, error)

	// GetStory fetches a single story by id.
	GetStory(ctx context.Context, token, id string) (*models.Story, error)

	// AddStory creates a story as the authenticated user.
	AddStory(ctx context.Context, token string, story NewStory) error

	// AddStoryGuest creates a story through the unauthenticated endpoint.
	AddStoryGuest(ctx context.Context, story NewStory) error

	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Register creates a new account. The caller still has to login afterwards.
	Register(ctx context.Context, name, email, password string) error
}

// NewStory is the multipart payload for story creation. Lat and Lon are sent
// only when both are present.
type NewStory struct {
	Description string
	PhotoName   string
	Photo       []byte
	Lat         *float64
	Lon         *float64
}

// LoginResult is the session data handed out on a successful login.
type LoginResult struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}
