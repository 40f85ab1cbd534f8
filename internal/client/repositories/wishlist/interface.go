package wishlist

import (
	"context"

	"github.com/aprilian/storymap/internal/client/models"
)

// RemoveResult reports the outcome of removing a single story during a
// batch removal.
type RemoveResult struct {
	ID    string
	Story *models.SavedStory
	Err   error
}

// Repository stores the stories the user has saved for later.
type Repository interface {
	// Add inserts a new story. A story with the same id must not
	// already exist.
	Add(ctx context.Context, story models.Story) (*models.SavedStory, error)
	// Update replaces an existing story, keeping its original AddedAt.
	Update(ctx context.Context, story models.Story) (*models.SavedStory, error)
	// Remove deletes a story and returns the record that was deleted.
	Remove(ctx context.Context, id string) (*models.SavedStory, error)
	// RemoveMany deletes several stories, continuing past individual
	// failures. The returned error is non-nil if at least one removal
	// failed.
	RemoveMany(ctx context.Context, ids []string) ([]RemoveResult, error)
	Clear(ctx context.Context) error
	GetAll(ctx context.Context) ([]models.SavedStory, error)
	GetByID(ctx context.Context, id string) (*models.SavedStory, bool, error)
	FindByName(ctx context.Context, name string) ([]models.SavedStory, error)
}
