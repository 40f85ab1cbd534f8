package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aprilian/storymap/internal/client/api"
	"github.com/aprilian/storymap/internal/client/models"
	"github.com/aprilian/storymap/internal/client/repositories/wishlist"
	"github.com/aprilian/storymap/internal/client/validation"
	"github.com/aprilian/storymap/internal/common"
	"github.com/aprilian/storymap/internal/filex"
	"github.com/aprilian/storymap/internal/logging"
	"github.com/aprilian/storymap/internal/netx"
	"golang.org/x/sync/errgroup"
)

// placeLookupLimit caps concurrent reverse-geocoding requests while
// decorating a story list.
const placeLookupLimit = 4

// test seams
var (
	readFileFn  = os.ReadFile
	writeFileFn = os.WriteFile
)

// PlaceResolver turns a coordinate pair into a human-readable place name.
type PlaceResolver interface {
	PlaceName(ctx context.Context, lat, lon float64) string
}

// StoryView is a story decorated for display: the place name resolved
// from its coordinates and whether it is in the local wishlist.
type StoryView struct {
	models.Story
	Place string
	Saved bool
}

// SubmissionForm collects the raw inputs for a new story.
type SubmissionForm struct {
	Description string
	PhotoPath   string
	Lat         *float64
	Lon         *float64
	AsGuest     bool
}

// StoryService defines the story operations of the CLI.
//
// Contract:
//   - Browse: list remote stories, decorated with place names and saved flags.
//   - Detail: fetch one story by id, decorated the same way.
//   - Submit: validate a submission form and post it, as user or guest.
//   - Save/Unsave/Saved/ClearSaved/Find: manage the local wishlist.
//
// All methods must honor context cancellation/timeouts.
type StoryService interface {
	Browse(ctx context.Context) ([]StoryView, error)
	Detail(ctx context.Context, id string) (*StoryView, error)
	Submit(ctx context.Context, form SubmissionForm) error
	Save(ctx context.Context, id string) (*models.SavedStory, error)
	Unsave(ctx context.Context, id string) (*models.SavedStory, error)
	UnsaveMany(ctx context.Context, ids []string) ([]wishlist.RemoveResult, error)
	Saved(ctx context.Context) ([]models.SavedStory, error)
	ClearSaved(ctx context.Context) error
	Find(ctx context.Context, name string) ([]models.SavedStory, error)
}

type storyService struct {
	client  api.Client
	auth    AuthService
	repo    wishlist.Repository
	places  PlaceResolver
	log     logging.Logger
	dataDir string
}

// NewStoryService constructs a StoryService. dataDir is where mirrored
// photos of saved stories are kept; an empty dataDir disables mirroring.
func NewStoryService(client api.Client, auth AuthService, repo wishlist.Repository,
	places PlaceResolver, log logging.Logger, dataDir string) StoryService {
	return &storyService{
		client:  client,
		auth:    auth,
		repo:    repo,
		places:  places,
		log:     log,
		dataDir: dataDir,
	}
}

func (s *storyService) requireToken(ctx context.Context) (string, error) {
	token, err := s.auth.Token(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", common.ErrUnauthorized
	}
	return token, nil
}

// Browse lists the remote stories. Place names are resolved concurrently
// with a small cap; a failed lookup degrades to raw coordinates, never to
// an error.
func (s *storyService) Browse(ctx context.Context) ([]StoryView, error) {
	token, err := s.requireToken(ctx)
	if err != nil {
		return nil, err
	}

	stories, err := s.client.ListStories(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to load stories: %w", err)
	}

	saved, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	savedIDs := make(map[string]struct{}, len(saved))
	for _, item := range saved {
		savedIDs[item.ID] = struct{}{}
	}

	views := make([]StoryView, len(stories))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(placeLookupLimit)
	for i, story := range stories {
		views[i].Story = story
		_, views[i].Saved = savedIDs[story.ID]
		if !story.HasLocation() {
			continue
		}
		g.Go(func() error {
			views[i].Place = s.places.PlaceName(gctx, *story.Lat, *story.Lon)
			return nil
		})
	}
	_ = g.Wait()

	return views, nil
}

// Detail fetches a single story and decorates it like Browse does.
func (s *storyService) Detail(ctx context.Context, id string) (*StoryView, error) {
	token, err := s.requireToken(ctx)
	if err != nil {
		return nil, err
	}

	story, err := s.client.GetStory(ctx, token, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load story %s: %w", id, err)
	}

	view := &StoryView{Story: *story}
	if story.HasLocation() {
		view.Place = s.places.PlaceName(ctx, *story.Lat, *story.Lon)
	}

	_, view.Saved, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// photoMIME maps the file extension to the MIME type declared on upload.
func photoMIME(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return mime.TypeByExtension(filepath.Ext(name))
	}
}

// Submit validates the form and posts the story. AsGuest uses the
// unauthenticated endpoint; otherwise a session is required.
func (s *storyService) Submit(ctx context.Context, form SubmissionForm) error {
	photo, err := readFileFn(form.PhotoPath)
	if err != nil {
		return fmt.Errorf("failed to read photo %s: %w", form.PhotoPath, err)
	}

	photoName := filepath.Base(form.PhotoPath)
	result := validation.ValidateStoryForm(validation.Form{
		Description: form.Description,
		Photo: validation.Photo{
			Name: photoName,
			MIME: photoMIME(photoName),
			Size: int64(len(photo)),
		},
		Lat: form.Lat,
		Lon: form.Lon,
	})
	if !result.Valid {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(result.FieldErrors, "; "))
	}
	if err := validation.ValidatePhotoContent(photo); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	story := api.NewStory{
		Description: result.Values.Description,
		PhotoName:   photoName,
		Photo:       photo,
	}
	if loc := result.Values.Location; loc != nil {
		story.Lat = &loc.Lat
		story.Lon = &loc.Lon
	}

	if form.AsGuest {
		if err := s.client.AddStoryGuest(ctx, story); err != nil {
			return fmt.Errorf("failed to submit story: %w", err)
		}
		return nil
	}

	token, err := s.requireToken(ctx)
	if err != nil {
		return err
	}
	if err := s.client.AddStory(ctx, token, story); err != nil {
		return fmt.Errorf("failed to submit story: %w", err)
	}
	return nil
}

// Save fetches the story and adds it to the local wishlist. The photo is
// mirrored to local storage on a best-effort basis: a failed download
// only logs a warning, the bookmark itself is already durable.
func (s *storyService) Save(ctx context.Context, id string) (*models.SavedStory, error) {
	token, err := s.requireToken(ctx)
	if err != nil {
		return nil, err
	}

	story, err := s.client.GetStory(ctx, token, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load story %s: %w", id, err)
	}

	saved, err := s.repo.Add(ctx, *story)
	if err != nil {
		return nil, err
	}

	s.mirrorPhoto(ctx, saved)
	return saved, nil
}

func (s *storyService) mirrorPhoto(ctx context.Context, story *models.SavedStory) {
	if s.dataDir == "" || story.PhotoURL == "" {
		return
	}

	dir, err := filex.EnsureSubDir(s.dataDir, "photos")
	if err != nil {
		s.log.Warn(ctx, "failed to prepare photo directory", "error", err)
		return
	}

	data, err := netx.DownloadFile(ctx, story.PhotoURL)
	if err != nil {
		s.log.Warn(ctx, "failed to mirror story photo", "story", story.ID, "error", err)
		return
	}

	ext := filepath.Ext(story.PhotoURL)
	if ext == "" {
		ext = ".jpg"
	}
	path := filepath.Join(dir, story.ID+ext)
	if err := writeFileFn(path, data, 0o600); err != nil {
		s.log.Warn(ctx, "failed to store story photo", "story", story.ID, "error", err)
	}
}

// Unsave removes a story from the wishlist and returns the removed record.
func (s *storyService) Unsave(ctx context.Context, id string) (*models.SavedStory, error) {
	removed, err := s.repo.Remove(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("story %s is not saved: %w", id, err)
		}
		return nil, err
	}
	return removed, nil
}

// UnsaveMany removes several bookmarks, continuing past individual
// failures. The per-id results let the caller report exactly which
// removals failed.
func (s *storyService) UnsaveMany(ctx context.Context, ids []string) ([]wishlist.RemoveResult, error) {
	return s.repo.RemoveMany(ctx, ids)
}

// Saved returns the wishlist, most recently added first.
func (s *storyService) Saved(ctx context.Context) ([]models.SavedStory, error) {
	stories, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(stories, func(i, j int) bool {
		return stories[i].AddedAt > stories[j].AddedAt
	})
	return stories, nil
}

func (s *storyService) ClearSaved(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// Find returns the saved stories whose author name matches exactly.
func (s *storyService) Find(ctx context.Context, name string) ([]models.SavedStory, error) {
	return s.repo.FindByName(ctx, name)
}
