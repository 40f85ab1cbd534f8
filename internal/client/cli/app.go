package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aprilian/storymap/internal/client/api"
	"github.com/aprilian/storymap/internal/client/config"
	"github.com/aprilian/storymap/internal/client/geocode"
	"github.com/aprilian/storymap/internal/client/services"
	"github.com/aprilian/storymap/internal/client/storage"
	"github.com/aprilian/storymap/internal/common"
	"github.com/aprilian/storymap/internal/logging"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	repos    *storage.Repositories
	auth     services.AuthService
	stories  services.StoryService
	reader   *bufio.Reader
	out      io.Writer
	userName string
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(c.LogLevel)

	if err := os.MkdirAll(c.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}

	repos, err := storage.Open(ctx, c.DatabasePath())
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	apiClient := api.NewHTTPClient(c.APIBaseURL, c.HTTPTimeout)
	places := geocode.New(c.GeocodeBaseURL, c.GeocodeAPIKey, c.HTTPTimeout)

	auth := services.NewAuthService(apiClient, repos.Metadata)
	stories := services.NewStoryService(apiClient, auth, repos.Wishlist, places, log, c.DataDir)

	return &App{
		config:  c,
		log:     log,
		repos:   repos,
		auth:    auth,
		stories: stories,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run restores the previous session (if any), starts the REPL on stdin,
// and blocks until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.repos.Close()

	a.restoreSession(ctx)

	fmt.Fprintln(a.out, "Welcome to storymap (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// restoreSession picks up the user name of a previously persisted session.
func (a *App) restoreSession(ctx context.Context) {
	name, err := a.auth.CurrentUser(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrUnauthorized) {
			a.log.Warn(ctx, "failed to restore session", "error", err)
		}
		return
	}
	a.userName = name
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	token, err := a.auth.Token(ctx)
	return err == nil && token != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}
