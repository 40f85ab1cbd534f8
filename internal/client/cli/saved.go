package cli

import (
	"context"
	"fmt"

	"github.com/aprilian/storymap/internal/client/models"
)

func (a *App) printSavedStories(stories []models.SavedStory) {
	for _, s := range stories {
		fmt.Fprintf(a.out, "  %-24s %-20s added %s\n", s.ID, s.Name, formatDate(s.AddedAt))
	}
}

// Saved lists the locally bookmarked stories. The wishlist works without
// a session; it is local data.
func (a *App) Saved(ctx context.Context) error {
	stories, err := a.stories.Saved(ctx)
	if err != nil {
		return err
	}
	if len(stories) == 0 {
		fmt.Fprintln(a.out, "No saved stories yet. Use 'save <id>' while browsing.")
		return nil
	}

	fmt.Fprintf(a.out, "Saved stories (%d):\n", len(stories))
	a.printSavedStories(stories)
	return nil
}

// Save bookmarks a story by id.
func (a *App) Save(ctx context.Context, id string) error {
	saved, err := a.stories.Save(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved story by %s.\n", saved.Name)
	return nil
}

// Unsave removes one or more bookmarks. With several ids the removals
// are best-effort and each outcome is reported on its own line.
func (a *App) Unsave(ctx context.Context, ids []string) error {
	if len(ids) == 1 {
		removed, err := a.stories.Unsave(ctx, ids[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Removed story by %s from saved.\n", removed.Name)
		return nil
	}

	results, err := a.stories.UnsaveMany(ctx, ids)
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(a.out, "  %-24s failed: %v\n", res.ID, res.Err)
		} else {
			fmt.Fprintf(a.out, "  %-24s removed\n", res.ID)
		}
	}
	return err
}

// ClearSaved empties the wishlist after an explicit confirmation.
func (a *App) ClearSaved(ctx context.Context) error {
	ok, err := GetYesNo(a.reader, "Remove all saved stories?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err := a.stories.ClearSaved(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Saved stories cleared.")
	return nil
}

// Find searches the saved stories by the author's exact name.
func (a *App) Find(ctx context.Context, name string) error {
	stories, err := a.stories.Find(ctx, name)
	if err != nil {
		return err
	}
	if len(stories) == 0 {
		fmt.Fprintf(a.out, "No saved stories by %q.\n", name)
		return nil
	}
	a.printSavedStories(stories)
	return nil
}
