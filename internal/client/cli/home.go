package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/aprilian/storymap/internal/client/services"
)

// formatDate renders the API's RFC3339 timestamps in a compact human
// form, falling back to the raw value when it does not parse.
func formatDate(value string) string {
	if value == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.Format("Jan 2, 2006")
}

// locationLabel prefers the resolved place name over raw coordinates.
func locationLabel(view services.StoryView) string {
	if view.Place != "" {
		return view.Place
	}
	if view.HasLocation() {
		return fmt.Sprintf("%.4f, %.4f", *view.Lat, *view.Lon)
	}
	return "no location"
}

// Home lists the remote stories with place names and saved markers.
func (a *App) Home(ctx context.Context) error {
	views, err := a.stories.Browse(ctx)
	if err != nil {
		return err
	}

	if len(views) == 0 {
		fmt.Fprintln(a.out, "No stories yet.")
		return nil
	}

	for _, view := range views {
		marker := " "
		if view.Saved {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %-24s %-20s %-14s %s\n",
			marker, view.ID, view.Name, formatDate(view.CreatedAt), locationLabel(view))
	}
	fmt.Fprintln(a.out, "\nUse 'show <id>' for details, 'save <id>' to bookmark.")
	return nil
}

// Detail shows a single story in full.
func (a *App) Detail(ctx context.Context, id string) error {
	view, err := a.stories.Detail(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\n", view.Name)
	fmt.Fprintf(a.out, "Posted:   %s\n", formatDate(view.CreatedAt))
	fmt.Fprintf(a.out, "Location: %s\n", locationLabel(*view))
	if view.PhotoURL != "" {
		fmt.Fprintf(a.out, "Photo:    %s\n", view.PhotoURL)
	}
	if view.Saved {
		fmt.Fprintln(a.out, "Saved:    yes")
	}
	fmt.Fprintf(a.out, "\n%s\n", view.Description)
	return nil
}
