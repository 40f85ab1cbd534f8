package cli

import (
	"context"
	"fmt"
)

// About prints a short description of the application.
func (a *App) About(ctx context.Context) error {
	fmt.Fprintln(a.out, "storymap - browse and share geotagged community stories.")
	fmt.Fprintln(a.out, "Stories come from the public story API; place names are")
	fmt.Fprintln(a.out, "resolved through a reverse-geocoding service. Saved stories")
	fmt.Fprintln(a.out, "live in a local database and work offline.")
	return nil
}
