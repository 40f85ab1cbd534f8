package cli

import (
	"context"
	"fmt"

	"github.com/aprilian/storymap/internal/client/services"
)

// AddStory walks the user through a story submission: description, photo
// path, optional coordinates. A user without a session can still post
// through the guest endpoint; a logged-in user is asked which to use.
func (a *App) AddStory(ctx context.Context) error {
	description, err := getSimpleText(a.reader, "Enter description", a.out)
	if err != nil {
		return err
	}
	photoPath, err := getSimpleText(a.reader, "Enter photo path", a.out)
	if err != nil {
		return err
	}
	lat, err := GetOptionalFloat(a.reader, "Enter latitude", a.out)
	if err != nil {
		return err
	}
	var lon *float64
	if lat != nil {
		lon, err = GetOptionalFloat(a.reader, "Enter longitude", a.out)
		if err != nil {
			return err
		}
	}

	asGuest := true
	if a.isLoggedIn(ctx) {
		asGuest, err = GetYesNo(a.reader, "Post as guest?", a.out)
		if err != nil {
			return err
		}
	} else {
		fmt.Fprintln(a.out, "Not logged in, posting as guest.")
	}

	form := services.SubmissionForm{
		Description: description,
		PhotoPath:   photoPath,
		Lat:         lat,
		Lon:         lon,
		AsGuest:     asGuest,
	}
	if err := a.stories.Submit(ctx, form); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Story published!")
	return nil
}
