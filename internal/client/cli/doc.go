// Package cli provides the interactive storymap command-line client.
//
// It wires configuration, local storage, the story API client, and an
// interactive REPL for browsing geotagged community stories.
//
// Key features:
//   - Login / Register / Logout against the story API
//   - Browse stories with resolved place names
//   - Submit a new story (as user or guest) with photo and coordinates
//   - Save stories to a local wishlist that survives restarts
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
