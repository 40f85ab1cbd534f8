package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// pagesIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type pagesIface interface {
	isLoggedIn(ctx context.Context) bool
	Home(ctx context.Context) error
	Detail(ctx context.Context, id string) error
	AddStory(ctx context.Context) error
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Logout(ctx context.Context) error
	Saved(ctx context.Context) error
	Save(ctx context.Context, id string) error
	Unsave(ctx context.Context, ids []string) error
	ClearSaved(ctx context.Context) error
	Find(ctx context.Context, name string) error
	About(ctx context.Context) error
}

// route is one dispatchable command. Commands whose usage names an
// argument require at least one; the rest ignore extra tokens.
type route struct {
	usage string
	run   func(ctx context.Context, args []string) error
}

// routeTable maps command names (and their aliases) to handlers,
// the way a single-page app maps URL fragments to pages.
func routeTable(p pagesIface) map[string]route {
	home := route{usage: "home", run: func(ctx context.Context, _ []string) error { return p.Home(ctx) }}
	saved := route{usage: "saved", run: func(ctx context.Context, _ []string) error { return p.Saved(ctx) }}

	return map[string]route{
		"home":  home,
		"list":  home,
		"l":     home,
		"show":  {usage: "show <id>", run: func(ctx context.Context, args []string) error { return p.Detail(ctx, args[0]) }},
		"add":   {usage: "add", run: func(ctx context.Context, _ []string) error { return p.AddStory(ctx) }},
		"login": {usage: "login", run: func(ctx context.Context, _ []string) error { return p.Login(ctx) }},
		"register": {usage: "register", run: func(ctx context.Context, _ []string) error {
			return p.Register(ctx)
		}},
		"logout": {usage: "logout", run: func(ctx context.Context, _ []string) error { return p.Logout(ctx) }},
		"saved":  saved,
		"s":      saved,
		"save":   {usage: "save <id>", run: func(ctx context.Context, args []string) error { return p.Save(ctx, args[0]) }},
		"unsave": {usage: "unsave <id> [id...]", run: func(ctx context.Context, args []string) error { return p.Unsave(ctx, args) }},
		"clear-saved": {usage: "clear-saved", run: func(ctx context.Context, _ []string) error {
			return p.ClearSaved(ctx)
		}},
		"find": {usage: "find <name>", run: func(ctx context.Context, args []string) error {
			return p.Find(ctx, strings.Join(args, " "))
		}},
		"about": {usage: "about", run: func(ctx context.Context, _ []string) error { return p.About(ctx) }},
	}
}

func needsArg(r route) bool {
	return strings.Contains(r.usage, "<")
}

func printHelp(ctx context.Context, p pagesIface) {
	if p.isLoggedIn(ctx) {
		printlnFn("Available commands: home/(l)ist, show <id>, add, (s)aved, save <id>, unsave <id>, clear-saved, find <name>, about, logout, exit")
	} else {
		printlnFn("Available commands: login, register, add (as guest), about, exit")
	}
}

// runREPL starts a simple read–eval–print loop for the storymap CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches through the route table. Unknown commands are
// reported together with the help text instead of stopping the loop. The
// loop exits on scanner EOF or when the user types "exit" or "quit".
//
// Any errors returned by command handlers are printed, not propagated;
// the REPL itself never fails on a bad command.
func runREPL(ctx context.Context, p pagesIface, statusFn func() string, scanner *bufio.Scanner) {
	routes := routeTable(p)

	for {
		printlnFn(fmt.Sprintf("storymap %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printHelp(ctx, p)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		r, ok := routes[cmd]
		if !ok {
			printlnFn("Unknown command:", cmd)
			printHelp(ctx, p)
			continue
		}
		if needsArg(r) && len(args) == 0 {
			printlnFn("Usage: " + r.usage)
			continue
		}
		if err := r.run(ctx, args); err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
