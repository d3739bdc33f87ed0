// ABOUTME: Interactive REPL client for the articles API
// ABOUTME: Slash commands drive login, listing and the article form; screens redraw after each command

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/2389/articles/internal/bootstrap"
	"github.com/2389/articles/internal/config"
	"github.com/2389/articles/internal/views"
)

func main() {
	configPath := flag.String("config", "", "Client config file (default: $ARTICLES_CONFIG or ~/.config/articles/client.toml)")
	flag.Parse()

	_ = godotenv.Load()

	path := *configPath
	if path == "" {
		path = config.DefaultClientPath()
	}

	env, err := bootstrap.Load(path, os.Stderr)
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	st := views.DefaultStyles()
	if color.NoColor {
		st = views.Plain()
	}

	fmt.Printf("articles-tui connected to %s\n", env.Client.BaseURL())
	if env.Session.Authenticated() {
		fmt.Println("Session: token found")
	} else {
		fmt.Println("Session: none (use /login <username>)")
	}
	fmt.Println("/help for commands. Ctrl+C to quit.")
	fmt.Println()

	// Setup context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	r := newREPL(env, os.Stdin, os.Stdout, st)
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		r.secret = func() (string, error) {
			b, err := term.ReadPassword(fd)
			return string(b), err
		}
	}
	if err := r.run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
