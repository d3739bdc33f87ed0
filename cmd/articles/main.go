// ABOUTME: One-shot CLI for the articles API: login, logout, list, create, update, delete
// ABOUTME: Stores the session token locally and prints server messages with colour

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/2389/articles/internal/app"
	"github.com/2389/articles/internal/bootstrap"
	"github.com/2389/articles/internal/config"
	"github.com/2389/articles/internal/model"
	"github.com/2389/articles/internal/views"
)

const banner = `
            _   _      _
  __ _ _ __| |_(_) ___| | ___  ___
 / _' | '__| __| |/ __| |/ _ \/ __|
| (_| | |  | |_| | (__| |  __/\__ \
 \__,_|_|   \__|_|\___|_|\___||___/
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	cmd := os.Args[1]
	args := os.Args[2:]

	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage()
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cmd, args); err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, args []string) error {
	env, err := bootstrap.Load(config.DefaultClientPath(), os.Stderr)
	if err != nil {
		return err
	}
	defer env.Close()

	return newCLI(env, os.Stdout, styles()).dispatch(ctx, cmd, args)
}

func (c *cli) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return c.login(ctx, args)
	case "logout":
		return c.logout()
	case "status":
		return c.status(ctx)
	case "list":
		return c.list(ctx, args)
	case "create":
		return c.create(ctx, args)
	case "update":
		return c.update(ctx, args)
	case "delete":
		return c.delete(ctx, args)
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: articles <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  login --username <u> [--password <p>]     Log in and store the session token")
	fmt.Println("  logout                                      Clear local storage")
	fmt.Println("  status                                      Show API and session status")
	fmt.Println("  list [--table]                              List articles")
	fmt.Println("  create --title <t> --text <x> --topic <t>   Create an article")
	fmt.Println("  update <id> [--title] [--text] [--topic]    Update an article")
	fmt.Println("  delete <id>                                 Delete an article")
	fmt.Println()
	yellow.Println("Topics:")
	fmt.Printf("  %s\n", strings.Join(model.Topics, ", "))
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  ARTICLES_CONFIG          Client config file (default: ~/.config/articles/client.toml)")
	fmt.Println("  ARTICLES_TOKEN           Session token, overrides the stored one")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  articles login --username foo")
	fmt.Println("  articles create --title 'Closures' --text 'Functions remember scope' --topic JavaScript")
	fmt.Println("  articles update 3 --topic React")
	fmt.Println()
}

func styles() views.Styles {
	if color.NoColor {
		return views.Plain()
	}
	return views.DefaultStyles()
}

type cli struct {
	env     *bootstrap.Env
	out     io.Writer
	styles  views.Styles
	loading bool
	expired bool
}

func newCLI(env *bootstrap.Env, out io.Writer, st views.Styles) *cli {
	c := &cli{env: env, out: out, styles: st}
	env.App.Subscribe(c.showSpinner)
	env.Router.OnNavigate(c.onNavigate)
	return c
}

// showSpinner prints the spinner on stderr whenever a request starts.
func (c *cli) showSpinner(s app.State) {
	if s.Loading && !c.loading {
		fmt.Fprintln(os.Stderr, views.Spinner(true, c.styles))
	}
	c.loading = s.Loading
}

func (c *cli) onNavigate(to app.Route) {
	if to == app.RouteLogin {
		c.expired = true
	}
}

func (c *cli) printMessage() {
	if msg := views.Message(c.env.App.State().Message, c.styles); msg != "" {
		fmt.Fprintln(c.out, msg)
	}
}

// requestError adds a login hint when the request was rejected for auth.
func (c *cli) requestError(err error) error {
	if c.expired {
		return fmt.Errorf("%w (session cleared; run: articles login --username <name>)", err)
	}
	return err
}

// parseFlags splits --name value pairs from positional args.
func parseFlags(args []string, names ...string) (map[string]string, []string) {
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}

	flags := make(map[string]string)
	var positional []string
	for i := 0; i < len(args); i++ {
		name := strings.TrimLeft(args[i], "-")
		if strings.HasPrefix(args[i], "--") && known[name] {
			if i+1 < len(args) {
				flags[name] = args[i+1]
				i++
			} else {
				flags[name] = ""
			}
			continue
		}
		positional = append(positional, args[i])
	}
	return flags, positional
}

func parseID(args []string, usage string) (int, error) {
	if len(args) < 1 {
		return 0, errors.New(usage)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid article id %q", args[0])
	}
	return id, nil
}

// readPassword prompts on stderr. A terminal gets no echo; piped input is
// read as one line.
func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *cli) login(ctx context.Context, args []string) error {
	flags, _ := parseFlags(args, "username", "password")
	username := flags["username"]
	if username == "" {
		return errors.New("usage: login --username <username> [--password <password>]")
	}

	password, ok := flags["password"]
	if !ok {
		var err error
		if password, err = readPassword(); err != nil {
			return err
		}
	}

	err := c.env.App.Login(ctx, model.Credentials{Username: username, Password: password})
	c.printMessage()
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Fprintln(c.out, "✓ Token stored")
	return nil
}

func (c *cli) logout() error {
	err := c.env.App.Logout()
	c.printMessage()
	return err
}

func (c *cli) status(ctx context.Context) error {
	cyan := color.New(color.FgCyan)
	cyan.Println("Articles Status")
	fmt.Fprintln(c.out, "===============")

	fmt.Fprintf(c.out, "API:      %s ", c.env.Client.BaseURL())
	if err := c.env.Client.Health(ctx); err != nil {
		fmt.Fprintln(c.out, color.RedString("unreachable (%v)", err))
	} else {
		fmt.Fprintln(c.out, color.GreenString("ok"))
	}

	fmt.Fprintf(c.out, "Storage:  %s", c.env.Config.Storage.Driver)
	if c.env.Config.Storage.Path != "" {
		fmt.Fprintf(c.out, " (%s)", c.env.Config.Storage.Path)
	}
	fmt.Fprintln(c.out, )

	fmt.Fprint(c.out, "Session:  ")
	if c.env.Session.Authenticated() {
		fmt.Fprintln(c.out, color.GreenString("token present"))
	} else {
		fmt.Fprintln(c.out, color.YellowString("not logged in"))
	}
	return nil
}

func (c *cli) list(ctx context.Context, args []string) error {
	flags, _ := parseFlags(args, "table")
	_, table := flags["table"]

	if err := c.env.App.FetchArticles(ctx); err != nil {
		return c.requestError(err)
	}
	c.printMessage()

	state := c.env.App.State()
	if table {
		return views.ArticleTable(c.out, state.Articles)
	}
	fmt.Fprintln(c.out, views.ArticleList(state.Articles, 0, c.styles))
	return nil
}

func (c *cli) create(ctx context.Context, args []string) error {
	flags, _ := parseFlags(args, "title", "text", "topic")
	in := model.ArticleInput{Title: flags["title"], Text: flags["text"], Topic: flags["topic"]}

	if err := c.env.App.CreateArticle(ctx, in); err != nil {
		return c.requestError(err)
	}
	c.printMessage()

	state := c.env.App.State()
	if n := len(state.Articles); n > 0 {
		fmt.Fprintln(c.out, views.ArticleList(state.Articles[n-1:], 0, c.styles))
	}
	return nil
}

func (c *cli) update(ctx context.Context, args []string) error {
	flags, positional := parseFlags(args, "title", "text", "topic")
	id, err := parseID(positional, "usage: update <id> [--title <t>] [--text <x>] [--topic <t>]")
	if err != nil {
		return err
	}

	// Unspecified fields keep their current values.
	if err := c.env.App.FetchArticles(ctx); err != nil {
		return c.requestError(err)
	}
	if !c.env.App.SelectArticle(id) {
		return fmt.Errorf("article %d not found", id)
	}
	current, _ := c.env.App.CurrentArticle()

	in := current.Input()
	if v, ok := flags["title"]; ok {
		in.Title = v
	}
	if v, ok := flags["text"]; ok {
		in.Text = v
	}
	if v, ok := flags["topic"]; ok {
		in.Topic = v
	}

	if err := c.env.App.UpdateArticle(ctx, id, in); err != nil {
		return c.requestError(err)
	}
	c.printMessage()

	state := c.env.App.State()
	if i := model.FindArticle(state.Articles, id); i >= 0 {
		fmt.Fprintln(c.out, views.ArticleList(state.Articles[i:i+1], 0, c.styles))
	}
	return nil
}

func (c *cli) delete(ctx context.Context, args []string) error {
	id, err := parseID(args, "usage: delete <id>")
	if err != nil {
		return err
	}

	if err := c.env.App.DeleteArticle(ctx, id); err != nil {
		return c.requestError(err)
	}
	c.printMessage()
	return nil
}
