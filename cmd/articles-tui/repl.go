// ABOUTME: Command loop for the articles REPL
// ABOUTME: Reads lines with context awareness and dispatches slash commands to the app

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/2389/articles/internal/app"
	"github.com/2389/articles/internal/bootstrap"
	"github.com/2389/articles/internal/model"
	"github.com/2389/articles/internal/views"
)

// lineReader scans stdin on a goroutine, one line per request. Between
// requests nothing reads stdin, so a password prompt can take the terminal.
type lineReader struct {
	scanner *bufio.Scanner
	want    chan struct{}
	lines   chan string
	done    chan struct{}
	err     error
	pending bool
}

func newLineReader(in io.Reader) *lineReader {
	lr := &lineReader{
		scanner: bufio.NewScanner(in),
		want:    make(chan struct{}),
		lines:   make(chan string, 1),
		done:    make(chan struct{}),
	}
	go lr.loop()
	return lr
}

func (lr *lineReader) loop() {
	defer close(lr.done)
	defer close(lr.lines)
	for range lr.want {
		if !lr.scanner.Scan() {
			lr.err = lr.scanner.Err()
			return
		}
		lr.lines <- lr.scanner.Text()
	}
}

func (lr *lineReader) eof() error {
	if lr.err != nil {
		return fmt.Errorf("reading input: %w", lr.err)
	}
	return io.EOF
}

// next returns the next line, ctx.Err() on cancellation, or io.EOF. A read
// interrupted by ctx stays pending and is returned by the following call.
func (lr *lineReader) next(ctx context.Context) (string, error) {
	if !lr.pending {
		select {
		case lr.want <- struct{}{}:
			lr.pending = true
		case <-lr.done:
			return "", lr.eof()
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-lr.lines:
		lr.pending = false
		if !ok {
			return "", lr.eof()
		}
		return line, nil
	}
}

type repl struct {
	env     *bootstrap.Env
	in      *lineReader
	secret  views.LineSource
	out     io.Writer
	styles  views.Styles
	loading bool
}

func newREPL(env *bootstrap.Env, in io.Reader, out io.Writer, st views.Styles) *repl {
	r := &repl{
		env:    env,
		in:     newLineReader(in),
		out:    out,
		styles: st,
	}
	env.App.Subscribe(r.onState)
	env.Router.OnNavigate(r.onNavigate)
	return r
}

// onState shows the spinner as soon as a request starts.
func (r *repl) onState(s app.State) {
	if s.Loading && !r.loading {
		fmt.Fprintln(r.out, views.Spinner(true, r.styles))
	}
	r.loading = s.Loading
}

func (r *repl) onNavigate(to app.Route) {
	if to == app.RouteLogin && r.env.Session.Token() == "" {
		fmt.Fprintln(r.out, r.styles.Muted.Render("Returned to the login screen."))
	}
}

func (r *repl) prompter(ctx context.Context) *views.Prompter {
	p := views.NewPrompter(func() (string, error) {
		return r.in.next(ctx)
	}, r.out, r.styles)
	if r.secret != nil {
		p.WithSecret(r.secret)
	}
	return p
}

func (r *repl) render() {
	fmt.Fprint(r.out, views.Screen(r.env.Router.Current(), r.env.App.State(), r.styles))
}

func (r *repl) run(ctx context.Context) error {
	if r.env.Router.Current() == app.RouteArticles {
		r.report(r.env.App.FetchArticles(ctx))
	}
	r.render()

	for {
		fmt.Fprintf(r.out, "[%s]> ", r.env.Router.Current())

		input, err := r.in.next(ctx)
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		quit, err := r.dispatch(ctx, input)
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		r.report(err)
		if quit {
			return nil
		}
		fmt.Fprintln(r.out)
	}
}

// report prints a command failure. Request errors already appear as the
// login message or a route change, so only the cause is shown.
func (r *repl) report(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(r.out, r.styles.Error.Render("[error] "+err.Error()))
}

func (r *repl) dispatch(ctx context.Context, input string) (bool, error) {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit", "/q":
		return true, nil
	case "/help":
		r.printHelp()
		return false, nil
	case "/login":
		return false, r.login(ctx, arg)
	case "/logout":
		err := r.env.App.Logout()
		r.render()
		return false, err
	case "/articles":
		return false, r.articles(ctx)
	case "/new":
		return false, r.create(ctx)
	case "/edit":
		return false, r.edit(ctx, arg)
	case "/cancel":
		r.env.App.ClearSelection()
		r.render()
		return false, nil
	case "/delete":
		return false, r.delete(ctx, arg)
	default:
		return false, fmt.Errorf("unknown command %q (try /help)", cmd)
	}
}

func (r *repl) printHelp() {
	fmt.Fprintln(r.out, "Commands:")
	fmt.Fprintln(r.out, "  /login <user>  Log in (prompts for the password)")
	fmt.Fprintln(r.out, "  /logout        Log out and clear local storage")
	fmt.Fprintln(r.out, "  /articles      Fetch and show articles")
	fmt.Fprintln(r.out, "  /new           Create an article")
	fmt.Fprintln(r.out, "  /edit <id>     Edit an article")
	fmt.Fprintln(r.out, "  /cancel        Leave edit mode (or abort a form)")
	fmt.Fprintln(r.out, "  /delete <id>   Delete an article")
	fmt.Fprintln(r.out, "  /help          Show this help")
	fmt.Fprintln(r.out, "  /quit          Exit the TUI")
}

// requireSession sends the user to the login screen when no token is stored.
func (r *repl) requireSession() bool {
	if r.env.Session.Authenticated() {
		return true
	}
	r.env.Router.Navigate(app.RouteLogin)
	r.render()
	return false
}

func parseID(arg, usage string) (int, error) {
	if arg == "" {
		return 0, errors.New(usage)
	}
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid article id %q", arg)
	}
	return id, nil
}

func (r *repl) login(ctx context.Context, username string) error {
	if username == "" {
		return errors.New("usage: /login <username>")
	}

	password, err := r.prompter(ctx).Password()
	if errors.Is(err, views.ErrCanceled) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := r.env.App.Login(ctx, model.Credentials{Username: username, Password: password}); err != nil {
		r.render()
		if errors.Is(err, model.ErrInvalidCredentials) {
			return err
		}
		return nil
	}

	// Show the login message before the articles screen replaces it with
	// the result of loading its list.
	fmt.Fprintln(r.out, views.Message(r.env.App.State().Message, r.styles))

	if err := r.env.App.FetchArticles(ctx); err != nil {
		r.render()
		return err
	}
	r.render()
	return nil
}

func (r *repl) articles(ctx context.Context) error {
	if !r.requireSession() {
		return nil
	}
	r.env.Router.Navigate(app.RouteArticles)
	err := r.env.App.FetchArticles(ctx)
	r.render()
	return err
}

func (r *repl) create(ctx context.Context) error {
	if !r.requireSession() {
		return nil
	}

	in, err := r.prompter(ctx).ArticleForm(nil)
	if errors.Is(err, views.ErrCanceled) {
		fmt.Fprintln(r.out, r.styles.Muted.Render("Canceled."))
		return nil
	}
	if err != nil {
		return err
	}

	err = r.env.App.CreateArticle(ctx, in)
	r.render()
	return err
}

func (r *repl) edit(ctx context.Context, arg string) error {
	id, err := parseID(arg, "usage: /edit <id>")
	if err != nil {
		return err
	}
	if !r.requireSession() {
		return nil
	}
	if !r.env.App.SelectArticle(id) {
		return fmt.Errorf("article %d is not in the list (try /articles)", id)
	}
	current, _ := r.env.App.CurrentArticle()

	in, err := r.prompter(ctx).ArticleForm(&current)
	if errors.Is(err, views.ErrCanceled) {
		r.env.App.ClearSelection()
		fmt.Fprintln(r.out, r.styles.Muted.Render("Canceled."))
		return nil
	}
	if err != nil {
		return err
	}

	err = r.env.App.UpdateArticle(ctx, id, in)
	r.render()
	return err
}

func (r *repl) delete(ctx context.Context, arg string) error {
	id, err := parseID(arg, "usage: /delete <id>")
	if err != nil {
		return err
	}
	if !r.requireSession() {
		return nil
	}

	err = r.env.App.DeleteArticle(ctx, id)
	r.render()
	return err
}
