// ABOUTME: Full-screen composition of the spinner, message and current route
// ABOUTME: Used by the REPL to redraw after each state change

package views

import (
	"strings"

	"github.com/2389/articles/internal/app"
)

// Heading is the application title.
const Heading = "Advanced Web Applications"

// Screen renders the whole view for route and state.
func Screen(route app.Route, state app.State, st Styles) string {
	parts := []string{st.Heading.Render(Heading) + "  " + nav(route, st)}

	if s := Spinner(state.Loading, st); s != "" {
		parts = append(parts, s)
	}
	if m := Message(state.Message, st); m != "" {
		parts = append(parts, m)
	}

	switch route {
	case app.RouteArticles:
		parts = append(parts, ArticleList(state.Articles, state.CurrentArticleID, st))
	default:
		parts = append(parts, st.Muted.Render("Log in with /login <username>."))
	}

	return strings.Join(parts, "\n") + "\n"
}

func nav(route app.Route, st Styles) string {
	login, articles := st.Muted.Render("Login"), st.Muted.Render("Articles")
	switch route {
	case app.RouteArticles:
		articles = st.Title.Render("[Articles]")
	default:
		login = st.Title.Render("[Login]")
	}
	return login + " " + articles
}
