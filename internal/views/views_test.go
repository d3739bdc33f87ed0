// ABOUTME: Tests for the terminal renderers and line-driven forms
// ABOUTME: Uses Plain styles so assertions match raw text

package views

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/articles/internal/app"
	"github.com/2389/articles/internal/model"
)

func lines(input ...string) LineSource {
	return func() (string, error) {
		if len(input) == 0 {
			return "", io.EOF
		}
		line := input[0]
		input = input[1:]
		return line, nil
	}
}

func TestSpinner(t *testing.T) {
	assert.Equal(t, SpinnerText, Spinner(true, Plain()))
	assert.Empty(t, Spinner(false, Plain()))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Goodbye!", Message("Goodbye!", Plain()))
	assert.Empty(t, Message("", Plain()))
}

func TestArticleList(t *testing.T) {
	articles := []model.Article{
		{ID: 1, Title: "Closures", Text: "Functions **remember** scope", Topic: "JavaScript"},
		{ID: 2, Title: "Hooks", Text: "useState", Topic: "React"},
	}

	out := ArticleList(articles, 0, Plain())
	assert.Contains(t, out, "Closures")
	assert.Contains(t, out, "Functions remember scope")
	assert.Contains(t, out, "Topic: JavaScript")
	assert.Contains(t, out, "#2")
	assert.Less(t, strings.Index(out, "Closures"), strings.Index(out, "Hooks"), "collection order kept")
}

func TestArticleList_Empty(t *testing.T) {
	assert.Equal(t, EmptyListText, ArticleList(nil, 0, Plain()))
}

func TestArticleTable(t *testing.T) {
	var buf bytes.Buffer
	err := ArticleTable(&buf, []model.Article{
		{ID: 7, Title: strings.Repeat("x", 50), Topic: "Node"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "ID"))
	assert.Contains(t, out, "7")
	assert.Contains(t, out, strings.Repeat("x", 37)+"...")
	assert.Contains(t, out, "Node")
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"emphasis", "a *b* **c**", "a b c"},
		{"entities", "Tom & Jerry <3", "Tom & Jerry <3"},
		{"inline html dropped", "a <b>bold</b> word", "a bold word"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestArticleForm_Create(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(lines("Title", "", "Body", "Rust", "React"), &out, Plain())

	in, err := p.ArticleForm(nil)
	require.NoError(t, err)
	assert.Equal(t, model.ArticleInput{Title: "Title", Text: "Body", Topic: "React"}, in)
	assert.Contains(t, out.String(), "Create Article")
	assert.Contains(t, out.String(), "Text is required.")
	assert.Contains(t, out.String(), "Choose one of JavaScript, React, Node.")
}

func TestArticleForm_EditKeepsDefaults(t *testing.T) {
	var out bytes.Buffer
	current := &model.Article{ID: 3, Title: "Old", Text: "Body", Topic: "Node"}
	p := NewPrompter(lines("New", "", ""), &out, Plain())

	in, err := p.ArticleForm(current)
	require.NoError(t, err)
	assert.Equal(t, model.ArticleInput{Title: "New", Text: "Body", Topic: "Node"}, in)
	assert.Contains(t, out.String(), "Edit Article #3")
	assert.Contains(t, out.String(), "[Old]")
}

func TestArticleForm_Cancel(t *testing.T) {
	p := NewPrompter(lines("Title", " /cancel "), io.Discard, Plain())
	_, err := p.ArticleForm(nil)
	assert.ErrorIs(t, err, ErrCanceled)
}

func TestArticleForm_EOF(t *testing.T) {
	p := NewPrompter(lines("Title"), io.Discard, Plain())
	_, err := p.ArticleForm(nil)
	assert.True(t, errors.Is(err, io.EOF))
}

func TestScreen(t *testing.T) {
	state := app.State{
		Message:  "Here are your articles, foo!",
		Loading:  true,
		Articles: []model.Article{{ID: 1, Title: "Closures", Text: "x", Topic: "JavaScript"}},
	}

	out := Screen(app.RouteArticles, state, Plain())
	assert.Contains(t, out, Heading)
	assert.Contains(t, out, "[Articles]")
	assert.Contains(t, out, SpinnerText)
	assert.Contains(t, out, "Here are your articles, foo!")
	assert.Contains(t, out, "Closures")

	out = Screen(app.RouteLogin, app.State{}, Plain())
	assert.Contains(t, out, "[Login]")
	assert.NotContains(t, out, SpinnerText)
	assert.NotContains(t, out, "Closures")
}

func TestPassword_UsesSecretSource(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(lines("visible"), &out, Plain()).WithSecret(lines("hidden-pass"))

	pw, err := p.Password()
	require.NoError(t, err)
	assert.Equal(t, "hidden-pass", pw)
	assert.Contains(t, out.String(), "Password: ")

	// The regular line source was not consumed.
	next, err := p.Line("Next", "")
	require.NoError(t, err)
	assert.Equal(t, "visible", next)
}

func TestPassword_FallsBackToLine(t *testing.T) {
	p := NewPrompter(lines("typed"), io.Discard, Plain())
	pw, err := p.Password()
	require.NoError(t, err)
	assert.Equal(t, "typed", pw)

	p = NewPrompter(lines(), io.Discard, Plain()).WithSecret(lines("/cancel"))
	_, err = p.Password()
	assert.ErrorIs(t, err, ErrCanceled)
}
