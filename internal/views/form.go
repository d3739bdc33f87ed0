// ABOUTME: Line-driven article and login forms for the REPL front-end
// ABOUTME: Prompts field by field, keeps defaults on empty input, and honours /cancel

package views

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/2389/articles/internal/model"
)

// CancelCommand aborts a form.
const CancelCommand = "/cancel"

// ErrCanceled is returned when the user enters CancelCommand.
var ErrCanceled = errors.New("form canceled")

// LineSource yields the next line of input. It returns io.EOF when input
// ends.
type LineSource func() (string, error)

// Prompter asks for values one line at a time.
type Prompter struct {
	next   LineSource
	secret LineSource
	out    io.Writer
	st     Styles
}

// NewPrompter creates a Prompter reading from next and writing prompts to out.
func NewPrompter(next LineSource, out io.Writer, st Styles) *Prompter {
	return &Prompter{next: next, out: out, st: st}
}

// Line prints label and reads one trimmed line. Empty input yields def.
func (p *Prompter) Line(label, def string) (string, error) {
	prompt := label
	if def != "" {
		prompt += " " + p.st.Muted.Render("["+def+"]")
	}
	fmt.Fprint(p.out, p.st.Prompt.Render(prompt+": "))

	line, err := p.next()
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == CancelCommand {
		return "", ErrCanceled
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// required repeats Line until a non-empty value is entered.
func (p *Prompter) required(label, def string, valid func(string) bool, hint string) (string, error) {
	for {
		v, err := p.Line(label, def)
		if err != nil {
			return "", err
		}
		if v != "" && (valid == nil || valid(v)) {
			return v, nil
		}
		fmt.Fprintln(p.out, p.st.Error.Render(hint))
	}
}

// ArticleForm collects title, text and topic. With a non-nil current
// article the form edits it and each field defaults to its current value.
func (p *Prompter) ArticleForm(current *model.Article) (model.ArticleInput, error) {
	var def model.ArticleInput
	heading := "Create Article"
	if current != nil {
		def = current.Input()
		heading = fmt.Sprintf("Edit Article #%d", current.ID)
	}
	fmt.Fprintln(p.out, p.st.Heading.Render(heading))
	fmt.Fprintln(p.out, p.st.Muted.Render("Type "+CancelCommand+" to cancel."))

	title, err := p.required("Title", def.Title, nil, "Title is required.")
	if err != nil {
		return model.ArticleInput{}, err
	}
	text, err := p.required("Text", def.Text, nil, "Text is required.")
	if err != nil {
		return model.ArticleInput{}, err
	}
	topicLabel := "Topic (" + strings.Join(model.Topics, "/") + ")"
	topic, err := p.required(topicLabel, def.Topic, model.IsTopic, "Choose one of "+strings.Join(model.Topics, ", ")+".")
	if err != nil {
		return model.ArticleInput{}, err
	}

	return model.ArticleInput{Title: title, Text: text, Topic: topic}, nil
}

// WithSecret sets the source Password reads from, typically a terminal
// read with echo disabled. Without one, Password reads a normal line.
func (p *Prompter) WithSecret(src LineSource) *Prompter {
	p.secret = src
	return p
}

// Password reads a password.
func (p *Prompter) Password() (string, error) {
	if p.secret == nil {
		return p.Line("Password", "")
	}

	fmt.Fprint(p.out, p.st.Prompt.Render("Password: "))
	line, err := p.secret()
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) == CancelCommand {
		return "", ErrCanceled
	}
	return line, nil
}
