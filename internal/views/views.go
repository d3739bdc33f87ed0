// ABOUTME: Stateless renderers for the spinner, status message and article list
// ABOUTME: Uses lipgloss for layout and goldmark plus bluemonday to flatten article text

package views

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/2389/articles/internal/model"
)

// SpinnerText is shown while a request is in flight.
const SpinnerText = "Please wait..."

// EmptyListText is shown when the collection is empty.
const EmptyListText = "No articles yet"

const cardWidth = 60

// Styles holds the lipgloss styles used by the renderers.
type Styles struct {
	Heading lipgloss.Style
	Spinner lipgloss.Style
	Message lipgloss.Style
	Error   lipgloss.Style
	Card    lipgloss.Style
	Current lipgloss.Style
	Title   lipgloss.Style
	Topic   lipgloss.Style
	Muted   lipgloss.Style
	Prompt  lipgloss.Style
}

// DefaultStyles returns the coloured terminal theme.
func DefaultStyles() Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(cardWidth)

	return Styles{
		Heading: lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true),
		Spinner: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true),
		Message: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Card:    card,
		Current: card.BorderForeground(lipgloss.Color("63")),
		Title:   lipgloss.NewStyle().Bold(true),
		Topic:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Prompt:  lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true),
	}
}

// Plain returns unstyled styles. Cards keep their width and padding but
// have no border.
func Plain() Styles {
	none := lipgloss.NewStyle()
	return Styles{
		Heading: none,
		Spinner: none,
		Message: none,
		Error:   none,
		Card:    none,
		Current: none,
		Title:   none,
		Topic:   none,
		Muted:   none,
		Prompt:  none,
	}
}

// Spinner renders the loading indicator, or "" when off.
func Spinner(on bool, st Styles) string {
	if !on {
		return ""
	}
	return st.Spinner.Render(SpinnerText)
}

// Message renders the status message, or "" when empty.
func Message(msg string, st Styles) string {
	if msg == "" {
		return ""
	}
	return st.Message.Render(msg)
}

// ArticleList renders one card per article in collection order. The card
// of currentID is highlighted; pass 0 for no selection.
func ArticleList(articles []model.Article, currentID int, st Styles) string {
	if len(articles) == 0 {
		return st.Muted.Render(EmptyListText)
	}

	cards := make([]string, 0, len(articles))
	for _, art := range articles {
		style := st.Card
		if art.ID == currentID {
			style = st.Current
		}
		cards = append(cards, style.Render(articleCard(art, st)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func articleCard(art model.Article, st Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render(art.Title))
	b.WriteString("\n")
	if text := PlainText(art.Text); text != "" {
		b.WriteString(text)
		b.WriteString("\n")
	}
	b.WriteString(st.Topic.Render("Topic: " + art.Topic))
	b.WriteString("  ")
	b.WriteString(st.Muted.Render(fmt.Sprintf("#%d", art.ID)))
	return b.String()
}

// ArticleTable writes a compact ID/TITLE/TOPIC table.
func ArticleTable(w io.Writer, articles []model.Article) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTOPIC")
	for _, art := range articles {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", art.ID, truncate(art.Title, 40), art.Topic)
	}
	return tw.Flush()
}

var (
	plainPolicy = bluemonday.StrictPolicy()
	blankLines  = regexp.MustCompile(`\n{3,}`)
)

// PlainText converts Markdown to plain text for terminal display. Input
// that fails to convert is returned trimmed.
func PlainText(md string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return strings.TrimSpace(md)
	}
	text := html.UnescapeString(plainPolicy.Sanitize(buf.String()))
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
