// Package ui prints directory views to a terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/olgasafonova/tool-directory-server/internal/directory"
)

type Options struct {
	NoColor bool
	Out     io.Writer
}

// Lister writes a directory view as plain or styled text.
type Lister struct {
	out    io.Writer
	styles styles
}

type styles struct {
	heading  lipgloss.Style
	count    lipgloss.Style
	active   lipgloss.Style
	inactive lipgloss.Style
	tool     lipgloss.Style
	label    lipgloss.Style
	link     lipgloss.Style
}

func NewLister(opts Options) *Lister {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	profile := termenv.EnvColorProfile()
	if opts.NoColor || !isTTY {
		profile = termenv.Ascii
	}
	lipgloss.SetColorProfile(profile)

	return &Lister{
		out: out,
		styles: styles{
			heading:  lipgloss.NewStyle().Bold(true),
			count:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			active:   lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true),
			inactive: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			tool:     lipgloss.NewStyle().Foreground(lipgloss.Color("105")).Bold(true),
			label:    lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
			link:     lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Underline(true),
		},
	}
}

// Render prints the category tiles followed by the visible tools.
func (l *Lister) Render(view directory.View) error {
	var b strings.Builder

	b.WriteString(l.styles.heading.Render("Categories"))
	b.WriteString("\n")
	for _, tile := range view.Tiles {
		if tile.Active {
			fmt.Fprintf(&b, "  %s %s\n", l.styles.active.Render("●"), l.styles.active.Render(tile.Name))
		} else {
			fmt.Fprintf(&b, "  ○ %s\n", l.styles.inactive.Render(tile.Name))
		}
	}

	b.WriteString("\n")
	b.WriteString(l.styles.heading.Render(view.Heading))
	b.WriteString("\n")
	b.WriteString(l.styles.count.Render(view.CountText))
	b.WriteString("\n")

	for _, card := range view.VisibleCards() {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s  %s\n", l.styles.tool.Render(card.Name), l.styles.label.Render("["+card.Label+"]"))
		if strings.TrimSpace(card.Description) != "" {
			fmt.Fprintf(&b, "    %s\n", card.Description)
		}
		fmt.Fprintf(&b, "    %s\n", l.styles.link.Render(card.URL))
	}

	_, err := io.WriteString(l.out, b.String())
	return err
}
