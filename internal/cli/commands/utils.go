package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/kutbudev/blog/pkg/config"
	"github.com/kutbudev/blog/pkg/repository"
)

// Helper functions shared across commands

var headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

// openDB connects with the configuration loaded from the environment.
// Callers close the returned database.
var openDB = func() (*repository.Database, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return repository.NewDatabase(cfg)
}

var stdout io.Writer = os.Stdout

func heading(title string) {
	fmt.Fprintln(stdout, headingStyle.Render(title))
}

// plainMarkdown renders without terminal styling.
var plainMarkdown = false

// renderMarkdown renders a post body for the terminal, falling back to the
// raw text when rendering fails.
func renderMarkdown(text string) string {
	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(80),
		glamour.WithPreservedNewLines(),
	}
	if plainMarkdown {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	} else {
		// detect background color and pick either the default dark or light theme
		opts = append(opts, glamour.WithAutoStyle())
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return text + "\n"
	}
	out, err := r.Render(text)
	if err != nil {
		return text + "\n"
	}
	return out
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func parseID(raw, what string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%s ID is required", what)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s ID %q", what, raw)
	}
	return id, nil
}
