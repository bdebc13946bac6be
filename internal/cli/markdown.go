package cli

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/MoneNarendra/unibudget/internal/model"
)

// RenderMarkdown renders advisor output for the terminal in the user's theme.
func RenderMarkdown(md string, theme model.Theme, width int) (string, error) {
	if width <= 0 {
		width = 80
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width), glamour.WithEmoji()}
	switch theme {
	case model.ThemeLight:
		opts = append(opts, glamour.WithStandardStyle("light"))
	case model.ThemeDark:
		opts = append(opts, glamour.WithStandardStyle("dark"))
	default:
		opts = append(opts, glamour.WithAutoStyle())
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
