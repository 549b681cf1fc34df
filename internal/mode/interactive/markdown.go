// ABOUTME: Detail-page description rendering: HTML to markdown, then glamour
// ABOUTME: Results are cached per raw description; a new wrap width starts a fresh cache

package interactive

import (
	"crypto/sha256"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/fossintosh-go/internal/catalog"
	"github.com/mauromedda/fossintosh-go/internal/log"
)

// descriptionRenderer turns catalog descriptions into styled lines. Only
// Update and View touch it, so it needs no lock.
type descriptionRenderer struct {
	style string
	width int
	lines map[[sha256.Size]byte][]string
}

// newDescriptionRenderer picks the glamour style from the background
// lipgloss was told about, so rendering never queries the terminal.
func newDescriptionRenderer() *descriptionRenderer {
	style := "light"
	if lipgloss.HasDarkBackground() {
		style = "dark"
	}
	return &descriptionRenderer{style: style, lines: make(map[[sha256.Size]byte][]string)}
}

// Lines renders desc wrapped at width. HTML is converted to markdown first;
// if glamour fails the converted markdown is shown as is.
func (r *descriptionRenderer) Lines(desc string, width int) []string {
	if strings.TrimSpace(desc) == "" {
		return nil
	}
	if width != r.width {
		clear(r.lines)
		r.width = width
	}

	key := sha256.Sum256([]byte(desc))
	if lines, ok := r.lines[key]; ok {
		return lines
	}

	out := catalog.DescriptionMarkdown(desc)
	if out != "" {
		styled, err := r.render(out, width)
		if err != nil {
			log.Debug("interactive: rendering description: %v", err)
		} else {
			out = styled
		}
	}

	var lines []string
	if out != "" {
		lines = strings.Split(out, "\n")
	}
	r.lines[key] = lines
	return lines
}

func (r *descriptionRenderer) render(md string, width int) (string, error) {
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	styled, err := tr.Render(md)
	if err != nil {
		return "", err
	}
	return strings.Trim(styled, "\n "), nil
}
