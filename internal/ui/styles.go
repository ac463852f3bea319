package ui

import (
	"strings"

	"biblioteka-go/internal/config"
	"biblioteka-go/internal/reader"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

type styles struct {
	title  lipgloss.Style
	accent lipgloss.Style
	text   lipgloss.Style
	dim    lipgloss.Style
	cursor lipgloss.Style
	help   lipgloss.Style
}

func newStyles(theme config.Theme) styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.HighlightColor)),
		accent: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.AccentColor)).Bold(true),
		text:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.TextColor)),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color(theme.DimColor)),
		cursor: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.HighlightColor)).Bold(true),
		help:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.AccentColor)),
	}
}

// columnFraction is the share of the window width used for reading text.
// Larger sizes mean fewer characters per line.
var columnFraction = map[reader.FontSize]float64{
	reader.FontSmall:      0.95,
	reader.FontBase:       0.8,
	reader.FontLarge:      0.65,
	reader.FontExtraLarge: 0.5,
}

const minColumnWidth = 20

func columnWidth(font reader.FontSize, windowWidth int) int {
	frac, ok := columnFraction[font]
	if !ok {
		frac = columnFraction[reader.FontBase]
	}
	return max(minColumnWidth, int(float64(windowWidth)*frac))
}

// renderText wraps text to the column width of font and centers the column
// in a window of windowWidth cells.
func renderText(text string, font reader.FontSize, windowWidth int, base lipgloss.Style) string {
	width := columnWidth(font, windowWidth)

	sep := "\n"
	if font >= reader.FontLarge {
		sep = "\n\n"
	}
	paragraphs := strings.Split(text, "\n")
	for i, p := range paragraphs {
		paragraphs[i] = wordwrap.String(strings.TrimSpace(p), width)
	}

	style := base.Bold(font == reader.FontExtraLarge)
	if pad := (windowWidth - width) / 2; pad > 0 {
		style = style.PaddingLeft(pad)
	}
	return style.Render(strings.Join(paragraphs, sep))
}
