package ui

import (
	"fmt"
	"strings"

	"biblioteka-go/internal/reader"
	"github.com/charmbracelet/lipgloss"
)

const (
	promptText  = "Введите запрос для поиска"
	nothingText = "Ничего не найдено"
)

func (m Model) View() string {
	if !m.loaded {
		return m.centerText(m.styles.dim.Render("Загрузка…"))
	}

	switch m.session.Screen() {
	case reader.ScreenMainMenu:
		return m.viewMainMenu()
	case reader.ScreenBooks:
		return m.viewBooks()
	case reader.ScreenBookDetail:
		return m.viewBookDetail()
	case reader.ScreenPsalms:
		return m.viewPsalms()
	case reader.ScreenPsalmModal:
		return m.viewPsalm()
	}
	return ""
}

// frame stacks centered header lines, the body and a help line pinned to
// the bottom of the window.
func (m Model) frame(header []string, body, help string) string {
	var content strings.Builder

	for _, h := range header {
		content.WriteString(m.centerText(h))
		content.WriteByte('\n')
	}
	content.WriteByte('\n')
	content.WriteString(body)
	content.WriteByte('\n')

	linesUsed := len(header) + 1 + lipgloss.Height(body)
	if remaining := m.height - linesUsed - 1; remaining > 0 {
		content.WriteString(strings.Repeat("\n", remaining))
	}

	content.WriteString(m.centerText(m.styles.help.Render(help)))
	return content.String()
}

func (m Model) viewMainMenu() string {
	var body strings.Builder
	for i, item := range menuItems {
		line := m.listLine(fmt.Sprintf("%d  %s", i+1, item.label), i == m.menuCursor)
		body.WriteString(m.centerText(line))
		body.WriteByte('\n')
	}
	return m.frame(
		[]string{m.styles.title.Render("Библиотека")},
		strings.TrimSuffix(body.String(), "\n"),
		"j/k: Navigate • Enter: Open • 1: Books • 2: Psalms • q: Quit",
	)
}

func (m Model) viewBooks() string {
	var body strings.Builder

	body.WriteString(m.label("Поиск по книгам", m.focus == focusTitleInput))
	body.WriteString(m.titleInput.View())
	body.WriteString("\n\n")
	body.WriteString(m.label("Поиск по слову", m.focus == focusWordInput))
	body.WriteString(m.wordInput.View())
	body.WriteString("\n\n")
	body.WriteString(m.label("Результаты поиска", m.focus == focusResults))

	switch m.session.BookSearch() {
	case reader.BookSearchTitles:
		books := m.session.BookResults()
		switch {
		case strings.TrimSpace(m.session.BookQuery()) == "":
			body.WriteString(m.styles.dim.Render(promptText))
		case len(books) == 0:
			body.WriteString(m.styles.dim.Render(nothingText))
		}
		for i, b := range books {
			body.WriteString(m.listLine(b.Title, m.focus == focusResults && i == m.cursor))
			body.WriteByte('\n')
		}

	case reader.BookSearchWords:
		hits := m.wordHits()
		switch {
		case strings.TrimSpace(m.session.WordQuery()) == "":
			body.WriteString(m.styles.dim.Render(promptText))
		case len(hits) == 0:
			body.WriteString(m.styles.dim.Render(nothingText))
		}
		lastBook := ""
		for i, hit := range hits {
			if hit.bookID != lastBook {
				body.WriteString(m.styles.title.Render(hit.bookTitle))
				body.WriteByte('\n')
				lastBook = hit.bookID
			}
			heading := fmt.Sprintf("Глава %d: %s", hit.match.ChapterNumber, hit.match.ChapterTitle)
			body.WriteString(m.listLine(heading, m.focus == focusResults && i == m.cursor))
			body.WriteByte('\n')
			body.WriteString("    ")
			body.WriteString(m.styles.dim.Italic(true).Render(hit.match.Snippet))
			body.WriteByte('\n')
		}

	default:
		body.WriteString(m.styles.dim.Render(promptText))
	}

	return m.frame(
		[]string{m.styles.title.Render("Поиск книг")},
		strings.TrimSuffix(body.String(), "\n"),
		"Tab: Switch field • Enter: Search/Open • j/k: Navigate • Esc: Main menu",
	)
}

func (m Model) viewBookDetail() string {
	book, chapter, ok := m.session.CurrentBook()
	if !ok {
		return ""
	}

	header := []string{
		m.styles.title.Render(book.Title),
		m.styles.accent.Render(fmt.Sprintf("Глава %d: %s", chapter.Number, chapter.Title)) +
			m.styles.dim.Render(fmt.Sprintf("  A %s", m.session.Font())),
	}

	if m.picking {
		var body strings.Builder
		body.WriteString(m.styles.accent.Render("Глава:"))
		body.WriteByte('\n')
		for i, ch := range book.Chapters {
			body.WriteString(m.listLine(fmt.Sprintf("%d  %s", ch.Number, ch.Title), i == m.pickCursor))
			body.WriteByte('\n')
		}
		return m.frame(header, strings.TrimSuffix(body.String(), "\n"),
			"j/k: Navigate • Enter: Go to chapter • Esc: Cancel")
	}

	help := []string{}
	if m.session.HasPrevChapter() {
		help = append(help, "h: Previous chapter")
	}
	if m.session.HasNextChapter() {
		help = append(help, "l: Next chapter")
	}
	help = append(help, "c: Chapters", "+/-: Text size", "j/k: Scroll", "Esc: Back")

	return m.frame(header, m.viewport.View(), strings.Join(help, " • "))
}

func (m Model) viewPsalms() string {
	var body strings.Builder

	body.WriteString(m.label("Введите название, номер или строчку из псалма", m.focus != focusResults))
	body.WriteString(m.psalmInput.View())
	body.WriteString("\n\n")
	body.WriteString(m.label("Результаты поиска", m.focus == focusResults))

	psalms := m.session.PsalmResults()
	switch {
	case strings.TrimSpace(m.session.PsalmQuery()) == "":
		body.WriteString(m.styles.dim.Render(promptText))
	case len(psalms) == 0:
		body.WriteString(m.styles.dim.Render(nothingText))
	}
	for i, p := range psalms {
		line := fmt.Sprintf("Псалом %d: %s", p.Number, p.Title)
		body.WriteString(m.listLine(line, m.focus == focusResults && i == m.cursor))
		body.WriteByte('\n')
	}

	return m.frame(
		[]string{m.styles.title.Render("Поиск псалмов")},
		strings.TrimSuffix(body.String(), "\n"),
		"Tab: Switch field • Enter: Search/Open • j/k: Navigate • Esc: Main menu",
	)
}

func (m Model) viewPsalm() string {
	psalm, ok := m.session.CurrentPsalm()
	if !ok {
		return ""
	}
	header := []string{
		m.styles.title.Render(fmt.Sprintf("Псалом %d: %s", psalm.Number, psalm.Title)) +
			m.styles.dim.Render(fmt.Sprintf("  A %s", m.session.Font())),
	}
	return m.frame(header, m.viewport.View(), "+/-: Text size • j/k: Scroll • Esc: Close")
}

func (m Model) label(text string, focused bool) string {
	if focused {
		return m.styles.accent.Render(text) + "\n"
	}
	return m.styles.text.Render(text) + "\n"
}

func (m Model) listLine(text string, selected bool) string {
	if selected {
		return m.styles.cursor.Render(">") + " " + m.styles.title.Render(text)
	}
	return "  " + m.styles.text.Render(text)
}

func (m Model) centerText(text string) string {
	visualWidth := lipgloss.Width(text)
	if visualWidth >= m.width {
		return text
	}
	leftPadding := (m.width - visualWidth) / 2
	return strings.Repeat(" ", leftPadding) + text
}
