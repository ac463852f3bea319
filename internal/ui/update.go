package ui

import (
	"biblioteka-go/internal/library"
	"biblioteka-go/internal/reader"
	tea "github.com/charmbracelet/bubbletea"
)

// chromeHeight is the number of rows taken by headers and the help line.
const chromeHeight = 5

// wordHit is one selectable row of word search results.
type wordHit struct {
	bookID    string
	bookTitle string
	match     library.WordMatch
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.handleLoaded(msg)
		return m, nil

	case progressSavedMsg:
		switch {
		case msg.err != nil:
			m.log.Error("failed to save reading progress", "error", msg.err)
		case msg.stale:
			m.log.Debug("dropped outdated reading progress")
		default:
			m.log.Debug("reading progress saved")
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-chromeHeight)
		m.resizeInputs()
		m.refreshText(false)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if !m.loaded {
			if msg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		}

		switch m.session.Screen() {
		case reader.ScreenMainMenu:
			return m.updateMainMenu(msg)
		case reader.ScreenBooks:
			return m.updateBooks(msg)
		case reader.ScreenBookDetail:
			if m.picking {
				return m.updateChapterPicker(msg)
			}
			return m.updateBookDetail(msg)
		case reader.ScreenPsalms:
			return m.updatePsalms(msg)
		case reader.ScreenPsalmModal:
			return m.updatePsalmModal(msg)
		}
	}

	return m, nil
}

func (m Model) updateMainMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "k", "up":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case "j", "down":
		if m.menuCursor < len(menuItems)-1 {
			m.menuCursor++
		}
	case "enter":
		return m.openList(menuItems[m.menuCursor].screen)
	case "1":
		return m.openList(reader.ScreenBooks)
	case "2":
		return m.openList(reader.ScreenPsalms)
	}
	return m, nil
}

func (m Model) openList(screen reader.Screen) (tea.Model, tea.Cmd) {
	var err error
	switch screen {
	case reader.ScreenBooks:
		err = m.session.OpenBooks()
	case reader.ScreenPsalms:
		err = m.session.OpenPsalms()
	}
	if err != nil {
		m.log.Debug("ignored navigation", "error", err)
		return m, nil
	}
	m.cursor = 0
	m.focus = focusTitleInput
	return m, m.applyFocus()
}

func (m Model) backToMenu() (tea.Model, tea.Cmd) {
	if err := m.session.MainMenu(); err != nil {
		m.log.Debug("ignored navigation", "error", err)
	}
	return m, m.applyFocus()
}

func (m Model) updateBooks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.backToMenu()
	case "tab":
		m.focus = (m.focus + 1) % 3
		return m, m.applyFocus()
	case "shift+tab":
		m.focus = (m.focus + 2) % 3
		return m, m.applyFocus()
	case "enter":
		switch m.focus {
		case focusTitleInput:
			m.afterSearch(len(m.session.SearchBooks(m.titleInput.Value())))
			return m, m.applyFocus()
		case focusWordInput:
			m.session.SearchWords(m.wordInput.Value())
			m.afterSearch(len(m.wordHits()))
			return m, m.applyFocus()
		case focusResults:
			return m.openBookResult()
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusTitleInput:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case focusWordInput:
		m.wordInput, cmd = m.wordInput.Update(msg)
	case focusResults:
		m.moveCursor(msg.String(), m.bookResultCount())
	}
	return m, cmd
}

func (m *Model) afterSearch(found int) {
	m.cursor = 0
	if found > 0 {
		m.focus = focusResults
	}
}

func (m Model) bookResultCount() int {
	if m.session.BookSearch() == reader.BookSearchWords {
		return len(m.wordHits())
	}
	return len(m.session.BookResults())
}

func (m Model) wordHits() []wordHit {
	var hits []wordHit
	for _, r := range m.session.WordResults() {
		for _, match := range r.Matches {
			hits = append(hits, wordHit{bookID: r.BookID, bookTitle: r.BookTitle, match: match})
		}
	}
	return hits
}

func (m Model) openBookResult() (tea.Model, tea.Cmd) {
	switch m.session.BookSearch() {
	case reader.BookSearchTitles:
		books := m.session.BookResults()
		if m.cursor >= len(books) {
			return m, nil
		}
		if err := m.session.SelectBook(books[m.cursor].ID); err != nil {
			m.log.Warn("failed to open book", "book", books[m.cursor].ID, "error", err)
			return m, nil
		}
		m.enterReader()
		return m, nil

	case reader.BookSearchWords:
		hits := m.wordHits()
		if m.cursor >= len(hits) {
			return m, nil
		}
		hit := hits[m.cursor]
		changed, err := m.session.OpenWordMatch(hit.bookID, hit.match.ChapterNumber)
		if err != nil {
			m.log.Warn("failed to open search match", "book", hit.bookID, "chapter", hit.match.ChapterNumber, "error", err)
			return m, nil
		}
		m.enterReader()
		return m, m.saveIfChanged(changed)
	}
	return m, nil
}

// enterReader prepares the text view after the session switched to a book or
// psalm.
func (m *Model) enterReader() {
	m.applyFocus()
	m.picking = false
	m.refreshText(true)
}

func (m Model) saveIfChanged(changed bool) tea.Cmd {
	if !changed {
		return nil
	}
	return m.saves.saveCmd(m.session.Progress())
}

func (m Model) updateBookDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if err := m.session.CloseBook(); err != nil {
			m.log.Debug("ignored navigation", "error", err)
		}
		m.focus = focusResults
		return m, m.applyFocus()
	case "h", "left":
		return m.stepChapter(m.session.PrevChapter)
	case "l", "right":
		return m.stepChapter(m.session.NextChapter)
	case "c":
		book, _, ok := m.session.CurrentBook()
		if !ok {
			return m, nil
		}
		m.picking = true
		m.pickCursor = 0
		for i, ch := range book.Chapters {
			if ch.Number == m.session.SelectedChapter() {
				m.pickCursor = i
			}
		}
		return m, nil
	case "+", "=":
		m.session.IncreaseFont()
		m.refreshText(false)
		return m, nil
	case "-", "_":
		m.session.DecreaseFont()
		m.refreshText(false)
		return m, nil
	}
	return m.scroll(msg)
}

func (m Model) stepChapter(step func() (bool, error)) (tea.Model, tea.Cmd) {
	before := m.session.SelectedChapter()
	changed, err := step()
	if err != nil {
		m.log.Warn("failed to change chapter", "error", err)
		return m, nil
	}
	if m.session.SelectedChapter() != before {
		m.refreshText(true)
	}
	return m, m.saveIfChanged(changed)
}

func (m Model) updateChapterPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	book, _, ok := m.session.CurrentBook()
	if !ok {
		m.picking = false
		return m, nil
	}

	switch msg.String() {
	case "esc", "c":
		m.picking = false
	case "k", "up":
		if m.pickCursor > 0 {
			m.pickCursor--
		}
	case "j", "down":
		if m.pickCursor < len(book.Chapters)-1 {
			m.pickCursor++
		}
	case "enter":
		m.picking = false
		if m.pickCursor >= len(book.Chapters) {
			return m, nil
		}
		number := book.Chapters[m.pickCursor].Number
		return m.stepChapter(func() (bool, error) {
			return m.session.SelectChapter(number)
		})
	}
	return m, nil
}

func (m Model) updatePsalms(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.backToMenu()
	case "tab", "shift+tab":
		if m.focus == focusResults {
			m.focus = focusTitleInput
		} else {
			m.focus = focusResults
		}
		return m, m.applyFocus()
	case "enter":
		if m.focus != focusResults {
			m.afterSearch(len(m.session.SearchPsalms(m.psalmInput.Value())))
			return m, m.applyFocus()
		}
		psalms := m.session.PsalmResults()
		if m.cursor >= len(psalms) {
			return m, nil
		}
		if err := m.session.SelectPsalm(psalms[m.cursor].ID); err != nil {
			m.log.Warn("failed to open psalm", "psalm", psalms[m.cursor].ID, "error", err)
			return m, nil
		}
		m.enterReader()
		return m, nil
	}

	if m.focus == focusResults {
		m.moveCursor(msg.String(), len(m.session.PsalmResults()))
		return m, nil
	}
	var cmd tea.Cmd
	m.psalmInput, cmd = m.psalmInput.Update(msg)
	return m, cmd
}

func (m Model) updatePsalmModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		if err := m.session.ClosePsalm(); err != nil {
			m.log.Debug("ignored navigation", "error", err)
		}
		m.focus = focusResults
		return m, m.applyFocus()
	case "+", "=":
		m.session.IncreaseFont()
		m.refreshText(false)
		return m, nil
	case "-", "_":
		m.session.DecreaseFont()
		m.refreshText(false)
		return m, nil
	}
	return m.scroll(msg)
}

func (m Model) scroll(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "k", "up", "down", "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) moveCursor(key string, n int) {
	switch key {
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "j", "down":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(0, n-1)
	}
}

// applyFocus focuses the input matching the current screen and focus, and
// blurs the rest.
func (m *Model) applyFocus() tea.Cmd {
	m.titleInput.Blur()
	m.wordInput.Blur()
	m.psalmInput.Blur()

	switch m.session.Screen() {
	case reader.ScreenBooks:
		switch m.focus {
		case focusTitleInput:
			return m.titleInput.Focus()
		case focusWordInput:
			return m.wordInput.Focus()
		}
	case reader.ScreenPsalms:
		if m.focus != focusResults {
			return m.psalmInput.Focus()
		}
	}
	return nil
}

// refreshText renders the open chapter or psalm into the viewport.
func (m *Model) refreshText(top bool) {
	text := ""
	switch m.session.Screen() {
	case reader.ScreenBookDetail:
		if _, chapter, ok := m.session.CurrentBook(); ok {
			text = chapter.Content
		}
	case reader.ScreenPsalmModal:
		if psalm, ok := m.session.CurrentPsalm(); ok {
			text = psalm.Content
		}
	}

	if text == "" {
		m.viewport.SetContent("")
	} else {
		m.viewport.SetContent(renderText(text, m.session.Font(), m.width, m.styles.text))
	}
	if top {
		m.viewport.GotoTop()
	}
}
