// Package ui is the terminal front end of the reader.
package ui

import (
	"context"
	"io/fs"
	"log/slog"

	"biblioteka-go/internal/config"
	"biblioteka-go/internal/library"
	"biblioteka-go/internal/logger"
	"biblioteka-go/internal/progress"
	"biblioteka-go/internal/reader"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Config holds what the model needs to run.
type Config struct {
	Documents fs.FS
	Store     progress.Store
	Theme     config.Theme
	Logger    *slog.Logger
}

type focus int

const (
	focusTitleInput focus = iota
	focusWordInput
	focusResults
)

// menuItems are the main menu entries, in order.
var menuItems = []struct {
	label  string
	screen reader.Screen
}{
	{"Книги", reader.ScreenBooks},
	{"Псалмы", reader.ScreenPsalms},
}

type Model struct {
	docs  fs.FS
	store progress.Store
	saves *progressWriter
	log   *slog.Logger

	session *reader.Session
	loaded  bool

	titleInput textinput.Model
	wordInput  textinput.Model
	psalmInput textinput.Model
	viewport   viewport.Model

	focus      focus
	menuCursor int
	cursor     int
	picking    bool
	pickCursor int

	width  int
	height int
	styles styles
}

type loadedMsg struct {
	lib         *library.Library
	progress    progress.Progress
	libErr      error
	progressErr error
}

type progressSavedMsg struct {
	err   error
	stale bool
}

func New(cfg Config) Model {
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	if cfg.Store == nil {
		cfg.Store = progress.NewMemoryStore()
	}
	if cfg.Theme == (config.Theme{}) {
		cfg.Theme = config.DefaultTheme()
	}

	titleInput := textinput.New()
	titleInput.Placeholder = "Введите название книги"
	titleInput.CharLimit = 200
	wordInput := textinput.New()
	wordInput.Placeholder = "Введите слово для поиска"
	wordInput.CharLimit = 200
	psalmInput := textinput.New()
	psalmInput.Placeholder = "Введите название, номер или строчку из псалма"
	psalmInput.CharLimit = 200

	m := Model{
		docs:       cfg.Documents,
		store:      cfg.Store,
		saves:      newProgressWriter(cfg.Store),
		log:        cfg.Logger,
		session:    reader.New(nil, nil),
		titleInput: titleInput,
		wordInput:  wordInput,
		psalmInput: psalmInput,
		viewport:   viewport.New(80, 24-chromeHeight),
		width:      80,
		height:     24,
		styles:     newStyles(cfg.Theme),
	}
	m.resizeInputs()
	return m
}

// Session exposes the reading state, mainly for callers that print it after
// the program exits.
func (m Model) Session() *reader.Session {
	return m.session
}

func (m Model) Init() tea.Cmd {
	return loadCmd(m.docs, m.store)
}

func loadCmd(docs fs.FS, store progress.Store) tea.Cmd {
	return func() tea.Msg {
		msg := loadedMsg{}
		if docs != nil {
			msg.lib, msg.libErr = library.Load(docs)
		}
		msg.progress, msg.progressErr = store.Load(context.Background())
		return msg
	}
}

func (m *Model) handleLoaded(msg loadedMsg) {
	if msg.libErr != nil {
		m.log.Warn("skipped documents while loading library", "error", msg.libErr)
	}
	if msg.progressErr != nil {
		m.log.Warn("ignoring stored reading progress", "error", msg.progressErr)
	}
	m.session = reader.New(msg.lib, msg.progress)
	m.loaded = true
	m.log.Info("library loaded",
		"books", len(m.session.Library().Books()),
		"psalms", len(m.session.Library().Psalms()),
		"progress", len(m.session.Progress()))
}

func (m *Model) resizeInputs() {
	w := max(minColumnWidth, m.width-8)
	m.titleInput.Width = w
	m.wordInput.Width = w
	m.psalmInput.Width = w
}
