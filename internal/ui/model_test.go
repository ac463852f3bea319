package ui

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"biblioteka-go/internal/progress"
	"biblioteka-go/internal/reader"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocuments() fstest.MapFS {
	return fstest.MapFS{
		"books/book1.json": {Data: []byte(`{
			"id": "proverbs",
			"title": "Книга Притчей",
			"chapters": [
				{"number": 1, "title": "Начало мудрости", "content": "Начало мудрости страх Господень."},
				{"number": 2, "title": "О поиске разума", "content": "Сын мой! если ты примешь слова мои."},
				{"number": 3, "title": "Наставление сыну", "content": "Надейся на Господа всем сердцем твоим."}
			]
		}`)},
		"books/book2.json": {Data: []byte(`{
			"id": "ecclesiastes",
			"title": "Книга Екклесиаста",
			"chapters": [
				{"number": 1, "title": "Суета сует", "content": "Суета сует, всё суета!"},
				{"number": 2, "title": "Испытание весельем", "content": "Испытаю я тебя весельем."}
			]
		}`)},
		"psalms/psalm1.json": {Data: []byte(`{"id": "psalm-1", "number": 1, "title": "Блажен муж", "content": "Блажен муж."}`)},
		"psalms/psalm2.json": {Data: []byte(`{"id": "psalm-2", "number": 2, "title": "Зачем мятутся народы", "content": "Живущий на небесах посмеется."}`)},
	}
}

func newTestModel(t *testing.T, store progress.Store) Model {
	t.Helper()

	m := New(Config{Documents: testDocuments(), Store: store})
	msg := m.Init()()
	updated, _ := m.Update(msg)
	updated, _ = updated.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends keys in order and returns the model and the last command.
func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()

	var cmd tea.Cmd
	for _, k := range keys {
		var updated tea.Model
		updated, cmd = m.Update(key(k))
		m = updated.(Model)
	}
	return m, cmd
}

// typeText sends text to the focused input one rune at a time.
func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()

	for _, r := range text {
		m, _ = press(t, m, string(r))
	}
	return m
}

func runSave(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()

	require.NotNil(t, cmd, "expected a save command")
	msg := cmd()
	saved, ok := msg.(progressSavedMsg)
	require.True(t, ok, "expected progressSavedMsg, got %T", msg)
	require.NoError(t, saved.err)

	updated, _ := m.Update(msg)
	return updated.(Model)
}

func TestModel_Loading(t *testing.T) {
	t.Parallel()

	m := New(Config{Documents: testDocuments()})
	assert.Contains(t, m.View(), "Загрузка")

	m = newTestModel(t, progress.NewMemoryStore())
	assert.True(t, m.loaded)
	assert.Len(t, m.Session().Library().Books(), 2)
	assert.Len(t, m.Session().Library().Psalms(), 2)
	assert.Contains(t, m.View(), "Библиотека")
	assert.Contains(t, m.View(), "Книги")
	assert.Contains(t, m.View(), "Псалмы")
}

func TestModel_LoadingIgnoresInvalidProgress(t *testing.T) {
	t.Parallel()

	store := progress.NewMemoryStore()
	store.SetRaw([]byte("not json"))

	m := newTestModel(t, store)
	assert.True(t, m.loaded)
	assert.Empty(t, m.Session().Progress())
}

func TestModel_MainMenu(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, progress.NewMemoryStore())

	m, _ = press(t, m, "j", "enter")
	assert.Equal(t, reader.ScreenPsalms, m.Session().Screen())

	m, _ = press(t, m, "esc")
	assert.Equal(t, reader.ScreenMainMenu, m.Session().Screen())

	m, _ = press(t, m, "1")
	assert.Equal(t, reader.ScreenBooks, m.Session().Screen())

	m, _ = press(t, m, "esc", "2")
	assert.Equal(t, reader.ScreenPsalms, m.Session().Screen())

	m, _ = press(t, m, "esc")
	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_CtrlCQuitsAnywhere(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, progress.NewMemoryStore())
	m, _ = press(t, m, "1")

	_, cmd := press(t, m, "ctrl+c")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_BookTitleSearch(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, progress.NewMemoryStore())
	m, _ = press(t, m, "1")
	assert.Contains(t, m.View(), promptText)

	m = typeText(t, m, "притч")
	assert.Equal(t, "притч", m.titleInput.Value())
	assert.Equal(t, reader.ScreenBooks, m.Session().Screen(), "typed runes must not navigate")

	m, _ = press(t, m, "enter")
	require.Len(t, m.Session().BookResults(), 1)
	assert.Equal(t, focusResults, m.focus)
	assert.Contains(t, m.View(), "Книга Притчей")

	m, cmd := press(t, m, "enter")
	assert.Nil(t, cmd, "opening a book records nothing")
	assert.Equal(t, reader.ScreenBookDetail, m.Session().Screen())
	assert.Equal(t, 1, m.Session().SelectedChapter())
	assert.Contains(t, m.View(), "Глава 1: Начало мудрости")
	assert.Contains(t, m.viewport.View(), "Начало мудрости страх Господень.")

	m, _ = press(t, m, "esc")
	assert.Equal(t, reader.ScreenBooks, m.Session().Screen())
	assert.Equal(t, focusResults, m.focus)
}

func TestModel_NothingFound(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, progress.NewMemoryStore())
	m, _ = press(t, m, "1")
	m = typeText(t, m, "левит")
	m, _ = press(t, m, "enter")

	assert.Empty(t, m.Session().BookResults())
	assert.NotEqual(t, focusResults, m.focus)
	assert.Contains(t, m.View(), nothingText)

	m, _ = press(t, m, "esc", "2")
	m = typeText(t, m, "999")
	m, _ = press(t, m, "enter")
	assert.Contains(t, m.View(), nothingText)
}

func TestModel_WordSearchOpensMatchedChapter(t *testing.T) {
	t.Parallel()

	store := progress.NewMemoryStore()
	m := newTestModel(t, store)

	m, _ = press(t, m, "1", "tab")
	assert.Equal(t, focusWordInput, m.focus)

	m = typeText(t, m, "весельем")
	m, _ = press(t, m, "enter")
	require.Len(t, m.Session().WordResults(), 1)
	view := m.View()
	assert.Contains(t, view, "Книга Екклесиаста")
	assert.Contains(t, view, "Глава 2: Испытание весельем")

	m, cmd := press(t, m, "enter")
	assert.Equal(t, reader.ScreenBookDetail, m.Session().Screen())
	assert.Equal(t, 2, m.Session().SelectedChapter())
	runSave(t, m, cmd)

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, progress.Progress{"ecclesiastes": {ChapterNumber: 2}}, got)
}

func TestModel_ChapterNavigationPersists(t *testing.T) {
	t.Parallel()

	store := progress.NewMemoryStore()
	m := newTestModel(t, store)
	m, _ = press(t, m, "1")
	m = typeText(t, m, "притч")
	m, _ = press(t, m, "enter", "enter")

	m, cmd := press(t, m, "h")
	assert.Nil(t, cmd, "no previous chapter")
	assert.Equal(t, 1, m.Session().SelectedChapter())

	m, cmd = press(t, m, "l")
	m = runSave(t, m, cmd)
	assert.Equal(t, 2, m.Session().SelectedChapter())
	assert.Contains(t, m.viewport.View(), "Сын мой!")

	m, cmd = press(t, m, "right")
	m = runSave(t, m, cmd)
	m, cmd = press(t, m, "l")
	assert.Nil(t, cmd, "no next chapter")
	assert.Equal(t, 3, m.Session().SelectedChapter())

	m, cmd = press(t, m, "left")
	runSave(t, m, cmd)

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, got["proverbs"].ChapterNumber)

	resumed := newTestModel(t, store)
	resumed, _ = press(t, resumed, "1")
	resumed = typeText(t, resumed, "притч")
	resumed, _ = press(t, resumed, "enter", "enter")
	assert.Equal(t, 2, resumed.Session().SelectedChapter())
}

func TestModel_ChapterPicker(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, progress.NewMemoryStore())
	m, _ = press(t, m, "1")
	m = typeText(t, m, "притч")
	m, _ = press(t, m, "enter", "enter", "c")
	require.True(t, m.picking)
	assert.Contains(t, m.View(), "3  Наставление сыну")

	m, _ = press(t, m, "esc")
	assert.False(t, m.picking)
	assert.Equal(t, reader.ScreenBookDetail, m.Session().Screen(), "esc closes only the picker")

	m, _ = press(t, m, "c", "j", "j", "j")
	m, cmd := press(t, m, "enter")
	assert.False(t, m.picking)
	assert.Equal(t, 3, m.Session().SelectedChapter())
	runSave(t, m, cmd)
}

func TestModel_FontSize(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, progress.NewMemoryStore())
	m, _ = press(t, m, "2")
	m = typeText(t, m, "блажен")
	m, _ = press(t, m, "enter", "enter")
	require.Equal(t, reader.ScreenPsalmModal, m.Session().Screen())

	m, _ = press(t, m, "+", "+", "+", "+")
	assert.Equal(t, reader.FontExtraLarge, m.Session().Font())
	assert.Contains(t, m.View(), "A xl")

	m, _ = press(t, m, "-", "-", "-", "-", "-")
	assert.Equal(t, reader.FontSmall, m.Session().Font())
}

func TestModel_PsalmViewCloses(t *testing.T) {
	t.Parallel()

	for _, closeKey := range []string{"esc", "enter", "q"} {
		t.Run(closeKey, func(t *testing.T) {
			t.Parallel()

			m := newTestModel(t, progress.NewMemoryStore())
			m, _ = press(t, m, "2")
			m = typeText(t, m, "2")
			m, _ = press(t, m, "enter")
			require.Len(t, m.Session().PsalmResults(), 1)

			m, _ = press(t, m, "enter")
			require.Equal(t, reader.ScreenPsalmModal, m.Session().Screen())
			assert.Contains(t, m.View(), "Псалом 2: Зачем мятутся народы")

			m, cmd := press(t, m, closeKey)
			assert.Nil(t, cmd)
			assert.Equal(t, reader.ScreenPsalms, m.Session().Screen())
			assert.Empty(t, m.Session().SelectedPsalmID())
		})
	}
}

func TestModel_PsalmsTabTogglesFocus(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, progress.NewMemoryStore())
	m, _ = press(t, m, "2")
	assert.True(t, m.psalmInput.Focused())

	m, _ = press(t, m, "tab")
	assert.Equal(t, focusResults, m.focus)
	assert.False(t, m.psalmInput.Focused())

	m, _ = press(t, m, "tab")
	assert.True(t, m.psalmInput.Focused())
}

type failingStore struct {
	progress.Store
}

func (failingStore) Save(context.Context, progress.Progress) error {
	return errors.New("disk full")
}

func TestModel_FailedSaveIsIgnored(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, failingStore{Store: progress.NewMemoryStore()})
	m, _ = press(t, m, "1")
	m = typeText(t, m, "притч")
	m, _ = press(t, m, "enter", "enter")

	m, cmd := press(t, m, "l")
	require.NotNil(t, cmd)
	msg := cmd()
	require.Error(t, msg.(progressSavedMsg).err)

	updated, _ := m.Update(msg)
	m = updated.(Model)
	assert.Equal(t, 2, m.Session().SelectedChapter())
	assert.Equal(t, reader.ScreenBookDetail, m.Session().Screen())
}

// slowStore delays its first Save.
type slowStore struct {
	progress.Store
	calls atomic.Int32
}

func (s *slowStore) Save(ctx context.Context, p progress.Progress) error {
	if s.calls.Add(1) == 1 {
		time.Sleep(50 * time.Millisecond)
	}
	return s.Store.Save(ctx, p)
}

func TestModel_ConcurrentSavesKeepLatestChapter(t *testing.T) {
	t.Parallel()

	store := &slowStore{Store: progress.NewMemoryStore()}
	m := newTestModel(t, store)
	m, _ = press(t, m, "1")
	m = typeText(t, m, "притч")
	m, _ = press(t, m, "enter", "enter")

	m, first := press(t, m, "right")
	m, second := press(t, m, "right")
	require.NotNil(t, first)
	require.NotNil(t, second)
	require.Equal(t, 3, m.Session().SelectedChapter())

	msgs := make([]tea.Msg, 2)
	var wg sync.WaitGroup
	for i, cmd := range []tea.Cmd{first, second} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			msgs[i] = cmd()
		}()
		if i == 0 {
			time.Sleep(10 * time.Millisecond)
		}
	}
	wg.Wait()

	for _, msg := range msgs {
		saved, ok := msg.(progressSavedMsg)
		require.True(t, ok)
		assert.NoError(t, saved.err)
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, progress.Progress{"proverbs": {ChapterNumber: 3}}, got)
}

func TestModel_OutdatedSaveIsDropped(t *testing.T) {
	t.Parallel()

	store := progress.NewMemoryStore()
	m := newTestModel(t, store)
	m, _ = press(t, m, "1")
	m = typeText(t, m, "притч")
	m, _ = press(t, m, "enter", "enter")

	m, first := press(t, m, "l")
	m, second := press(t, m, "l")
	m = runSave(t, m, second)

	msg := first()
	saved, ok := msg.(progressSavedMsg)
	require.True(t, ok)
	assert.NoError(t, saved.err)
	assert.True(t, saved.stale)
	m.Update(msg)

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, progress.Progress{"proverbs": {ChapterNumber: 3}}, got)
}

func TestModel_HelpLines(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, progress.NewMemoryStore())
	m, _ = press(t, m, "1")
	m = typeText(t, m, "притч")
	m, _ = press(t, m, "enter", "enter", "l")

	view := m.View()
	assert.Contains(t, view, "h: Previous chapter")
	assert.Contains(t, view, "l: Next chapter")
	assert.NotContains(t, view, "Предыдущая")
	assert.NotContains(t, view, "Следующая")

	m, _ = press(t, m, "l")
	assert.NotContains(t, m.View(), "l: Next chapter")
}

func TestColumnWidth(t *testing.T) {
	t.Parallel()

	prev := columnWidth(reader.FontSmall, 120)
	for _, f := range []reader.FontSize{reader.FontBase, reader.FontLarge, reader.FontExtraLarge} {
		w := columnWidth(f, 120)
		assert.Less(t, w, prev, "larger text fits fewer characters per line")
		prev = w
	}
	assert.Equal(t, minColumnWidth, columnWidth(reader.FontExtraLarge, 10))
}
