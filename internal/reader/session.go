// Package reader holds the state of one reading session: the current screen,
// searches and their results, the selected book, chapter and psalm, the text
// size, and the reading progress that chapter selection updates.
//
// Session does no I/O. Callers persist Progress() after a chapter selection
// reports a change.
package reader

import (
	"errors"
	"fmt"

	"biblioteka-go/internal/library"
	"biblioteka-go/internal/progress"
)

// ErrInvalidTransition is returned when an action is not allowed from the
// current screen. The session is left unchanged.
var ErrInvalidTransition = errors.New("invalid screen transition")

// BookSearch identifies which search produced the books screen results.
type BookSearch int

const (
	BookSearchNone BookSearch = iota
	BookSearchTitles
	BookSearchWords
)

type Session struct {
	lib      *library.Library
	progress progress.Progress

	screen Screen
	font   FontSize

	bookQuery    string
	wordQuery    string
	psalmQuery   string
	bookSearch   BookSearch
	bookResults  []*library.Book
	wordResults  []library.WordResult
	psalmResults []*library.Psalm

	bookID  string
	chapter int
	psalmID string
}

// New starts a session on the main menu. p is copied.
func New(lib *library.Library, p progress.Progress) *Session {
	if lib == nil {
		lib = library.New(nil, nil)
	}
	return &Session{
		lib:      lib,
		progress: p.Clone(),
		screen:   ScreenMainMenu,
		font:     FontBase,
	}
}

func (s *Session) Library() *library.Library { return s.lib }
func (s *Session) Screen() Screen { return s.screen }
func (s *Session) Font() FontSize { return s.font }

// Progress returns a copy of the reading progress.
func (s *Session) Progress() progress.Progress { return s.progress.Clone() }

func (s *Session) BookQuery() string { return s.bookQuery }
func (s *Session) WordQuery() string { return s.wordQuery }
func (s *Session) PsalmQuery() string { return s.psalmQuery }
func (s *Session) BookSearch() BookSearch { return s.bookSearch }
func (s *Session) BookResults() []*library.Book { return s.bookResults }
func (s *Session) WordResults() []library.WordResult { return s.wordResults }
func (s *Session) PsalmResults() []*library.Psalm { return s.psalmResults }
func (s *Session) SelectedBookID() string { return s.bookID }
func (s *Session) SelectedChapter() int { return s.chapter }
func (s *Session) SelectedPsalmID() string { return s.psalmID }

func (s *Session) goTo(to Screen) error {
	if !s.screen.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.screen, to)
	}
	s.screen = to
	return nil
}

func (s *Session) OpenBooks() error {
	if s.screen != ScreenMainMenu {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.screen, ScreenBooks)
	}
	if err := s.goTo(ScreenBooks); err != nil {
		return err
	}
	s.bookID = ""
	s.chapter = 0
	return nil
}

func (s *Session) OpenPsalms() error {
	if s.screen != ScreenMainMenu {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.screen, ScreenPsalms)
	}
	return s.goTo(ScreenPsalms)
}

// MainMenu returns from the books or psalms list to the main menu.
func (s *Session) MainMenu() error {
	return s.goTo(ScreenMainMenu)
}

// SearchBooks replaces the books screen results with the books whose title
// matches query.
func (s *Session) SearchBooks(query string) []*library.Book {
	s.bookQuery = query
	s.bookSearch = BookSearchTitles
	s.bookResults = s.lib.SearchBooks(query)
	s.wordResults = nil
	return s.bookResults
}

// SearchWords replaces the books screen results with chapter matches.
func (s *Session) SearchWords(query string) []library.WordResult {
	s.wordQuery = query
	s.bookSearch = BookSearchWords
	s.wordResults = s.lib.SearchWords(query)
	s.bookResults = nil
	return s.wordResults
}

func (s *Session) SearchPsalms(query string) []*library.Psalm {
	s.psalmQuery = query
	s.psalmResults = s.lib.SearchPsalms(query)
	return s.psalmResults
}

// SelectBook opens a book at its recorded chapter, or at its first chapter
// when nothing usable is recorded.
func (s *Session) SelectBook(bookID string) error {
	if !s.screen.CanTransition(ScreenBookDetail) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.screen, ScreenBookDetail)
	}
	book, err := s.lib.Book(bookID)
	if err != nil {
		return err
	}

	chapter := book.FirstChapter()
	if pos, ok := s.progress.Get(bookID); ok {
		if _, exists := book.Chapter(pos.ChapterNumber); exists {
			chapter = pos.ChapterNumber
		}
	}

	if err := s.goTo(ScreenBookDetail); err != nil {
		return err
	}
	s.bookID = bookID
	s.chapter = chapter
	return nil
}

// CloseBook returns from the book view to the books list.
func (s *Session) CloseBook() error {
	if s.screen != ScreenBookDetail {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.screen, ScreenBooks)
	}
	if err := s.goTo(ScreenBooks); err != nil {
		return err
	}
	s.bookID = ""
	s.chapter = 0
	return nil
}

// SelectChapter shows chapter of the open book and records it as the book's
// reading position. changed reports whether Progress() differs afterwards.
func (s *Session) SelectChapter(chapter int) (changed bool, err error) {
	if s.screen != ScreenBookDetail {
		return false, fmt.Errorf("%w: select chapter on %s", ErrInvalidTransition, s.screen)
	}
	book, err := s.lib.Book(s.bookID)
	if err != nil {
		return false, err
	}
	if _, ok := book.Chapter(chapter); !ok {
		return false, fmt.Errorf("%w: %s %d", library.ErrChapterNotFound, book.ID, chapter)
	}
	s.chapter = chapter
	return s.progress.Set(book.ID, chapter), nil
}

// NextChapter selects the chapter after the current one. It is a no-op on
// the last chapter.
func (s *Session) NextChapter() (bool, error) {
	return s.stepChapter(1)
}

// PrevChapter selects the chapter before the current one. It is a no-op on
// the first chapter.
func (s *Session) PrevChapter() (bool, error) {
	return s.stepChapter(-1)
}

func (s *Session) HasNextChapter() bool {
	_, ok := s.neighbour(1)
	return ok
}

func (s *Session) HasPrevChapter() bool {
	_, ok := s.neighbour(-1)
	return ok
}

func (s *Session) neighbour(offset int) (int, bool) {
	book, err := s.lib.Book(s.bookID)
	if err != nil {
		return 0, false
	}
	return book.Neighbour(s.chapter, offset)
}

func (s *Session) stepChapter(offset int) (bool, error) {
	next, ok := s.neighbour(offset)
	if !ok {
		return false, nil
	}
	return s.SelectChapter(next)
}

// OpenWordMatch opens the book of a word search match at the matched chapter.
// The session stays on the books list when the chapter does not exist.
func (s *Session) OpenWordMatch(bookID string, chapter int) (bool, error) {
	if !s.screen.CanTransition(ScreenBookDetail) {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.screen, ScreenBookDetail)
	}
	book, err := s.lib.Book(bookID)
	if err != nil {
		return false, err
	}
	if _, ok := book.Chapter(chapter); !ok {
		return false, fmt.Errorf("%w: %s %d", library.ErrChapterNotFound, book.ID, chapter)
	}
	if err := s.SelectBook(bookID); err != nil {
		return false, err
	}
	return s.SelectChapter(chapter)
}

func (s *Session) SelectPsalm(psalmID string) error {
	if !s.screen.CanTransition(ScreenPsalmModal) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.screen, ScreenPsalmModal)
	}
	if _, err := s.lib.Psalm(psalmID); err != nil {
		return err
	}
	s.psalmID = psalmID
	return s.goTo(ScreenPsalmModal)
}

// ClosePsalm returns from the psalm view to the psalm list.
func (s *Session) ClosePsalm() error {
	if s.screen != ScreenPsalmModal {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.screen, ScreenPsalms)
	}
	s.psalmID = ""
	return s.goTo(ScreenPsalms)
}

// CurrentBook returns the open book and chapter. ok is false when either is
// missing, in which case nothing should be rendered.
func (s *Session) CurrentBook() (book *library.Book, chapter *library.Chapter, ok bool) {
	book, err := s.lib.Book(s.bookID)
	if err != nil {
		return nil, nil, false
	}
	chapter, ok = book.Chapter(s.chapter)
	if !ok {
		return nil, nil, false
	}
	return book, chapter, true
}

func (s *Session) CurrentPsalm() (*library.Psalm, bool) {
	p, err := s.lib.Psalm(s.psalmID)
	if err != nil {
		return nil, false
	}
	return p, true
}

func (s *Session) IncreaseFont() FontSize {
	s.font = s.font.Increase()
	return s.font
}

func (s *Session) DecreaseFont() FontSize {
	s.font = s.font.Decrease()
	return s.font
}
