// Package library loads the bundled books and psalms and searches them.
package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrBookNotFound    = errors.New("book not found")
	ErrChapterNotFound = errors.New("chapter not found")
	ErrPsalmNotFound   = errors.New("psalm not found")
)

const (
	booksGlob  = "books/*.json"
	psalmsGlob = "psalms/*.json"
)

type Chapter struct {
	Number  int    `json:"number" validate:"gte=1"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Book struct {
	ID       string    `json:"id" validate:"required"`
	Title    string    `json:"title" validate:"required"`
	Chapters []Chapter `json:"chapters" validate:"required,min=1,dive"`
}

type Psalm struct {
	ID      string `json:"id" validate:"required"`
	Number  int    `json:"number" validate:"gte=1"`
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
}

// Chapter returns the chapter with the given number.
func (b *Book) Chapter(number int) (*Chapter, bool) {
	if i := b.chapterIndex(number); i >= 0 {
		return &b.Chapters[i], true
	}
	return nil, false
}

// Neighbour returns the number of the chapter offset positions away from
// number in the chapter sequence.
func (b *Book) Neighbour(number, offset int) (int, bool) {
	i := b.chapterIndex(number)
	if i < 0 {
		return 0, false
	}
	j := i + offset
	if j < 0 || j >= len(b.Chapters) {
		return 0, false
	}
	return b.Chapters[j].Number, true
}

// FirstChapter returns the number of the first chapter in sequence.
func (b *Book) FirstChapter() int {
	if len(b.Chapters) == 0 {
		return 1
	}
	return b.Chapters[0].Number
}

func (b *Book) chapterIndex(number int) int {
	for i := range b.Chapters {
		if b.Chapters[i].Number == number {
			return i
		}
	}
	return -1
}

// Library is the in-memory set of documents. It is immutable after Load.
type Library struct {
	books  []*Book
	psalms []*Psalm
}

// New builds a library from already decoded documents. Documents are
// normalized but not validated.
func New(books []Book, psalms []Psalm) *Library {
	lib := &Library{}
	for i := range books {
		b := books[i]
		normalizeBook(&b)
		lib.books = append(lib.books, &b)
	}
	for i := range psalms {
		p := psalms[i]
		normalizePsalm(&p)
		lib.psalms = append(lib.psalms, &p)
	}
	sortPsalms(lib.psalms)
	return lib
}

// Load reads books/*.json and psalms/*.json from fsys.
//
// The returned library is never nil. Documents that fail to read, parse or
// validate, and documents repeating an earlier id, are skipped; the reasons are
// joined into the returned error.
func Load(fsys fs.FS) (*Library, error) {
	lib := &Library{}
	v := newValidator()
	var errs []error

	bookFiles, err := fs.Glob(fsys, booksGlob)
	if err != nil {
		return lib, fmt.Errorf("failed to glob book files: %w", err)
	}
	seenBooks := make(map[string]bool)
	for _, file := range bookFiles {
		var book Book
		if err := readDocument(fsys, file, &book); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := v.validateBook(&book); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", file, err))
			continue
		}
		if seenBooks[book.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate book id %q", file, book.ID))
			continue
		}
		seenBooks[book.ID] = true
		normalizeBook(&book)
		lib.books = append(lib.books, &book)
	}

	psalmFiles, err := fs.Glob(fsys, psalmsGlob)
	if err != nil {
		return lib, fmt.Errorf("failed to glob psalm files: %w", err)
	}
	seenPsalms := make(map[string]bool)
	for _, file := range psalmFiles {
		var psalm Psalm
		if err := readDocument(fsys, file, &psalm); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := v.validatePsalm(&psalm); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", file, err))
			continue
		}
		if seenPsalms[psalm.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate psalm id %q", file, psalm.ID))
			continue
		}
		seenPsalms[psalm.ID] = true
		normalizePsalm(&psalm)
		lib.psalms = append(lib.psalms, &psalm)
	}
	sortPsalms(lib.psalms)

	return lib, errors.Join(errs...)
}

func readDocument(fsys fs.FS, name string, target any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func normalizeBook(b *Book) {
	b.Title = norm.NFC.String(b.Title)
	for i := range b.Chapters {
		b.Chapters[i].Title = norm.NFC.String(b.Chapters[i].Title)
		b.Chapters[i].Content = norm.NFC.String(b.Chapters[i].Content)
	}
}

func normalizePsalm(p *Psalm) {
	p.Title = norm.NFC.String(p.Title)
	p.Content = norm.NFC.String(p.Content)
}

func sortPsalms(psalms []*Psalm) {
	sort.SliceStable(psalms, func(i, j int) bool {
		return psalms[i].Number < psalms[j].Number
	})
}

func (l *Library) Books() []*Book {
	return l.books
}

func (l *Library) Psalms() []*Psalm {
	return l.psalms
}

func (l *Library) Book(id string) (*Book, error) {
	for _, b := range l.books {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrBookNotFound, id)
}

func (l *Library) Psalm(id string) (*Psalm, error) {
	for _, p := range l.psalms {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrPsalmNotFound, id)
}
