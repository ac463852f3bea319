package library

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// snippetRadius is the number of characters kept on each side of a match.
const snippetRadius = 30

// WordMatch is one chapter whose content contains the searched word.
type WordMatch struct {
	ChapterNumber int    `json:"chapterNumber"`
	ChapterTitle  string `json:"chapterTitle"`
	Snippet       string `json:"snippet"`
}

// WordResult groups the matching chapters of one book.
type WordResult struct {
	BookID    string      `json:"bookId"`
	BookTitle string      `json:"bookTitle"`
	Matches   []WordMatch `json:"matches"`
}

// prepareQuery trims and normalizes a query. ok is false for blank queries.
func prepareQuery(query string) (q []rune, ok bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false
	}
	return foldRunes(norm.NFC.String(query)), true
}

// SearchBooks returns the books whose title contains query, ignoring case.
func (l *Library) SearchBooks(query string) []*Book {
	q, ok := prepareQuery(query)
	if !ok {
		return nil
	}
	var results []*Book
	for _, b := range l.books {
		if indexFold(b.Title, q) >= 0 {
			results = append(results, b)
		}
	}
	return results
}

// SearchWords returns, per book, the chapters whose content contains query,
// each with a snippet around the first occurrence.
func (l *Library) SearchWords(query string) []WordResult {
	q, ok := prepareQuery(query)
	if !ok {
		return nil
	}
	var results []WordResult
	for _, b := range l.books {
		var matches []WordMatch
		for _, ch := range b.Chapters {
			if indexFold(ch.Content, q) < 0 {
				continue
			}
			matches = append(matches, WordMatch{
				ChapterNumber: ch.Number,
				ChapterTitle:  ch.Title,
				Snippet:       snippet(ch.Content, q),
			})
		}
		if len(matches) > 0 {
			results = append(results, WordResult{
				BookID:    b.ID,
				BookTitle: b.Title,
				Matches:   matches,
			})
		}
	}
	return results
}

// SearchPsalms returns the psalms whose title, number or content contains query.
func (l *Library) SearchPsalms(query string) []*Psalm {
	q, ok := prepareQuery(query)
	if !ok {
		return nil
	}
	var results []*Psalm
	for _, p := range l.psalms {
		if indexFold(p.Title, q) >= 0 ||
			indexFold(strconv.Itoa(p.Number), q) >= 0 ||
			indexFold(p.Content, q) >= 0 {
			results = append(results, p)
		}
	}
	return results
}

// Snippet returns the text around the first case-insensitive occurrence of
// term, or the whole text when term does not occur.
func Snippet(text, term string) string {
	q, ok := prepareQuery(term)
	if !ok {
		return text
	}
	return snippet(text, q)
}

func snippet(text string, q []rune) string {
	runes := []rune(text)
	idx := indexRunes(foldRunes(text), q)
	if idx < 0 {
		return text
	}
	start := max(0, idx-snippetRadius)
	end := min(len(runes), idx+len(q)+snippetRadius)
	return string(runes[start:end])
}

// foldRunes lower-cases s rune by rune, so indexes into the result are
// indexes into []rune(s).
func foldRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

// indexFold reports the rune index of the folded query q in text, or -1.
func indexFold(text string, q []rune) int {
	return indexRunes(foldRunes(text), q)
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j, r := range needle {
			if haystack[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}
