package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"biblioteka-go/internal/library"
)

const nothingFound = "Ничего не найдено"

type bookSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type psalmSummary struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Title  string `json:"title"`
}

// Run executes the search books command.
func (c *SearchBooksCmd) Run(deps *Dependencies) error {
	books := loadLibrary(deps).SearchBooks(strings.Join(c.Query, " "))

	if c.JSON {
		out := make([]bookSummary, 0, len(books))
		for _, b := range books {
			out = append(out, bookSummary{ID: b.ID, Title: b.Title})
		}
		return writeJSON(deps.Stdout, out)
	}

	if len(books) == 0 {
		fmt.Fprintln(deps.Stdout, nothingFound)
		return nil
	}
	for _, b := range books {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", b.ID, b.Title)
	}
	return nil
}

// Run executes the search words command.
func (c *SearchWordsCmd) Run(deps *Dependencies) error {
	results := loadLibrary(deps).SearchWords(strings.Join(c.Query, " "))

	if c.JSON {
		if results == nil {
			results = []library.WordResult{}
		}
		return writeJSON(deps.Stdout, results)
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, nothingFound)
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(deps.Stdout, "%s (%s)\n", r.BookTitle, r.BookID)
		for _, match := range r.Matches {
			fmt.Fprintf(deps.Stdout, "  Глава %d: %s\n", match.ChapterNumber, match.ChapterTitle)
			fmt.Fprintf(deps.Stdout, "    …%s…\n", match.Snippet)
		}
	}
	return nil
}

// Run executes the search psalms command.
func (c *SearchPsalmsCmd) Run(deps *Dependencies) error {
	psalms := loadLibrary(deps).SearchPsalms(strings.Join(c.Query, " "))

	if c.JSON {
		out := make([]psalmSummary, 0, len(psalms))
		for _, p := range psalms {
			out = append(out, psalmSummary{ID: p.ID, Number: p.Number, Title: p.Title})
		}
		return writeJSON(deps.Stdout, out)
	}

	if len(psalms) == 0 {
		fmt.Fprintln(deps.Stdout, nothingFound)
		return nil
	}
	for _, p := range psalms {
		fmt.Fprintf(deps.Stdout, "Псалом %d: %s\n", p.Number, p.Title)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
