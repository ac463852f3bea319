package main

import (
	"errors"
	"fmt"
	"slices"

	"biblioteka-go/internal/progress"
)

// Run executes the progress command.
func (c *ProgressCmd) Run(deps *Dependencies) error {
	if c.Reset {
		if err := deps.Store.Save(deps.Ctx, progress.Progress{}); err != nil {
			return fmt.Errorf("failed to reset reading progress: %w", err)
		}
		fmt.Fprintln(deps.Stdout, "Reading progress cleared.")
		return nil
	}

	p, err := deps.Store.Load(deps.Ctx)
	if errors.Is(err, progress.ErrInvalidState) {
		deps.Logger.Warn("ignoring stored reading progress", "error", err)
	} else if err != nil {
		return fmt.Errorf("failed to load reading progress: %w", err)
	}

	if len(p) == 0 {
		fmt.Fprintln(deps.Stdout, "No reading progress recorded.")
		return nil
	}

	lib := loadLibrary(deps)
	ids := make([]string, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		title := id
		if book, err := lib.Book(id); err == nil {
			title = fmt.Sprintf("%s (%s)", book.Title, id)
		}
		fmt.Fprintf(deps.Stdout, "%s: глава %d\n", title, p[id].ChapterNumber)
	}
	return nil
}
