package ui

import (
	"context"
	"sync"

	"biblioteka-go/internal/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// progressWriter serializes saves issued from Update. Each snapshot gets a
// sequence number when it is issued; a snapshot older than one already
// written is dropped.
type progressWriter struct {
	store progress.Store

	mu      sync.Mutex
	issued  uint64
	written uint64
}

func newProgressWriter(store progress.Store) *progressWriter {
	return &progressWriter{store: store}
}

// saveCmd returns a command that persists p unless a newer snapshot has been
// written first.
func (w *progressWriter) saveCmd(p progress.Progress) tea.Cmd {
	w.mu.Lock()
	w.issued++
	seq := w.issued
	w.mu.Unlock()

	return func() tea.Msg {
		return w.save(context.Background(), seq, p)
	}
}

func (w *progressWriter) save(ctx context.Context, seq uint64, p progress.Progress) progressSavedMsg {
	w.mu.Lock()
	defer w.mu.Unlock()

	if seq <= w.written {
		return progressSavedMsg{stale: true}
	}
	w.written = seq
	return progressSavedMsg{err: w.store.Save(ctx, p)}
}
