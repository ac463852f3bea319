package main

import (
	"fmt"

	"biblioteka-go/internal/config"
	"biblioteka-go/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Run executes the read command.
func (c *ReadCmd) Run(deps *Dependencies) error {
	theme, err := config.LoadTheme(deps.StateDir)
	if err != nil {
		deps.Logger.Warn("using default theme", "error", err)
	}

	m := ui.New(ui.Config{
		Documents: deps.Documents,
		Store:     deps.Store,
		Theme:     theme,
		Logger:    deps.Logger,
	})

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(deps.Ctx),
		tea.WithOutput(deps.Stdout),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("reader stopped: %w", err)
	}
	return nil
}
