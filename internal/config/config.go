// Package config locates the state directory and reads the colour theme.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	appName   = "biblioteka"
	themeFile = "config.json"
)

// Theme holds the colours used by the reader. Values are lipgloss colour
// strings.
type Theme struct {
	HighlightColor string `json:"highlightColor"`
	AccentColor    string `json:"accentColor"`
	TextColor      string `json:"textColor"`
	DimColor       string `json:"dimColor"`
}

func DefaultTheme() Theme {
	return Theme{
		HighlightColor: "#cba6f7",
		AccentColor:    "#89b4fa",
		TextColor:      "#cdd6f4",
		DimColor:       "#313244",
	}
}

// DefaultDir returns <user config dir>/biblioteka.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// EnsureDir creates dir if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state dir %s: %w", dir, err)
	}
	return nil
}

func saveJSON(path string, data any) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, jsonData, 0o644)
}

func loadJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// LoadTheme reads the theme from dir. A missing file is created with the
// defaults. Colours left empty in the file fall back to the defaults.
func LoadTheme(dir string) (Theme, error) {
	theme := DefaultTheme()
	path := filepath.Join(dir, themeFile)

	err := loadJSON(path, &theme)
	if errors.Is(err, fs.ErrNotExist) {
		return theme, SaveTheme(dir, theme)
	}
	if err != nil {
		return DefaultTheme(), fmt.Errorf("failed to read theme %s: %w", path, err)
	}

	def := DefaultTheme()
	theme.HighlightColor = orDefault(theme.HighlightColor, def.HighlightColor)
	theme.AccentColor = orDefault(theme.AccentColor, def.AccentColor)
	theme.TextColor = orDefault(theme.TextColor, def.TextColor)
	theme.DimColor = orDefault(theme.DimColor, def.DimColor)
	return theme, nil
}

func SaveTheme(dir string, theme Theme) error {
	if err := EnsureDir(dir); err != nil {
		return err
	}
	if err := saveJSON(filepath.Join(dir, themeFile), theme); err != nil {
		return fmt.Errorf("failed to write theme: %w", err)
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
