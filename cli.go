package main

import (
	"context"
	"io"
	"io/fs"
	"log/slog"

	"biblioteka-go/internal/library"
	"biblioteka-go/internal/progress"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	StateDir  string
	Documents fs.FS
	Store     progress.Store
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DataDir   string `name:"data-dir" env:"BIBLIOTEKA_DATA_DIR" help:"Directory with books/*.json and psalms/*.json (default: bundled documents)"`
	StateDir  string `name:"state-dir" env:"BIBLIOTEKA_STATE_DIR" help:"Directory for reading progress, theme and logs (default: <user config dir>/biblioteka)"`
	Store     string `name:"store" env:"BIBLIOTEKA_STORE" enum:"file,badger,sqlite,memory" default:"file" help:"Progress store: file, badger, sqlite or memory"`
	LogLevel  string `name:"log-level" env:"BIBLIOTEKA_LOG_LEVEL" enum:"debug,info,warn,error" default:"info" help:"Log level"`
	LogFormat string `name:"log-format" env:"BIBLIOTEKA_LOG_FORMAT" enum:"text,json" default:"text" help:"Log format"`

	Read     ReadCmd     `cmd:"" default:"1" help:"Open the reader"`
	Search   SearchCmd   `cmd:"" help:"Search books, chapters or psalms"`
	Progress ProgressCmd `cmd:"" help:"Print or clear reading progress"`
}

// ReadCmd is the "read" subcommand.
type ReadCmd struct{}

// SearchCmd groups the search subcommands.
type SearchCmd struct {
	Books  SearchBooksCmd  `cmd:"" help:"Find books by title"`
	Words  SearchWordsCmd  `cmd:"" help:"Find chapters containing a word"`
	Psalms SearchPsalmsCmd `cmd:"" help:"Find psalms by title, number or text"`
}

// SearchBooksCmd is the "search books" subcommand.
type SearchBooksCmd struct {
	Query []string `arg:"" help:"Text to look for in book titles"`
	JSON  bool     `name:"json" help:"Print results as JSON"`
}

// SearchWordsCmd is the "search words" subcommand.
type SearchWordsCmd struct {
	Query []string `arg:"" help:"Text to look for in chapter content"`
	JSON  bool     `name:"json" help:"Print results as JSON"`
}

// SearchPsalmsCmd is the "search psalms" subcommand.
type SearchPsalmsCmd struct {
	Query []string `arg:"" help:"Text to look for in psalm titles, numbers and content"`
	JSON  bool     `name:"json" help:"Print results as JSON"`
}

// ProgressCmd is the "progress" subcommand.
type ProgressCmd struct {
	Reset bool `help:"Forget all reading positions"`
}

// loadLibrary loads the documents, logging any that were skipped.
func loadLibrary(deps *Dependencies) *library.Library {
	lib, err := library.Load(deps.Documents)
	if err != nil {
		deps.Logger.Warn("skipped documents while loading library", "error", err)
	}
	return lib
}
