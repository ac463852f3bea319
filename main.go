package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"biblioteka-go/assets"
	"biblioteka-go/internal/config"
	"biblioteka-go/internal/logger"
	"biblioteka-go/internal/progress"
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

const logFileName = "biblioteka.log"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}

	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Documents used when no data directory is given.
	Documents fs.FS

	Store   progress.Store
	logFile *os.File
}

// NewMain returns a new instance of Main reading the bundled documents.
func NewMain() *Main {
	return &Main{
		Documents: assets.FS,
	}
}

// Close releases the progress store and the log file.
func (m *Main) Close() error {
	var errs []error
	if m.Store != nil {
		errs = append(errs, m.Store.Close())
		m.Store = nil
	}
	if m.logFile != nil {
		errs = append(errs, m.logFile.Close())
		m.logFile = nil
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("biblioteka"),
		kong.Description("Read and search books and psalms in the terminal."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) > 0 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	interactive := strings.HasPrefix(kongCtx.Command(), "read")

	deps.StateDir = cli.StateDir
	if deps.StateDir == "" {
		if deps.StateDir, err = config.DefaultDir(); err != nil {
			return err
		}
	}
	if err := config.EnsureDir(deps.StateDir); err != nil {
		return err
	}
	defer m.Close()

	logOut := stderr
	if interactive {
		// The reader owns the terminal, so logs go to a file.
		m.logFile, err = os.OpenFile(filepath.Join(deps.StateDir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logOut = m.logFile
	}
	deps.Logger = logger.New(logger.Config{
		Writer: logOut,
		Format: cli.LogFormat,
		Level:  logger.ParseLevel(cli.LogLevel),
	})

	deps.Documents = m.Documents
	if cli.DataDir != "" {
		deps.Documents = os.DirFS(cli.DataDir)
	}

	if m.Store == nil {
		m.Store, err = progress.Open(cli.Store, deps.StateDir)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Set BIBLIOTEKA_STORE=memory to run without saved progress")
			return fmt.Errorf("failed to open %s progress store: %w", cli.Store, err)
		}
	}
	deps.Store = m.Store

	deps.Logger.Debug("starting",
		slog.String("command", kongCtx.Command()),
		slog.String("state_dir", deps.StateDir),
		slog.String("store", cli.Store),
		slog.Bool("bundled_documents", cli.DataDir == ""))

	return kongCtx.Run(deps)
}
