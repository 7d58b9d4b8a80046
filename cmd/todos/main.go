package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/abatilo/todos/internal/config"
	"github.com/abatilo/todos/internal/logging"
	"github.com/abatilo/todos/internal/output"
	"github.com/abatilo/todos/internal/storage"
	"github.com/abatilo/todos/internal/todo"
)

const shutdownTimeout = 5 * time.Second

// app carries the per-invocation state shared by every command.
type app struct {
	stdout io.Writer
	stderr io.Writer
	fs     afero.Fs
	now    func() time.Time

	jsonOutput bool
	yamlOutput bool
	overrides  config.Overrides

	cfg       *config.Config
	logger    *log.Logger
	formatter output.Formatter
	repo      *storage.Repository
	location  string
	store     *todo.Store
	closers   []func() error
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{
		stdout: stdout,
		stderr: stderr,
		fs:     afero.NewOsFs(),
		now:    time.Now,
	}

	rootCmd := a.rootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(context.Background())
	a.shutdown()
	if err != nil {
		a.printError(err)
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "todos",
		Short:         "A small, durable todo list",
		Long:          "todos - A single-user todo list with priorities, due dates and statistics.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")
	flags.BoolVar(&a.yamlOutput, "yaml", false, "Output in YAML format")
	flags.StringVar(&a.overrides.Backend, "backend", "", "Storage backend (file, sqlite)")
	flags.StringVar(&a.overrides.DataDir, "data-dir", "", "Directory holding stored todos")
	flags.StringVar(&a.overrides.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	rootCmd.AddCommand(
		a.addCmd(),
		a.listCmd(),
		a.showCmd(),
		a.editCmd(),
		a.toggleCmd(),
		a.rmCmd(),
		a.clearCmd(),
		a.resetCmd(),
		a.statsCmd(),
		a.overdueCmd(),
		a.exportCmd(),
		a.statusCmd(),
	)
	return rootCmd
}

// setup resolves configuration, opens the configured backend and waits for
// the store to finish loading.
func (a *app) setup(ctx context.Context) error {
	switch {
	case a.jsonOutput:
		a.formatter = output.NewJSONFormatter()
	case a.yamlOutput:
		a.formatter = output.NewYAMLFormatter()
	default:
		a.formatter = output.NewHumanFormatter()
	}

	cfg, err := config.Load(a.overrides)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg
	a.logger = logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: a.stderr,
	})

	slot, err := a.openSlot()
	if err != nil {
		return err
	}
	a.repo = storage.NewRepository(slot, storage.RepositoryOptions{
		Key:     cfg.Key,
		Backend: cfg.Backend,
		Logger:  a.logger,
	})
	if !a.repo.IsAvailable() {
		a.logger.Warn("Storage is unavailable; changes will not be saved", "location", a.location)
	}

	a.store = todo.New(a.repo, todo.Options{Clock: a.now, Logger: a.logger})
	return a.store.Wait(ctx)
}

func (a *app) openSlot() (storage.Slot, error) {
	switch a.cfg.Backend {
	case config.BackendSQLite:
		a.location = a.cfg.SQLitePath()
		slot, err := storage.OpenSQLiteSlot(a.location)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		a.closers = append(a.closers, slot.Close)
		return slot, nil
	default:
		slot := storage.NewFileSlot(a.fs, a.cfg.DataDir)
		a.location = slot.Path(a.cfg.Key)
		return slot, nil
	}
}

// shutdown flushes pending saves and releases the backend.
func (a *app) shutdown() {
	if a.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := a.store.Close(ctx); err != nil {
			a.logger.Error("Timed out saving todos", "err", err)
		}
		cancel()
	}
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Error("Error closing storage", "err", err)
		}
	}
}

func (a *app) printOutput(s string) {
	_, _ = io.WriteString(a.stdout, s)
}

func (a *app) printError(err error) {
	f := a.formatter
	if f == nil {
		f = output.NewHumanFormatter()
	}
	_, _ = io.WriteString(a.stdout, f.FormatError(err))
}
