package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	todoerrors "github.com/abatilo/todos/internal/errors"
	"github.com/abatilo/todos/internal/output"
)

const defaultExportPath = "todos-backup.json"

// exportCmd implements 'todos export'.
func (a *app) exportCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored todos to a backup file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			data, ok, err := a.repo.Raw()
			if err != nil {
				return fmt.Errorf("reading stored todos: %w", err)
			}
			if !ok || len(data) == 0 {
				return todoerrors.NothingToExportError{}
			}
			if err = afero.WriteFile(a.fs, path, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			a.logger.Debug("Exported todos", "path", path, "bytes", len(data))
			a.printOutput(a.formatter.FormatMessage("Data exported successfully"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "output", "o", defaultExportPath, "Backup file path")
	return cmd
}

// statusCmd implements 'todos status'.
func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show storage backend and availability",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a.printOutput(a.formatter.FormatStatus(output.StorageStatus{
				Backend:   a.repo.Backend(),
				Key:       a.repo.Key(),
				Location:  a.location,
				Available: a.repo.IsAvailable(),
				Count:     len(a.store.Todos()),
			}))
			return nil
		},
	}
}
