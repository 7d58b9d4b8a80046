package main

import (
	"fmt"

	"github.com/spf13/cobra"

	todoerrors "github.com/abatilo/todos/internal/errors"
	"github.com/abatilo/todos/internal/stats"
	"github.com/abatilo/todos/internal/task"
	"github.com/abatilo/todos/internal/todo"
)

// addCmd implements 'todos add'.
func (a *app) addCmd() *cobra.Command {
	var description, priority, due string
	var tags []string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			title, err := parseTitle(args[0])
			if err != nil {
				return err
			}
			p, err := parsePriority(priority)
			if err != nil {
				return err
			}

			in := todo.NewTask{
				Title:       title,
				Description: description,
				Priority:    p,
				Tags:        tags,
			}
			if due != "" {
				d, err := parseDueDate(due)
				if err != nil {
					return err
				}
				in.DueDate = &d
			}

			a.printOutput(a.formatter.FormatTask(a.store.Add(in)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Todo description")
	cmd.Flags().StringVarP(&priority, "priority", "p", string(task.PriorityMedium), "Priority (high, medium, low)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Tag to attach (repeatable)")
	return cmd
}

// listCmd implements 'todos list'.
func (a *app) listCmd() *cobra.Command {
	var status, priority, search string
	var tags []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := parseStatus(status)
			if err != nil {
				return err
			}
			f := stats.Filter{Status: s, Tags: tags, Query: search}
			if priority != "" {
				if f.Priority, err = parsePriority(priority); err != nil {
					return err
				}
			}
			a.printOutput(a.formatter.FormatTaskList(a.store.Filter(f)))
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", string(stats.StatusAll), "Show all, completed or pending todos")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Show only this priority")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Show only todos carrying every tag")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Match title or description")
	return cmd
}

// lookup resolves ref to a stored task.
func (a *app) lookup(ref string) (task.Task, error) {
	id, err := resolveID(a.store.Todos(), ref)
	if err != nil {
		return task.Task{}, err
	}
	t, ok := a.store.Get(id)
	if !ok {
		return task.Task{}, todoerrors.TaskNotFoundError{ID: ref}
	}
	return t, nil
}

// showCmd implements 'todos show'.
func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show todo details",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			t, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			a.printOutput(a.formatter.FormatTask(t))
			return nil
		},
	}
}

// editCmd implements 'todos edit'.
func (a *app) editCmd() *cobra.Command {
	var title, description, priority, due string
	var clearDue bool
	var tags []string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.lookup(args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			var patch task.Patch
			if flags.Changed("title") {
				v, err := parseTitle(title)
				if err != nil {
					return err
				}
				patch.Title = &v
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("priority") {
				p, err := parsePriority(priority)
				if err != nil {
					return err
				}
				patch.Priority = &p
			}
			if flags.Changed("due") {
				d, err := parseDueDate(due)
				if err != nil {
					return err
				}
				patch.DueDate = &d
			}
			patch.ClearDueDate = clearDue
			if flags.Changed("tag") {
				patch.Tags = &tags
			}
			if patch.IsEmpty() {
				return todoerrors.NothingToDoError{Command: "edit"}
			}

			a.store.Update(t.ID, patch)
			updated, _ := a.store.Get(t.ID)
			a.printOutput(a.formatter.FormatTask(updated))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "New priority (high, medium, low)")
	cmd.Flags().StringVar(&due, "due", "", "New due date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Replace tags (repeatable; pass --tag= to remove all)")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")
	return cmd
}

// toggleCmd implements 'todos toggle'.
func (a *app) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a todo done, or not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			t, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			a.store.Toggle(t.ID)
			toggled, _ := a.store.Get(t.ID)
			a.printOutput(a.formatter.FormatTask(toggled))
			return nil
		},
	}
}

// rmCmd implements 'todos rm'.
func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			t, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			a.store.Delete(t.ID)
			a.printOutput(a.formatter.FormatMessage(fmt.Sprintf("Removed todo %s", t.ID)))
			return nil
		},
	}
}

// clearCmd implements 'todos clear'.
func (a *app) clearCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove completed todos, or every todo with --all",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			before := len(a.store.Todos())
			if all {
				a.store.ClearAll()
				a.printOutput(a.formatter.FormatMessage(fmt.Sprintf("Cleared %d todo(s)", before)))
				return nil
			}
			a.store.ClearCompleted()
			removed := before - len(a.store.Todos())
			a.printOutput(a.formatter.FormatMessage(fmt.Sprintf("Cleared %d completed todo(s)", removed)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Remove every todo, not only completed ones")
	return cmd
}

// resetCmd implements 'todos reset'.
func (a *app) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every todo and the stored data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.store.ClearAll()
			if err := a.store.Flush(cmd.Context()); err != nil {
				return fmt.Errorf("saving todos: %w", err)
			}
			a.repo.Clear()
			a.printOutput(a.formatter.FormatMessage("All data cleared"))
			return nil
		},
	}
}

// statsCmd implements 'todos stats'.
func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a.printOutput(a.formatter.FormatStats(a.store.Stats()))
			return nil
		},
	}
}

// overdueCmd implements 'todos overdue'.
func (a *app) overdueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List pending todos past their due date",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a.printOutput(a.formatter.FormatTaskList(a.store.Overdue()))
			return nil
		},
	}
}
