package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"todolist/internal/todo"
	"todolist/internal/tui"
	"todolist/internal/view"
)

func newUICommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive todo list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(cmd.Context(), opts.api(), opts.messages())
		},
	}
}

func newListCommand(opts *RootOptions) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List todos, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFilter(filter)
			if err != nil {
				return err
			}
			todos, err := opts.api().List(cmd.Context())
			if err != nil {
				return err
			}

			// 过滤只在本地做，计数仍按全部记录
			state := view.New(opts.messages())
			state.FinishLoad(todos, nil)
			state.SetFilter(f)
			return newPrinter(cmd, opts).todos(state)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "all", "which todos to show (all|active|completed)")

	return cmd
}

func newAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title>",
		Short: "Add a todo",
		Example: `  todo add Buy milk
  todo add "Read for 30 minutes"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := opts.api().Create(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return newPrinter(cmd, opts).todo(created)
		},
	}
}

// newSetCompletedCommand builds "done" (completed=true) or "undone".
func newSetCompletedCommand(opts *RootOptions, completed bool) *cobra.Command {
	use, short := "done <id>", "Mark a todo as completed"
	if !completed {
		use, short = "undone <id>", "Mark a todo as not completed"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			updated, err := opts.api().Update(cmd.Context(), id, todo.Patch{Completed: &completed})
			if err != nil {
				return err
			}
			return newPrinter(cmd, opts).todo(updated)
		},
	}
}

func newRenameCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Change a todo's title",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			title := strings.Join(args[1:], " ")
			updated, err := opts.api().Update(cmd.Context(), id, todo.Patch{Title: &title})
			if err != nil {
				return err
			}
			return newPrinter(cmd, opts).todo(updated)
		},
	}
}

func newRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := opts.api().Delete(cmd.Context(), id); err != nil {
				return err
			}
			return newPrinter(cmd, opts).deleted(id)
		},
	}
}

func newStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completed and remaining counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := opts.api().Stats(cmd.Context())
			if err != nil {
				return err
			}
			return newPrinter(cmd, opts).stats(summary)
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func parseFilter(raw string) (view.Filter, error) {
	for _, f := range []view.Filter{view.FilterAll, view.FilterActive, view.FilterCompleted} {
		if f.String() == raw {
			return f, nil
		}
	}
	return view.FilterAll, fmt.Errorf("invalid filter %q: must be one of all, active, completed", raw)
}
