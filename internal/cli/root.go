// Package cli wires the todo client commands.
package cli

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"todolist/internal/client"
	"todolist/internal/view"
)

const defaultServer = "http://localhost:8081/api"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server string
	Lang   string
	Format string // "text" | "json"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "Todo list client",
		Long:          "Manage the todo list kept by todo-api, from the shell or an interactive terminal UI.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", envOr("TODO_SERVER", defaultServer), "API base URL")
	cmd.PersistentFlags().StringVar(&opts.Lang, "lang", envOr("TODO_LANG", "en"), "message language (en|th)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	cmd.AddCommand(newUICommand(opts))
	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newAddCommand(opts))
	cmd.AddCommand(newSetCompletedCommand(opts, true))
	cmd.AddCommand(newSetCompletedCommand(opts, false))
	cmd.AddCommand(newRenameCommand(opts))
	cmd.AddCommand(newRemoveCommand(opts))
	cmd.AddCommand(newStatsCommand(opts))

	return cmd
}

func (o *RootOptions) api() *client.Client {
	return client.New(o.Server)
}

func (o *RootOptions) messages() *view.Messages {
	return view.NewMessages(o.Lang)
}

// ErrorMessage is what the user sees for a failed command: the server's
// message for validation and not-found errors, the error text otherwise.
func ErrorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if msg, ok := apiErr.UserMessage(); ok {
			return msg
		}
	}
	return err.Error()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
