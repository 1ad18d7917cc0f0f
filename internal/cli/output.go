package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"todolist/internal/stats"
	"todolist/internal/todo"
	"todolist/internal/view"
)

var (
	idStyle    = lipgloss.NewStyle().Faint(true).Width(5).Align(lipgloss.Right)
	checkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	doneStyle  = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	timeStyle  = lipgloss.NewStyle().Faint(true)
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	emptyStyle = lipgloss.NewStyle().Faint(true)
)

// ErrorStyle renders a failed command's message on stderr.
var ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

const timeLayout = "2006-01-02 15:04"

type printer struct {
	w    io.Writer
	json bool
	msgs *view.Messages
}

func newPrinter(cmd *cobra.Command, opts *RootOptions) *printer {
	return &printer{
		w:    cmd.OutOrStdout(),
		json: opts.Format == "json",
		msgs: opts.messages(),
	}
}

func (p *printer) todos(state *view.State) error {
	visible := state.Visible()
	if p.json {
		return p.encode(visible)
	}
	if len(visible) == 0 {
		fmt.Fprintln(p.w, emptyStyle.Render(p.msgs.Sprintf(view.KeyEmpty)))
	}
	for _, t := range visible {
		fmt.Fprintln(p.w, line(t))
	}
	fmt.Fprintln(p.w, countStyle.Render(p.msgs.Sprintf(view.KeyCounts, state.Remaining(), len(state.Todos))))
	return nil
}

func (p *printer) todo(t todo.Todo) error {
	if p.json {
		return p.encode(t)
	}
	fmt.Fprintln(p.w, line(t))
	return nil
}

func (p *printer) deleted(id int64) error {
	if p.json {
		return p.encode(map[string]any{"success": true, "id": id})
	}
	fmt.Fprintf(p.w, "deleted %d\n", id)
	return nil
}

func (p *printer) stats(summary stats.Summary) error {
	if p.json {
		return p.encode(summary)
	}
	fmt.Fprintln(p.w, countStyle.Render(p.msgs.Sprintf(view.KeyCounts, summary.Remaining, summary.Total)))
	return nil
}

func (p *printer) encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func line(t todo.Todo) string {
	box, title := "☐", t.Title
	if t.Completed {
		box, title = checkStyle.Render("☑"), doneStyle.Render(t.Title)
	}
	return fmt.Sprintf("%s  %s  %s  %s",
		idStyle.Render(fmt.Sprint(t.ID)), box, title, timeStyle.Render(t.Time.Local().Format(timeLayout)))
}
