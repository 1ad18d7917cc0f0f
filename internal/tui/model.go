// Package tui renders the todo list in the terminal with Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todolist/internal/todo"
	"todolist/internal/view"
)

// API is the subset of the HTTP client the UI needs.
type API interface {
	List(ctx context.Context) ([]todo.Todo, error)
	Create(ctx context.Context, title string) (todo.Todo, error)
	Update(ctx context.Context, id int64, patch todo.Patch) (todo.Todo, error)
	Delete(ctx context.Context, id int64) error
}

type mode int

const (
	modeNormal mode = iota
	modeAdding
	modeEditing
	modeConfirm
)

type (
	loadedMsg struct {
		todos []todo.Todo
		err   error
	}
	addedMsg struct {
		todo todo.Todo
		err  error
	}
	toggledMsg struct {
		id   int64
		todo todo.Todo
		err  error
	}
	editedMsg struct {
		id   int64
		todo todo.Todo
		err  error
	}
	deletedMsg struct {
		id  int64
		err error
	}
)

type Model struct {
	ctx     context.Context
	api     API
	state   *view.State
	keys    keyMap
	help    help.Model
	input   textinput.Model
	spinner spinner.Model
	mode    mode
	cursor  int
}

func New(ctx context.Context, api API, msgs *view.Messages) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		api:     api,
		state:   view.New(msgs),
		keys:    defaultKeys(),
		help:    help.New(),
		input:   ti,
		spinner: sp,
	}
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, api API, msgs *view.Messages) error {
	p := tea.NewProgram(New(ctx, api, msgs), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) State() *view.State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return m.reload()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		m.state.FinishLoad(msg.todos, msg.err)
		m.clampCursor()
		return m, nil

	case addedMsg:
		m.state.FinishAdd(msg.todo, msg.err)
		if msg.err == nil {
			m.closeInput()
			m.cursor = 0
		}
		return m, nil

	case toggledMsg:
		m.state.FinishToggle(msg.id, msg.todo, msg.err)
		m.clampCursor()
		return m, nil

	case editedMsg:
		m.state.FinishSaveEdit(msg.id, msg.todo, msg.err)
		if m.mode == modeEditing && m.state.EditingID == 0 {
			m.closeInput()
		}
		return m, nil

	case deletedMsg:
		m.state.FinishDelete(msg.id, msg.err)
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdding:
			return m.updateAdding(msg)
		case modeEditing:
			return m.updateEditing(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.state.Visible())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(); ok {
			if patch, ok := m.state.BeginToggle(t.ID); ok {
				return m, m.toggle(t.ID, patch)
			}
		}
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdding
		m.input.Placeholder = m.state.Messages().Sprintf(view.KeyAddPrompt)
		m.input.SetValue(m.state.Input)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.selected(); ok && m.state.StartEdit(t.ID) {
			m.mode = modeEditing
			m.input.Placeholder = m.state.Messages().Sprintf(view.KeyEditPrompt)
			m.input.SetValue(m.state.EditTitle)
			m.input.CursorEnd()
			return m, m.input.Focus()
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok && m.state.RequestDelete(t.ID) {
			m.mode = modeConfirm
		}
	case key.Matches(msg, m.keys.All):
		m.setFilter(view.FilterAll)
	case key.Matches(msg, m.keys.Active):
		m.setFilter(view.FilterActive)
	case key.Matches(msg, m.keys.Completed):
		m.setFilter(view.FilterCompleted)
	case key.Matches(msg, m.keys.Reload):
		if !m.state.Loading {
			return m, m.reload()
		}
	case msg.Type == tea.KeyEsc:
		m.state.ClearError()
	}
	return m, nil
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.state.SetInput(m.input.Value())
		title, ok := m.state.BeginAdd()
		if !ok {
			return m, nil
		}
		return m, m.create(title)
	case tea.KeyEsc:
		// 保留未提交的输入，下次按 a 继续
		m.state.SetInput(m.input.Value())
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.state.SetInput(m.input.Value())
	return m, cmd
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.state.SetEditTitle(m.input.Value())
		id, patch, ok := m.state.BeginSaveEdit()
		if !ok {
			return m, nil
		}
		return m, m.saveEdit(id, patch)
	case tea.KeyEsc:
		if m.state.CancelEdit() {
			m.closeInput()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.state.SetEditTitle(m.input.Value())
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = modeNormal
		if id, ok := m.state.ConfirmDelete(); ok {
			return m, m.remove(id)
		}
	case "n", "N", "esc":
		m.mode = modeNormal
		m.state.CancelDelete()
	}
	return m, nil
}

func (m Model) View() string {
	msgs := m.state.Messages()
	var b strings.Builder

	b.WriteString(titleStyle.Render(msgs.Sprintf(view.KeyTitle)))
	b.WriteString("   ")
	b.WriteString(accentStyle.Render(msgs.Sprintf(view.KeyCounts, m.state.Remaining(), len(m.state.Todos))))
	b.WriteString("\n")
	b.WriteString(m.filterTabs())
	b.WriteString("\n\n")

	if m.state.Err != "" {
		b.WriteString(errorStyle.Render("✖ " + m.state.Err))
		b.WriteString("\n\n")
	}

	visible := m.state.Visible()
	switch {
	case m.state.Loading:
		b.WriteString(m.spinner.View() + " " + msgs.Sprintf(view.KeyLoading))
		b.WriteString("\n")
	case len(visible) == 0:
		b.WriteString(mutedStyle.Render(msgs.Sprintf(view.KeyEmpty)))
		b.WriteString("\n")
	default:
		for i, t := range visible {
			b.WriteString(m.renderRow(i, t))
			b.WriteString("\n")
		}
	}

	switch m.mode {
	case modeAdding:
		title := msgs.Sprintf(view.KeyAddPrompt)
		if m.state.Adding {
			title += " " + mutedStyle.Render("…")
		}
		b.WriteString("\n")
		b.WriteString(panelStyle.Render(title + "\n" + m.input.View()))
		b.WriteString("\n")
	case modeConfirm:
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(msgs.Sprintf(view.KeyConfirmDelete)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return panelStyle.Render(b.String())
}

func (m Model) renderRow(index int, t todo.Todo) string {
	box := mutedStyle.Render(boxUnchecked)
	text := t.Title
	if t.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(t.Title)
	}
	if m.mode == modeEditing && m.state.EditingID == t.ID {
		text = m.input.View()
	}
	if m.state.IsBusy(t.ID) {
		text += " " + pendingStyle.Render("…")
	}

	prefix := "  "
	if index == m.cursor {
		prefix = selectedStyle.Render(">") + " "
	}
	return fmt.Sprintf("%s%s %s", prefix, box, text)
}

func (m Model) filterTabs() string {
	msgs := m.state.Messages()
	tabs := []struct {
		filter view.Filter
		label  string
	}{
		{view.FilterAll, msgs.Sprintf(view.KeyFilterAll)},
		{view.FilterActive, msgs.Sprintf(view.KeyFilterActive)},
		{view.FilterCompleted, msgs.Sprintf(view.KeyFilterDone)},
	}
	parts := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		label := fmt.Sprintf("%d %s", i+1, tab.label)
		if tab.filter == m.state.Filter {
			parts = append(parts, selectedStyle.Render(" "+label+" "))
		} else {
			parts = append(parts, mutedStyle.Render(" "+label+" "))
		}
	}
	return strings.Join(parts, " ")
}

func (m *Model) setFilter(f view.Filter) {
	m.state.SetFilter(f)
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.state.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) closeInput() {
	m.mode = modeNormal
	m.input.SetValue("")
	m.input.Blur()
}

func (m Model) selected() (todo.Todo, bool) {
	visible := m.state.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return todo.Todo{}, false
	}
	return visible[m.cursor], true
}

func (m Model) reload() tea.Cmd {
	m.state.BeginLoad()
	api, ctx := m.api, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		todos, err := api.List(ctx)
		return loadedMsg{todos: todos, err: err}
	})
}

func (m Model) create(title string) tea.Cmd {
	api, ctx := m.api, m.ctx
	return func() tea.Msg {
		created, err := api.Create(ctx, title)
		return addedMsg{todo: created, err: err}
	}
}

func (m Model) toggle(id int64, patch todo.Patch) tea.Cmd {
	api, ctx := m.api, m.ctx
	return func() tea.Msg {
		updated, err := api.Update(ctx, id, patch)
		return toggledMsg{id: id, todo: updated, err: err}
	}
}

func (m Model) saveEdit(id int64, patch todo.Patch) tea.Cmd {
	api, ctx := m.api, m.ctx
	return func() tea.Msg {
		updated, err := api.Update(ctx, id, patch)
		return editedMsg{id: id, todo: updated, err: err}
	}
}

func (m Model) remove(id int64) tea.Cmd {
	api, ctx := m.api, m.ctx
	return func() tea.Msg {
		return deletedMsg{id: id, err: api.Delete(ctx, id)}
	}
}
