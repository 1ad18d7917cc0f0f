package tui

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/client"
	"todolist/internal/todo"
	"todolist/internal/view"
)

type fakeAPI struct {
	todos     []todo.Todo
	nextID    int64
	createErr error
	deleted   []int64
}

func newFakeAPI(titles ...string) *fakeAPI {
	api := &fakeAPI{}
	for _, title := range titles {
		api.nextID++
		api.todos = append([]todo.Todo{{ID: api.nextID, Title: title, Time: time.Now()}}, api.todos...)
	}
	return api
}

func (f *fakeAPI) List(ctx context.Context) ([]todo.Todo, error) {
	return append([]todo.Todo(nil), f.todos...), nil
}

func (f *fakeAPI) Create(ctx context.Context, title string) (todo.Todo, error) {
	if f.createErr != nil {
		return todo.Todo{}, f.createErr
	}
	f.nextID++
	created := todo.Todo{ID: f.nextID, Title: title, Time: time.Now()}
	f.todos = append([]todo.Todo{created}, f.todos...)
	return created, nil
}

func (f *fakeAPI) Update(ctx context.Context, id int64, patch todo.Patch) (todo.Todo, error) {
	for i := range f.todos {
		if f.todos[i].ID != id {
			continue
		}
		if patch.Title != nil {
			f.todos[i].Title = *patch.Title
		}
		if patch.Completed != nil {
			f.todos[i].Completed = *patch.Completed
		}
		return f.todos[i], nil
	}
	return todo.Todo{}, &client.APIError{Status: http.StatusNotFound, Message: "Todo not found"}
}

func (f *fakeAPI) Delete(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return &client.APIError{Status: http.StatusNotFound, Message: "Todo not found"}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

// drain runs cmd and feeds back the API results, skipping timer messages.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = drain(t, m, c)
		}
	case loadedMsg, addedMsg, toggledMsg, editedMsg, deletedMsg:
		m, _ = press(t, m, msg)
	}
	return m
}

func started(t *testing.T, api API) Model {
	t.Helper()
	m := New(context.Background(), api, view.NewMessages("en"))
	cmd := m.Init()
	require.True(t, m.State().Loading)
	return drain(t, m, cmd)
}

func TestInitLoadsTodos(t *testing.T) {
	m := started(t, newFakeAPI("first", "second"))

	s := m.State()
	assert.False(t, s.Loading)
	require.Len(t, s.Todos, 2)
	assert.Equal(t, "second", s.Todos[0].Title)

	out := m.View()
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")
	assert.Contains(t, out, "2 left / 2 total")
}

func TestAddTodo(t *testing.T) {
	api := newFakeAPI("first")
	m := started(t, api)

	m, _ = press(t, m, runes("a"))
	assert.Equal(t, modeAdding, m.mode)
	m, _ = press(t, m, runes("Buy milk"))
	assert.Equal(t, "Buy milk", m.State().Input)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.State().Adding)

	m = drain(t, m, cmd)
	assert.Equal(t, modeNormal, m.mode)
	assert.False(t, m.State().Adding)
	assert.Empty(t, m.State().Input)
	assert.Equal(t, "Buy milk", m.State().Todos[0].Title)
	assert.Len(t, api.todos, 2)
}

func TestAddBlankSendsNothing(t *testing.T) {
	m := started(t, newFakeAPI())

	m, _ = press(t, m, runes("a"))
	m, _ = press(t, m, runes("   "))
	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestAddFailureKeepsInput(t *testing.T) {
	api := newFakeAPI()
	api.createErr = &client.APIError{Status: http.StatusBadRequest, Message: "Title is required"}
	m := started(t, api)

	m, _ = press(t, m, runes("a"))
	m, _ = press(t, m, runes("x"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drain(t, m, cmd)

	assert.Equal(t, modeAdding, m.mode)
	assert.Equal(t, "x", m.State().Input)
	assert.Equal(t, "Title is required", m.State().Err)
	assert.Contains(t, m.View(), "Title is required")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, "x", m.State().Input, "pending title kept")
}

func TestToggleSelectedRow(t *testing.T) {
	m := started(t, newFakeAPI("first", "second"))

	m, cmd := press(t, m, runes("x"))
	require.NotNil(t, cmd)
	assert.True(t, m.State().IsBusy(2))

	_, again := press(t, m, runes("x"))
	assert.Nil(t, again, "busy row ignores toggle")

	m = drain(t, m, cmd)
	assert.False(t, m.State().IsBusy(2))
	assert.True(t, m.State().Todos[0].Completed)
	assert.Equal(t, 1, m.State().Remaining())
}

func TestEditSelectedRow(t *testing.T) {
	m := started(t, newFakeAPI("first", "second"))

	m, _ = press(t, m, runes("j"))
	m, _ = press(t, m, runes("e"))
	require.Equal(t, modeEditing, m.mode)
	assert.Equal(t, int64(1), m.State().EditingID)

	m, _ = press(t, m, runes("!"))
	assert.Equal(t, "first!", m.State().EditTitle)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m = drain(t, m, cmd)

	assert.Equal(t, modeNormal, m.mode)
	assert.Zero(t, m.State().EditingID)
	assert.Equal(t, "first!", m.State().Todos[1].Title)
}

func TestEditEscDiscards(t *testing.T) {
	m := started(t, newFakeAPI("first"))

	m, _ = press(t, m, runes("e"))
	m, _ = press(t, m, runes("zzz"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.Equal(t, modeNormal, m.mode)
	assert.Zero(t, m.State().EditingID)
	assert.Equal(t, "first", m.State().Todos[0].Title)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	api := newFakeAPI("first", "second")
	m := started(t, api)

	m, _ = press(t, m, runes("d"))
	require.Equal(t, modeConfirm, m.mode)
	assert.Contains(t, m.View(), "Delete this todo?")

	m, cmd := press(t, m, runes("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, modeNormal, m.mode)
	assert.Len(t, m.State().Todos, 2)

	m, _ = press(t, m, runes("d"))
	m, cmd = press(t, m, runes("y"))
	require.NotNil(t, cmd)
	assert.Len(t, m.State().Todos, 2, "row stays until acknowledged")

	m = drain(t, m, cmd)
	assert.Equal(t, []int64{2}, api.deleted)
	require.Len(t, m.State().Todos, 1)
	assert.Equal(t, "first", m.State().Todos[0].Title)
}

func TestFilterClampsCursor(t *testing.T) {
	m := started(t, newFakeAPI("first", "second", "third"))

	m, _ = press(t, m, runes("j"))
	m, _ = press(t, m, runes("j"))
	assert.Equal(t, 2, m.cursor)

	m, cmd := press(t, m, runes("x"))
	m = drain(t, m, cmd)

	m, _ = press(t, m, runes("3"))
	assert.Equal(t, view.FilterCompleted, m.State().Filter)
	assert.Equal(t, 0, m.cursor)
	require.Len(t, m.State().Visible(), 1)
	assert.Equal(t, "first", m.State().Visible()[0].Title)

	m, _ = press(t, m, runes("2"))
	assert.Len(t, m.State().Visible(), 2)
	assert.Len(t, m.State().Todos, 3)
}

func TestReloadAfterFailure(t *testing.T) {
	m := New(context.Background(), newFakeAPI("first"), view.NewMessages("en"))
	m.Init()
	m, _ = press(t, m, loadedMsg{err: errors.New("connection refused")})
	assert.Equal(t, "Could not load todos", m.State().Err)
	assert.Empty(t, m.State().Todos)

	m, cmd := press(t, m, runes("r"))
	require.NotNil(t, cmd)
	assert.Empty(t, m.State().Err)

	m = drain(t, m, cmd)
	assert.Len(t, m.State().Todos, 1)
}

func TestQuit(t *testing.T) {
	m := started(t, newFakeAPI())

	_, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m, _ = press(t, m, runes("a"))
	m, _ = press(t, m, runes("q"))
	assert.Equal(t, modeAdding, m.mode)
	assert.Equal(t, "q", m.State().Input, "q is text while adding")
}
