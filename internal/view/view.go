// Package view holds the client-side state of the todo list: the local copy
// of the records, per-row busy markers, the single edit slot, delete
// confirmation and the active filter.
//
// Network calls are split into Begin/Finish pairs. Begin decides whether the
// action may start and marks the row busy; the caller performs the request
// and hands the result to Finish, which always clears the marker.
package view

import (
	"errors"
	"strings"

	"todolist/internal/todo"
)

type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

// userMessenger is implemented by API errors that carry a message meant
// for the user (validation and not-found responses).
type userMessenger interface {
	UserMessage() (string, bool)
}

type State struct {
	Todos     []todo.Todo
	Input     string
	Loading   bool
	Adding    bool
	EditingID int64
	EditTitle string
	ConfirmID int64
	Filter    Filter
	Err       string

	busy map[int64]bool
	msgs *Messages
}

func New(msgs *Messages) *State {
	if msgs == nil {
		msgs = NewMessages("en")
	}
	return &State{
		Todos: []todo.Todo{},
		busy:  make(map[int64]bool),
		msgs:  msgs,
	}
}

func (s *State) Messages() *Messages {
	return s.msgs
}

func (s *State) IsBusy(id int64) bool {
	return s.busy[id]
}

func (s *State) BeginLoad() {
	s.Loading = true
	s.Err = ""
}

func (s *State) FinishLoad(todos []todo.Todo, err error) {
	s.Loading = false
	if err != nil {
		s.Todos = []todo.Todo{}
		s.Err = s.msgs.Fallback(ActionLoad)
		return
	}
	if todos == nil {
		todos = []todo.Todo{}
	}
	s.Todos = todos
}

func (s *State) SetInput(value string) {
	s.Input = value
}

// BeginAdd returns the trimmed title to create. Blank input and a second
// add while one is in flight are refused locally.
func (s *State) BeginAdd() (string, bool) {
	title := strings.TrimSpace(s.Input)
	if title == "" || s.Adding {
		return "", false
	}
	s.Adding = true
	return title, true
}

func (s *State) FinishAdd(created todo.Todo, err error) {
	s.Adding = false
	if err != nil {
		s.Err = s.message(err, ActionAdd)
		return
	}
	s.Todos = append([]todo.Todo{created}, s.Todos...)
	s.Input = ""
}

func (s *State) CanToggle(id int64) bool {
	_, ok := s.find(id)
	return ok && !s.busy[id] && s.EditingID != id
}

// BeginToggle returns the patch inverting the row's completed flag.
func (s *State) BeginToggle(id int64) (todo.Patch, bool) {
	if !s.CanToggle(id) {
		return todo.Patch{}, false
	}
	idx, _ := s.find(id)
	completed := !s.Todos[idx].Completed
	s.busy[id] = true
	return todo.Patch{Completed: &completed}, true
}

func (s *State) FinishToggle(id int64, updated todo.Todo, err error) {
	delete(s.busy, id)
	if err != nil {
		s.Err = s.message(err, ActionToggle)
		return
	}
	s.replace(updated)
}

// StartEdit opens the edit slot for id. Only one row can be edited at a
// time, and a busy row cannot be edited.
func (s *State) StartEdit(id int64) bool {
	idx, ok := s.find(id)
	if !ok || s.EditingID != 0 || s.busy[id] {
		return false
	}
	s.EditingID = id
	s.EditTitle = s.Todos[idx].Title
	return true
}

func (s *State) SetEditTitle(value string) {
	s.EditTitle = value
}

// BeginSaveEdit returns the title patch for the row being edited. Blank
// titles are ignored without a request.
func (s *State) BeginSaveEdit() (int64, todo.Patch, bool) {
	id := s.EditingID
	title := strings.TrimSpace(s.EditTitle)
	if id == 0 || title == "" || s.busy[id] {
		return 0, todo.Patch{}, false
	}
	s.busy[id] = true
	return id, todo.Patch{Title: &title}, true
}

// FinishSaveEdit leaves edit mode on success; on failure the slot stays
// open so the user can retry or cancel.
func (s *State) FinishSaveEdit(id int64, updated todo.Todo, err error) {
	delete(s.busy, id)
	if err != nil {
		s.Err = s.message(err, ActionEdit)
		return
	}
	s.replace(updated)
	if s.EditingID == id {
		s.closeEdit()
	}
}

// CancelEdit discards the edited title. It is refused while the save is
// in flight.
func (s *State) CancelEdit() bool {
	if s.EditingID == 0 || s.busy[s.EditingID] {
		return false
	}
	s.closeEdit()
	return true
}

// RequestDelete asks for confirmation before deleting id.
func (s *State) RequestDelete(id int64) bool {
	if _, ok := s.find(id); !ok || s.busy[id] || s.EditingID == id {
		return false
	}
	s.ConfirmID = id
	return true
}

func (s *State) CancelDelete() {
	s.ConfirmID = 0
}

// ConfirmDelete returns the id to delete once the user has confirmed.
func (s *State) ConfirmDelete() (int64, bool) {
	id := s.ConfirmID
	s.ConfirmID = 0
	if id == 0 || s.busy[id] {
		return 0, false
	}
	if _, ok := s.find(id); !ok {
		return 0, false
	}
	s.busy[id] = true
	return id, true
}

// FinishDelete removes the row only after the server acknowledged it.
func (s *State) FinishDelete(id int64, err error) {
	delete(s.busy, id)
	if err != nil {
		s.Err = s.message(err, ActionDelete)
		return
	}
	kept := s.Todos[:0:0]
	for _, t := range s.Todos {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.Todos = kept
}

func (s *State) SetFilter(f Filter) {
	s.Filter = f
}

// Visible returns the records matching the active filter.
func (s *State) Visible() []todo.Todo {
	out := make([]todo.Todo, 0, len(s.Todos))
	for _, t := range s.Todos {
		switch s.Filter {
		case FilterActive:
			if t.Completed {
				continue
			}
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func (s *State) Remaining() int {
	n := 0
	for _, t := range s.Todos {
		if !t.Completed {
			n++
		}
	}
	return n
}

func (s *State) ClearError() {
	s.Err = ""
}

func (s *State) message(err error, action Action) string {
	var um userMessenger
	if errors.As(err, &um) {
		if msg, ok := um.UserMessage(); ok {
			return msg
		}
	}
	return s.msgs.Fallback(action)
}

func (s *State) find(id int64) (int, bool) {
	for i, t := range s.Todos {
		if t.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *State) replace(updated todo.Todo) {
	if idx, ok := s.find(updated.ID); ok {
		s.Todos[idx] = updated
	}
}

func (s *State) closeEdit() {
	s.EditingID = 0
	s.EditTitle = ""
}
