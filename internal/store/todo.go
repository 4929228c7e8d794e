package store

import (
	"errors"
	"strings"

	"github.com/idilsaglam/tada/internal/model"
)

// ErrEmptyText is reported by ValidateText for blank todo text. The store
// itself ignores such input; views use the error to tell the user why.
var ErrEmptyText = errors.New("todo text cannot be empty")

// ValidateText checks text the way Add does before accepting it.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	return nil
}

// Todos is an immutable snapshot of the todo list. Neither the slice nor the
// items it points to may be modified; operations build a new slice and only
// reallocate the items they change.
type Todos []*model.Todo

// Find returns the item with the given id.
func (t Todos) Find(id int64) (*model.Todo, bool) {
	for _, it := range t {
		if it.ID == id {
			return it, true
		}
	}
	return nil, false
}

// Stats counts completed and pending items.
func (t Todos) Stats() (done, pending int) {
	for _, it := range t {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

func (t Todos) idSet() map[int64]struct{} {
	used := make(map[int64]struct{}, len(t))
	for _, it := range t {
		used[it.ID] = struct{}{}
	}
	return used
}

// Action is a state transition understood by Reduce.
type Action interface {
	apply(cur Todos, ids IDSource) (Todos, bool)
}

// AddTodo appends an item. Blank text is ignored.
type AddTodo struct{ Text string }

// ToggleTodo flips the completed flag of one item.
type ToggleTodo struct{ ID int64 }

// DeleteTodo removes one item.
type DeleteTodo struct{ ID int64 }

// SeedTodos prepends items to an empty list. Ignored when the list is not empty.
type SeedTodos struct{ Texts []string }

func (a AddTodo) apply(cur Todos, ids IDSource) (Todos, bool) {
	text := strings.TrimSpace(a.Text)
	if text == "" {
		return cur, false
	}
	next := make(Todos, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, &model.Todo{ID: uniqueID(ids, cur.idSet()), Text: text})
	return next, true
}

func (a ToggleTodo) apply(cur Todos, _ IDSource) (Todos, bool) {
	for i, it := range cur {
		if it.ID != a.ID {
			continue
		}
		next := make(Todos, len(cur))
		copy(next, cur)
		flipped := *it
		flipped.Completed = !flipped.Completed
		next[i] = &flipped
		return next, true
	}
	return cur, false
}

func (a DeleteTodo) apply(cur Todos, _ IDSource) (Todos, bool) {
	for i, it := range cur {
		if it.ID != a.ID {
			continue
		}
		next := make(Todos, 0, len(cur)-1)
		next = append(next, cur[:i]...)
		next = append(next, cur[i+1:]...)
		return next, true
	}
	return cur, false
}

func (a SeedTodos) apply(cur Todos, ids IDSource) (Todos, bool) {
	if len(cur) > 0 {
		return cur, false
	}
	used := cur.idSet()
	next := make(Todos, 0, len(a.Texts))
	for _, raw := range a.Texts {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		next = append(next, &model.Todo{ID: uniqueID(ids, used), Text: text})
	}
	if len(next) == 0 {
		return cur, false
	}
	return append(next, cur...), true
}

// Reduce computes the snapshot that results from applying a to cur. It
// returns cur itself when a does not change anything. A nil ids numbers new
// items 1, 2, 3, ... skipping ids already in cur.
func Reduce(cur Todos, a Action, ids IDSource) Todos {
	if ids == nil {
		ids = &SequenceIDs{}
	}
	next, _ := a.apply(cur, ids)
	return next
}

// TodoStore is the single authority over the todo list.
type TodoStore struct {
	obs *Observable[Todos]
	ids IDSource
}

// NewTodoStore returns an empty store. A nil ids uses NewClockIDs.
func NewTodoStore(ids IDSource) *TodoStore {
	if ids == nil {
		ids = NewClockIDs()
	}
	return &TodoStore{obs: NewObservable(Todos{}), ids: ids}
}

// Dispatch applies a and reports whether the list changed.
func (s *TodoStore) Dispatch(a Action) bool {
	return s.obs.Update(func(cur Todos) (Todos, bool) {
		return a.apply(cur, s.ids)
	})
}

func (s *TodoStore) Add(text string)         { s.Dispatch(AddTodo{Text: text}) }
func (s *TodoStore) Toggle(id int64)         { s.Dispatch(ToggleTodo{ID: id}) }
func (s *TodoStore) Delete(id int64)         { s.Dispatch(DeleteTodo{ID: id}) }
func (s *TodoStore) SeedFrom(texts []string) { s.Dispatch(SeedTodos{Texts: texts}) }

// Todos returns the current snapshot.
func (s *TodoStore) Todos() Todos { return s.obs.Get() }

func (s *TodoStore) Len() int        { return len(s.obs.Get()) }
func (s *TodoStore) Empty() bool     { return s.Len() == 0 }
func (s *TodoStore) Version() uint64 { return s.obs.Version() }

// Subscribe calls fn with every new snapshot of the list.
func (s *TodoStore) Subscribe(fn func(Todos)) (unsubscribe func()) {
	return s.obs.Subscribe(fn)
}
