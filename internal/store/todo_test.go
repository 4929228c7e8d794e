package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *TodoStore {
	return NewTodoStore(&SequenceIDs{})
}

func texts(t Todos) []string {
	out := make([]string, 0, len(t))
	for _, it := range t {
		out = append(out, it.Text)
	}
	return out
}

func TestAdd_CountsOnlyNonBlankText(t *testing.T) {
	inputs := []string{"a", "", "   ", "b", "\t\n", "c"}
	s := newTestStore()
	for _, in := range inputs {
		s.Add(in)
	}
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"a", "b", "c"}, texts(s.Todos()))
}

func TestAdd_TrimsAndStartsPending(t *testing.T) {
	s := newTestStore()
	s.Add("  buy milk  ")

	todos := s.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, "buy milk", todos[0].Text)
	assert.False(t, todos[0].Completed)
}

func TestAdd_DoesNotMutatePreviousSnapshot(t *testing.T) {
	s := newTestStore()
	s.Add("a")
	before := s.Todos()
	s.Add("b")

	assert.Len(t, before, 1)
	assert.Len(t, s.Todos(), 2)
	assert.Same(t, before[0], s.Todos()[0])
}

func TestToggle(t *testing.T) {
	s := newTestStore()
	s.Add("a")
	s.Add("b")
	a, b := s.Todos()[0], s.Todos()[1]

	s.Toggle(a.ID)
	after := s.Todos()
	require.Len(t, after, 2)
	assert.Equal(t, []string{"a", "b"}, texts(after))
	assert.True(t, after[0].Completed)
	assert.False(t, after[1].Completed)
	assert.Same(t, b, after[1], "untouched item keeps its pointer")
	assert.False(t, a.Completed, "old snapshot item is not mutated")

	s.Toggle(a.ID)
	assert.False(t, s.Todos()[0].Completed, "double toggle restores state")
}

func TestToggle_UnknownIDKeepsSnapshot(t *testing.T) {
	s := newTestStore()
	s.Add("a")
	before := s.Todos()
	v := s.Version()

	s.Toggle(9999)

	after := s.Todos()
	assert.Equal(t, v, s.Version())
	require.Len(t, after, 1)
	assert.Same(t, before[0], after[0])
	assert.Same(t, &before[0], &after[0], "same backing array")
}

func TestDelete(t *testing.T) {
	s := newTestStore()
	s.Add("a")
	s.Add("b")
	s.Add("c")
	b := s.Todos()[1]

	s.Delete(b.ID)
	assert.Equal(t, []string{"a", "c"}, texts(s.Todos()))

	s.Delete(b.ID)
	assert.Len(t, s.Todos(), 2, "absent id is a no-op")
}

func TestSeedFrom(t *testing.T) {
	s := newTestStore()
	s.SeedFrom([]string{"r1", "r2"})
	assert.Equal(t, []string{"r1", "r2"}, texts(s.Todos()))
	for _, it := range s.Todos() {
		assert.False(t, it.Completed)
	}

	s.SeedFrom([]string{"x", "y"})
	assert.Equal(t, []string{"r1", "r2"}, texts(s.Todos()), "non-empty store is not reseeded")
}

func TestSeedFrom_SkipsBlankAndEmptyInput(t *testing.T) {
	s := newTestStore()
	v := s.Version()
	s.SeedFrom(nil)
	s.SeedFrom([]string{" ", ""})
	assert.Equal(t, v, s.Version())
	assert.True(t, s.Empty())

	s.SeedFrom([]string{"r1", " ", "r2"})
	assert.Equal(t, []string{"r1", "r2"}, texts(s.Todos()))
}

func TestScenarios(t *testing.T) {
	t.Run("add to empty store", func(t *testing.T) {
		s := newTestStore()
		s.Add("buy milk")
		require.Len(t, s.Todos(), 1)
		assert.Equal(t, "buy milk", s.Todos()[0].Text)
		assert.False(t, s.Todos()[0].Completed)
	})

	t.Run("add two then toggle first", func(t *testing.T) {
		s := newTestStore()
		s.Add("a")
		s.Add("b")
		s.Toggle(s.Todos()[0].ID)
		assert.Equal(t, []string{"a", "b"}, texts(s.Todos()))
		assert.True(t, s.Todos()[0].Completed)
		assert.False(t, s.Todos()[1].Completed)
	})

	t.Run("add then delete", func(t *testing.T) {
		s := newTestStore()
		s.Add("x")
		s.Delete(s.Todos()[0].ID)
		assert.Empty(t, s.Todos())
	})

	t.Run("seed once", func(t *testing.T) {
		s := newTestStore()
		s.SeedFrom([]string{"r1", "r2"})
		s.SeedFrom([]string{"other"})
		assert.Equal(t, []string{"r1", "r2"}, texts(s.Todos()))
	})
}

// fixedIDs replays ids in order, then repeats the last one.
type fixedIDs struct {
	ids []int64
	i   int
}

func (f *fixedIDs) Next() int64 {
	id := f.ids[f.i]
	if f.i < len(f.ids)-1 {
		f.i++
	}
	return id
}

func TestUniqueIDsOnCollision(t *testing.T) {
	s := NewTodoStore(&fixedIDs{ids: []int64{7, 7, 7, 8, 8, 9}})
	s.Add("a")
	s.Add("b")
	s.Add("c")

	seen := map[int64]bool{}
	for _, it := range s.Todos() {
		assert.False(t, seen[it.ID], "duplicate id %d", it.ID)
		seen[it.ID] = true
	}
	assert.Len(t, seen, 3)
}

func TestSeedFrom_UniqueIDsWithinBatch(t *testing.T) {
	s := NewTodoStore(&fixedIDs{ids: []int64{1, 1, 2, 2, 3}})
	s.SeedFrom([]string{"r1", "r2", "r3"})

	ids := map[int64]bool{}
	for _, it := range s.Todos() {
		ids[it.ID] = true
	}
	assert.Len(t, ids, 3)
}

func TestReduce_IsPure(t *testing.T) {
	ids := &SequenceIDs{}
	empty := Todos{}
	one := Reduce(empty, AddTodo{Text: "a"}, ids)
	assert.Empty(t, empty)
	require.Len(t, one, 1)

	same := Reduce(one, DeleteTodo{ID: 42}, ids)
	assert.Same(t, &one[0], &same[0])
}

func TestReduce_NilIDSource(t *testing.T) {
	one := Reduce(Todos{}, AddTodo{Text: "a"}, nil)
	require.Len(t, one, 1)
	assert.Equal(t, int64(1), one[0].ID)

	two := Reduce(one, AddTodo{Text: "b"}, nil)
	require.Len(t, two, 2)
	assert.Equal(t, int64(2), two[1].ID, "existing ids are skipped")

	seeded := Reduce(Todos{}, SeedTodos{Texts: []string{"x", "y"}}, nil)
	require.Len(t, seeded, 2)
	assert.NotEqual(t, seeded[0].ID, seeded[1].ID)
}

func TestValidateText(t *testing.T) {
	assert.ErrorIs(t, ValidateText("  "), ErrEmptyText)
	assert.NoError(t, ValidateText("x"))
}

func TestStats(t *testing.T) {
	s := newTestStore()
	s.Add("a")
	s.Add("b")
	s.Toggle(s.Todos()[0].ID)
	done, pending := s.Todos().Stats()
	assert.Equal(t, 1, done)
	assert.Equal(t, 1, pending)

	it, ok := s.Todos().Find(s.Todos()[1].ID)
	require.True(t, ok)
	assert.Equal(t, "b", it.Text)
}

func TestClockIDs(t *testing.T) {
	c := NewClockIDs()
	id := c.Next()
	assert.Positive(t, id)
}
