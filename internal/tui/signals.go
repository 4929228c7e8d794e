package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/seed"
	"github.com/idilsaglam/tada/internal/store"
)

// slice names the part of state a component depends on.
type slice int

const (
	sliceTodos slice = iota
	sliceTheme
	sliceName
	sliceSeed
)

func (s slice) String() string {
	switch s {
	case sliceTodos:
		return "todos"
	case sliceTheme:
		return "theme"
	case sliceName:
		return "displayName"
	case sliceSeed:
		return "seed"
	}
	return "unknown"
}

// changedMsg tells the model that one slice has a newer snapshot.
type changedMsg struct{ slice slice }

// signals turns store subscriptions into bubbletea messages. Each slice has
// a one-slot channel; a pending signal already means "re-read the latest
// snapshot", so extra notifications are coalesced.
type signals struct {
	chans  map[slice]chan struct{}
	done   chan struct{}
	unsubs []func()
}

func newSignals(sess *store.Session, seeder *seed.Seeder) *signals {
	s := &signals{
		chans: make(map[slice]chan struct{}),
		done:  make(chan struct{}),
	}
	for _, sl := range []slice{sliceTodos, sliceTheme, sliceName, sliceSeed} {
		s.chans[sl] = make(chan struct{}, 1)
	}
	s.unsubs = append(s.unsubs,
		sess.Todos.Subscribe(func(store.Todos) { s.notify(sliceTodos) }),
		sess.Prefs.SubscribeTheme(func(model.Theme) { s.notify(sliceTheme) }),
		sess.Prefs.SubscribeDisplayName(func(string) { s.notify(sliceName) }),
	)
	if seeder != nil {
		s.unsubs = append(s.unsubs, seeder.Subscribe(func(seed.Status) { s.notify(sliceSeed) }))
	}
	return s
}

func (s *signals) notify(sl slice) {
	select {
	case s.chans[sl] <- struct{}{}:
	default:
	}
}

// wait blocks until sl changes. The model re-arms it after each message.
func (s *signals) wait(sl slice) tea.Cmd {
	ch := s.chans[sl]
	return func() tea.Msg {
		select {
		case <-ch:
			return changedMsg{slice: sl}
		case <-s.done:
			return nil
		}
	}
}

// pending reports whether sl has an unconsumed signal, consuming it.
func (s *signals) pending(sl slice) bool {
	select {
	case <-s.chans[sl]:
		return true
	default:
		return false
	}
}

func (s *signals) close() {
	for _, u := range s.unsubs {
		u()
	}
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}
