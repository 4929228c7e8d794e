package seed

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/tada/internal/store"
)

// State is the seeding lifecycle as seen by the view layer.
type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateSeeded    State = "seeded"
	StateSkipped   State = "skipped"   // the list already had items
	StateFailed    State = "failed"    // fetch failed; store left untouched
	StateDiscarded State = "discarded" // response arrived after teardown
)

// Status is what views render for the seeding step: a loading indicator
// and an error flag.
type Status struct {
	State  State
	Seeded int
	Err    error
}

func (s Status) Loading() bool { return s.State == StateLoading }
func (s Status) Failed() bool  { return s.State == StateFailed }

// Seeder fills a session's empty todo list from a Source, at most once.
type Seeder struct {
	src     Source
	session *store.Session
	page    Page
	log     zerolog.Logger

	once   sync.Once
	status *store.Observable[Status]
}

// NewSeeder prepares a seeder for session.
func NewSeeder(src Source, session *store.Session, page Page, log zerolog.Logger) *Seeder {
	return &Seeder{
		src:     src,
		session: session,
		page:    page,
		log:     log.With().Str("component", "seeder").Logger(),
		status:  store.NewObservable(Status{State: StateIdle}),
	}
}

// Status returns the current seeding status.
func (s *Seeder) Status() Status { return s.status.Get() }

// Subscribe calls fn whenever the status changes.
func (s *Seeder) Subscribe(fn func(Status)) (unsubscribe func()) {
	return s.status.Subscribe(fn)
}

// Run performs the seeding step. Only the first call does any work; later
// calls return the status reached so far. There is no retry: on failure the
// list stays as it was and the status reports the error.
func (s *Seeder) Run(ctx context.Context) Status {
	s.once.Do(func() { s.run(ctx) })
	return s.Status()
}

func (s *Seeder) run(ctx context.Context) {
	todos := s.session.Todos
	if !todos.Empty() {
		s.setStatus(Status{State: StateSkipped})
		s.log.Debug().Int("items", todos.Len()).Msg("list not empty, seeding skipped")
		return
	}

	s.setStatus(Status{State: StateLoading})
	s.log.Debug().Int("limit", s.page.Limit).Int("skip", s.page.Skip).Msg("fetching seed todos")

	resp, err := s.src.FetchTodos(ctx, s.page)
	if !s.session.Alive() || ctx.Err() != nil {
		s.setStatus(Status{State: StateDiscarded})
		s.log.Debug().Msg("session closed before seed arrived, discarding")
		return
	}
	if err != nil {
		s.setStatus(Status{State: StateFailed, Err: err})
		s.log.Warn().Err(err).Msg("seed fetch failed")
		return
	}

	if resp == nil {
		resp = &Response{}
	}
	texts := resp.Texts()
	n := countNonBlank(texts)
	if !todos.Dispatch(store.SeedTodos{Texts: texts}) && n > 0 {
		// the user added items while the fetch was in flight
		s.setStatus(Status{State: StateSkipped})
		s.log.Debug().Msg("list filled during fetch, seeding skipped")
		return
	}
	s.setStatus(Status{State: StateSeeded, Seeded: n})
	s.log.Info().Int("items", n).Int("total", resp.Total).Msg("seeded todo list")
}

func (s *Seeder) setStatus(st Status) {
	s.status.Update(func(Status) (Status, bool) { return st, true })
}

func countNonBlank(texts []string) int {
	n := 0
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			n++
		}
	}
	return n
}
