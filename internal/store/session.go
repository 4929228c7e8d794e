package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/idilsaglam/tada/internal/model"
)

// Session bundles the stores a single run of the app works with. It is built
// once at startup and handed to every view by reference.
type Session struct {
	ID    string
	Todos *TodoStore
	Prefs *PrefsStore

	ctx    context.Context
	cancel context.CancelFunc
}

// Option customizes NewSession.
type Option func(*sessionOptions)

type sessionOptions struct {
	prefs model.Prefs
	ids   IDSource
	ctx   context.Context
}

// WithPrefs sets the preferences the session starts with.
func WithPrefs(p model.Prefs) Option {
	return func(o *sessionOptions) { o.prefs = p }
}

// WithIDSource overrides how todo ids are minted.
func WithIDSource(ids IDSource) Option {
	return func(o *sessionOptions) { o.ids = ids }
}

// WithParent ties the session lifetime to ctx.
func WithParent(ctx context.Context) Option {
	return func(o *sessionOptions) { o.ctx = ctx }
}

// NewSession creates a live session with an empty todo list and default
// preferences unless overridden.
func NewSession(opts ...Option) *Session {
	o := sessionOptions{prefs: model.DefaultPrefs(), ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	ctx, cancel := context.WithCancel(o.ctx)
	return &Session{
		ID:     uuid.NewString(),
		Todos:  NewTodoStore(o.ids),
		Prefs:  NewPrefsStore(o.prefs),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context is cancelled when the session is closed.
func (s *Session) Context() context.Context { return s.ctx }

// Alive reports whether the session has not been closed yet.
func (s *Session) Alive() bool { return s.ctx.Err() == nil }

// Close tears the session down. Work still in flight must check Alive before
// writing into the stores. Close may be called more than once.
func (s *Session) Close() { s.cancel() }
