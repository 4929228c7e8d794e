package store

import "github.com/idilsaglam/tada/internal/model"

// PrefsStore owns the user's preferences. It is independent of TodoStore:
// changing a preference never notifies todo subscribers.
type PrefsStore struct {
	obs *Observable[model.Prefs]
}

// NewPrefsStore returns a store holding initial. An invalid theme falls
// back to light.
func NewPrefsStore(initial model.Prefs) *PrefsStore {
	if !initial.Theme.Valid() {
		initial.Theme = model.ThemeLight
	}
	return &PrefsStore{obs: NewObservable(initial)}
}

// SetTheme switches the theme. Values other than light and dark are ignored.
func (s *PrefsStore) SetTheme(t model.Theme) {
	if !t.Valid() {
		return
	}
	s.obs.Update(func(p model.Prefs) (model.Prefs, bool) {
		if p.Theme == t {
			return p, false
		}
		p.Theme = t
		return p, true
	})
}

// ToggleTheme flips between light and dark.
func (s *PrefsStore) ToggleTheme() {
	s.obs.Update(func(p model.Prefs) (model.Prefs, bool) {
		p.Theme = p.Theme.Opposite()
		return p, true
	})
}

// SetDisplayName accepts any string, the empty one included.
func (s *PrefsStore) SetDisplayName(name string) {
	s.obs.Update(func(p model.Prefs) (model.Prefs, bool) {
		if p.DisplayName == name {
			return p, false
		}
		p.DisplayName = name
		return p, true
	})
}

func (s *PrefsStore) Prefs() model.Prefs  { return s.obs.Get() }
func (s *PrefsStore) Theme() model.Theme  { return s.obs.Get().Theme }
func (s *PrefsStore) DisplayName() string { return s.obs.Get().DisplayName }
func (s *PrefsStore) Version() uint64     { return s.obs.Version() }

// Subscribe calls fn on any preference change.
func (s *PrefsStore) Subscribe(fn func(model.Prefs)) (unsubscribe func()) {
	return s.obs.Subscribe(fn)
}

// SubscribeTheme calls fn only when the theme changes.
func (s *PrefsStore) SubscribeTheme(fn func(model.Theme)) (unsubscribe func()) {
	return WatchValue(s.obs, func(p model.Prefs) model.Theme { return p.Theme }, fn)
}

// SubscribeDisplayName calls fn only when the display name changes.
func (s *PrefsStore) SubscribeDisplayName(fn func(string)) (unsubscribe func()) {
	return WatchValue(s.obs, func(p model.Prefs) string { return p.DisplayName }, fn)
}
