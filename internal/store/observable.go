package store

import (
	"slices"
	"sync"
)

// Observable holds one immutable state value and notifies subscribers when it
// is replaced. It is safe for concurrent use and supports pub/sub for
// view updates.
//
// Listeners run on the goroutine that performed the update, after the state
// lock is released. A listener may read the observable but must not update
// it synchronously.
type Observable[S any] struct {
	updateMu sync.Mutex // serializes Update and the notification that follows

	mu        sync.RWMutex
	state     S
	version   uint64
	nextID    uint64
	listeners map[uint64]func(S)
}

// NewObservable creates an Observable holding initial at version 0.
func NewObservable[S any](initial S) *Observable[S] {
	return &Observable[S]{
		state:     initial,
		listeners: make(map[uint64]func(S)),
	}
}

// Get returns the current state.
func (o *Observable[S]) Get() S {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Version returns a stamp that grows by one on every effective change.
func (o *Observable[S]) Version() uint64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.version
}

// Snapshot returns the current state together with its version.
func (o *Observable[S]) Snapshot() (S, uint64) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state, o.version
}

// Update replaces the state with the value returned by fn when fn reports a
// change. It returns whether a change happened. Subscribers are only called
// for effective changes.
func (o *Observable[S]) Update(fn func(S) (S, bool)) bool {
	o.updateMu.Lock()
	defer o.updateMu.Unlock()

	o.mu.Lock()
	next, changed := fn(o.state)
	if !changed {
		o.mu.Unlock()
		return false
	}
	o.state = next
	o.version++
	listeners := make([]func(S), 0, len(o.listeners))
	for _, id := range o.sortedIDs() {
		listeners = append(listeners, o.listeners[id])
	}
	o.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return true
}

// Subscribe registers fn for every effective change and returns a function
// removing it. Calling the returned function more than once is harmless.
func (o *Observable[S]) Subscribe(fn func(S)) (unsubscribe func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.nextID++
	id := o.nextID
	o.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.listeners, id)
			o.mu.Unlock()
		})
	}
}

// Subscribers returns the number of registered listeners.
func (o *Observable[S]) Subscribers() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.listeners)
}

// sortedIDs returns listener ids in registration order. Caller holds mu.
func (o *Observable[S]) sortedIDs() []uint64 {
	ids := make([]uint64, 0, len(o.listeners))
	for id := range o.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Watch subscribes to the slice of o picked by selector. fn is called only
// when the selected value differs, according to equal, from the last value
// this watcher has seen. The initial selection and the registration happen
// under the update lock, so no change can slip in between them. Watch must
// not be called from a listener of o.
func Watch[S, T any](o *Observable[S], selector func(S) T, equal func(a, b T) bool, fn func(T)) (unsubscribe func()) {
	o.updateMu.Lock()
	defer o.updateMu.Unlock()

	var mu sync.Mutex
	last := selector(o.Get())
	return o.Subscribe(func(s S) {
		cur := selector(s)
		mu.Lock()
		if equal(last, cur) {
			mu.Unlock()
			return
		}
		last = cur
		mu.Unlock()
		fn(cur)
	})
}

// WatchValue is Watch for comparable slices.
func WatchValue[S any, T comparable](o *Observable[S], selector func(S) T, fn func(T)) (unsubscribe func()) {
	return Watch(o, selector, func(a, b T) bool { return a == b }, fn)
}
