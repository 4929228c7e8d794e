package seed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/store"
)

// fakeSource returns a canned response and counts calls.
type fakeSource struct {
	resp  *Response
	err   error
	calls atomic.Int32
	// before runs ahead of returning, to simulate work during the fetch
	before func()
}

func (f *fakeSource) FetchTodos(ctx context.Context, p Page) (*Response, error) {
	f.calls.Add(1)
	if f.before != nil {
		f.before()
	}
	return f.resp, f.err
}

func response(texts ...string) *Response {
	r := &Response{Total: len(texts), Limit: len(texts)}
	for i, t := range texts {
		r.Todos = append(r.Todos, RemoteTodo{ID: i + 1, Todo: t, UserID: 1})
	}
	return r
}

func newSession() *store.Session {
	return store.NewSession(store.WithIDSource(&store.SequenceIDs{}))
}

func todoTexts(s *store.Session) []string {
	var out []string
	for _, it := range s.Todos.Todos() {
		out = append(out, it.Text)
	}
	return out
}

func TestSeeder_SeedsEmptyStore(t *testing.T) {
	sess := newSession()
	defer sess.Close()
	src := &fakeSource{resp: response("r1", "r2")}

	sd := NewSeeder(src, sess, Page{Limit: 5}, zerolog.Nop())
	st := sd.Run(context.Background())

	assert.Equal(t, StateSeeded, st.State)
	assert.Equal(t, 2, st.Seeded)
	assert.Equal(t, []string{"r1", "r2"}, todoTexts(sess))
}

func TestSeeder_RunsAtMostOnce(t *testing.T) {
	sess := newSession()
	defer sess.Close()
	src := &fakeSource{resp: response("r1")}
	sd := NewSeeder(src, sess, Page{Limit: 5}, zerolog.Nop())

	sd.Run(context.Background())
	sess.Todos.Delete(sess.Todos.Todos()[0].ID)
	sd.Run(context.Background())

	assert.Equal(t, int32(1), src.calls.Load())
	assert.True(t, sess.Todos.Empty())
}

func TestSeeder_SkipsNonEmptyStore(t *testing.T) {
	sess := newSession()
	defer sess.Close()
	sess.Todos.Add("mine")
	src := &fakeSource{resp: response("r1")}

	st := NewSeeder(src, sess, Page{Limit: 5}, zerolog.Nop()).Run(context.Background())

	assert.Equal(t, StateSkipped, st.State)
	assert.Equal(t, int32(0), src.calls.Load())
	assert.Equal(t, []string{"mine"}, todoTexts(sess))
}

func TestSeeder_UserAddsDuringFetch(t *testing.T) {
	sess := newSession()
	defer sess.Close()
	src := &fakeSource{resp: response("r1"), before: func() { sess.Todos.Add("typed fast") }}

	st := NewSeeder(src, sess, Page{Limit: 5}, zerolog.Nop()).Run(context.Background())

	assert.Equal(t, StateSkipped, st.State)
	assert.Equal(t, []string{"typed fast"}, todoTexts(sess))
}

func TestSeeder_FailureLeavesStoreUnseeded(t *testing.T) {
	sess := newSession()
	defer sess.Close()
	boom := errors.New("boom")
	src := &fakeSource{err: boom}

	sd := NewSeeder(src, sess, Page{Limit: 5}, zerolog.Nop())
	st := sd.Run(context.Background())

	assert.True(t, st.Failed())
	assert.ErrorIs(t, st.Err, boom)
	assert.True(t, sess.Todos.Empty())

	sd.Run(context.Background())
	assert.Equal(t, int32(1), src.calls.Load(), "no retry")
}

func TestSeeder_DiscardsAfterSessionClose(t *testing.T) {
	sess := newSession()
	src := &fakeSource{resp: response("late"), before: sess.Close}

	st := NewSeeder(src, sess, Page{Limit: 5}, zerolog.Nop()).Run(sess.Context())

	assert.Equal(t, StateDiscarded, st.State)
	assert.True(t, sess.Todos.Empty())
}

func TestSeeder_DiscardsAfterContextCancel(t *testing.T) {
	sess := newSession()
	defer sess.Close()
	ctx, cancel := context.WithCancel(context.Background())
	src := &fakeSource{resp: response("late"), before: cancel}

	st := NewSeeder(src, sess, Page{Limit: 5}, zerolog.Nop()).Run(ctx)
	assert.Equal(t, StateDiscarded, st.State)
	assert.True(t, sess.Todos.Empty())
}

func TestSeeder_StatusNotifications(t *testing.T) {
	sess := newSession()
	defer sess.Close()
	sd := NewSeeder(&fakeSource{resp: response("r1")}, sess, Page{Limit: 1}, zerolog.Nop())

	var states []State
	sd.Subscribe(func(s Status) { states = append(states, s.State) })
	sd.Run(context.Background())

	assert.Equal(t, []State{StateLoading, StateSeeded}, states)
	assert.False(t, sd.Status().Loading())
}

func TestSeeder_EmptyResponse(t *testing.T) {
	sess := newSession()
	defer sess.Close()
	st := NewSeeder(&fakeSource{resp: response()}, sess, Page{Limit: 5}, zerolog.Nop()).Run(context.Background())
	assert.Equal(t, StateSeeded, st.State)
	assert.Equal(t, 0, st.Seeded)
}

func TestSeeder_NilResponseIsEmptyPage(t *testing.T) {
	sess := newSession()
	defer sess.Close()
	st := NewSeeder(&fakeSource{}, sess, Page{Limit: 5}, zerolog.Nop()).Run(context.Background())
	assert.Equal(t, StateSeeded, st.State)
	assert.Equal(t, 0, st.Seeded)
	assert.True(t, sess.Todos.Empty())
}

func newTodoServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		limit, skip := r.URL.Query().Get("limit"), r.URL.Query().Get("skip")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"todos":[{"id":1,"todo":"Do something nice for someone you care about","completed":true,"userId":152},{"id":2,"todo":"Memorize a poem","completed":false,"userId":13}],"total":254,"skip":%s,"limit":%s}`, skip, limit)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchTodos(t *testing.T) {
	var hits atomic.Int32
	srv := newTodoServer(t, &hits)
	c := NewClient(ClientConfig{URL: srv.URL, Timeout: 2 * time.Second})

	resp, err := c.FetchTodos(context.Background(), Page{Limit: 2, Skip: 40})
	require.NoError(t, err)
	assert.Equal(t, 254, resp.Total)
	assert.Equal(t, 40, resp.Skip)
	assert.Equal(t, 2, resp.Limit)
	assert.Equal(t, []string{"Do something nice for someone you care about", "Memorize a poem"}, resp.Texts())
	assert.True(t, resp.Todos[0].Completed)
	assert.Equal(t, 152, resp.Todos[0].UserID)
}

func TestClient_CachesWithinStaleTime(t *testing.T) {
	var hits atomic.Int32
	srv := newTodoServer(t, &hits)
	c := NewClient(ClientConfig{URL: srv.URL, Timeout: 2 * time.Second, StaleTime: time.Minute})
	now := time.Now()
	c.now = func() time.Time { return now }

	p := Page{Limit: 2, Skip: 0}
	_, err := c.FetchTodos(context.Background(), p)
	require.NoError(t, err)
	_, err = c.FetchTodos(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	_, err = c.FetchTodos(context.Background(), Page{Limit: 2, Skip: 2})
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "different page is a different entry")

	now = now.Add(2 * time.Minute)
	_, err = c.FetchTodos(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load(), "stale entry is refetched")
}

func TestClient_NoCacheByDefault(t *testing.T) {
	var hits atomic.Int32
	srv := newTodoServer(t, &hits)
	c := NewClient(ClientConfig{URL: srv.URL})

	for i := 0; i < 2; i++ {
		_, err := c.FetchTodos(context.Background(), Page{Limit: 1})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantMsg string
	}{
		{
			name: "non-2xx",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusServiceUnavailable)
			},
			wantMsg: "server returned 503",
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("{not json"))
			},
			wantMsg: "decode todos",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewClient(ClientConfig{URL: srv.URL}).FetchTodos(context.Background(), Page{Limit: 1})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestClient_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(ClientConfig{URL: "http://127.0.0.1:1"}).FetchTodos(ctx, Page{Limit: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	body := `{"todos":[{"id":1,"todo":"a"},{"id":2,"todo":"b"},{"id":3,"todo":"c"}],"total":3}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	src := FileSource{Path: path}

	tests := []struct {
		page Page
		want []string
	}{
		{Page{Limit: 2, Skip: 0}, []string{"a", "b"}},
		{Page{Limit: 2, Skip: 2}, []string{"c"}},
		{Page{Limit: 5, Skip: 10}, []string{}},
		{Page{Limit: 0, Skip: 1}, []string{"b", "c"}},
	}
	for _, tt := range tests {
		resp, err := src.FetchTodos(context.Background(), tt.page)
		require.NoError(t, err)
		assert.Equal(t, tt.want, resp.Texts(), "page %+v", tt.page)
		assert.Equal(t, 3, resp.Total)
	}
}

func TestFileSource_MissingAndInvalid(t *testing.T) {
	dir := t.TempDir()
	resp, err := FileSource{Path: filepath.Join(dir, "missing.json")}.FetchTodos(context.Background(), Page{Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, resp.Todos)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("["), 0o644))
	_, err = FileSource{Path: bad}.FetchTodos(context.Background(), Page{Limit: 5})
	assert.Error(t, err)
}
