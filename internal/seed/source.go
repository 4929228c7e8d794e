// Package seed populates an empty todo list once from a remote or local
// source of todos.
package seed

import "context"

// Page selects a window of the remote list.
type Page struct {
	Limit int
	Skip  int
}

// RemoteTodo is one entry of the remote list.
type RemoteTodo struct {
	ID        int    `json:"id"`
	Todo      string `json:"todo"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId"`
}

// Response is the remote list payload.
type Response struct {
	Todos []RemoteTodo `json:"todos"`
	Total int          `json:"total"`
	Skip  int          `json:"skip"`
	Limit int          `json:"limit"`
}

// Texts returns the todo texts in order.
func (r *Response) Texts() []string {
	out := make([]string, 0, len(r.Todos))
	for _, t := range r.Todos {
		out = append(out, t.Todo)
	}
	return out
}

// Source fetches one page of seed todos.
type Source interface {
	FetchTodos(ctx context.Context, p Page) (*Response, error)
}
