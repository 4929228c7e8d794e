package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// FileSource serves seed todos from a JSON file shaped like the remote
// payload ({"todos": [...]}). Handy offline or in demos.
type FileSource struct {
	Path string
}

// FetchTodos reads the file and returns the requested window of it. A missing
// file yields an empty page.
func (f FileSource) FetchTodos(ctx context.Context, p Page) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Response{Todos: []RemoteTodo{}, Skip: p.Skip, Limit: p.Limit}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var all Response
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	total := len(all.Todos)
	start := min(max(p.Skip, 0), total)
	end := total
	if p.Limit > 0 {
		end = min(start+p.Limit, total)
	}
	return &Response{
		Todos: all.Todos[start:end],
		Total: total,
		Skip:  p.Skip,
		Limit: p.Limit,
	}, nil
}
