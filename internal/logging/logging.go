package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options select where logs go and how verbose they are.
type Options struct {
	Level string // debug, info, warn, error; anything else means info
	File  string // when set, logs are appended here instead of stderr
	// Quiet drops stderr output. Used while the TUI owns the terminal.
	Quiet bool
}

// New builds a console-formatted zerolog logger. The returned closer
// releases the log file, if one was opened.
func New(opt Options) (zerolog.Logger, io.Closer, error) {
	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	switch {
	case opt.File != "":
		if err := os.MkdirAll(filepath.Dir(opt.File), 0o755); err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("mkdir log dir: %w", err)
		}
		f, err := os.OpenFile(opt.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	case opt.Quiet:
		return zerolog.Nop(), closer, nil
	}

	return NewWithWriter(out, opt.Level), closer, nil
}

// NewWithWriter builds a logger writing console lines to w.
func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    w != os.Stderr,
	}
	return zerolog.New(output).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel maps a config string onto a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
