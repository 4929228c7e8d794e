// Package cli drives a session from line-oriented commands, one command per
// line, without a terminal UI.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/ui"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Runner applies commands to one session.
type Runner struct {
	sess   *store.Session
	out    io.Writer
	errOut io.Writer
}

// New returns a runner writing results to out and failures to errOut.
func New(sess *store.Session, out, errOut io.Writer) *Runner {
	return &Runner{sess: sess, out: out, errOut: errOut}
}

func (r *Runner) theme() ui.Theme { return ui.For(r.sess.Prefs.Theme()) }

// RunScript executes every line of in. Blank lines and lines starting with #
// are skipped. It stops at the first failing command and returns its code.
func (r *Runner) RunScript(in io.Reader) int {
	sc := bufio.NewScanner(in)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if code := r.Run(strings.Fields(text)); code != ExitOK {
			fmt.Fprintf(r.errOut, "line %d: %s\n", line, text)
			return code
		}
	}
	if err := sc.Err(); err != nil {
		r.theme().Fail(r.errOut, "read script: "+err.Error())
		return ExitError
	}
	return ExitOK
}

// Run dispatches one command and returns an exit code (0 ok, 1 error, 2 usage).
func (r *Runner) Run(args []string) int {
	if len(args) == 0 {
		PrintHelp(r.errOut)
		return ExitUsage
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(r.out)
		return ExitOK

	case "ls":
		switch {
		case len(a) == 0:
			return r.doList(false)
		case len(a) == 1 && (a[0] == "--group" || a[0] == "-g"):
			return r.doList(true)
		}
		r.theme().Fail(r.errOut, "usage: ls [--group]")
		return ExitUsage

	case "add":
		if len(a) == 0 {
			r.theme().Fail(r.errOut, "usage: add <text...>")
			return ExitUsage
		}
		return r.doAdd(strings.Join(a, " "))

	case "done", "rm":
		if len(a) != 1 {
			r.theme().Fail(r.errOut, fmt.Sprintf("usage: %s <index>", cmd))
			return ExitUsage
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			r.theme().Fail(r.errOut, cmd+": not a number: "+a[0])
			return ExitUsage
		}
		if cmd == "done" {
			return r.doToggle(n)
		}
		return r.doRemove(n)

	case "theme":
		return r.doTheme(a)

	case "name":
		r.sess.Prefs.SetDisplayName(strings.Join(a, " "))
		r.theme().OK(r.out, "name set")
		return ExitOK
	}

	r.theme().Fail(r.errOut, "unknown command: "+cmd)
	fmt.Fprintln(r.errOut)
	PrintHelp(r.errOut)
	return ExitUsage
}

// PrintHelp writes the command reference to w.
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `tada script - drive a todo session from commands

Commands (one per line):
  add <text...>        Add a new item
  ls [--group]         List items, optionally grouped by pending/done
  done <index>         Toggle done for item at 1-based index
  rm <index>           Remove item at 1-based index
  theme [light|dark]   Set the theme, or toggle it when no value is given
  name [text...]       Set the display name (empty is allowed)
  help                 Show this help

Example:
  add Buy milk
  add Walk the dog
  done 1
  ls
`)
}

func (r *Runner) doList(group bool) int {
	th := r.theme()
	todos := r.sess.Todos.Todos()
	d, p := todos.Stats()

	var lines []string
	lines = append(lines, th.Title.Render("Hello, ")+th.Accent.Render(r.sess.Prefs.DisplayName()))
	lines = append(lines, th.Header(todos))
	lines = append(lines, th.Muted.Render(ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")
	if group {
		lines = append(lines, th.GroupLines(todos)...)
	} else {
		lines = append(lines, th.ListLines(todos)...)
	}
	lines = append(lines, "")
	lines = append(lines, th.Muted.Render("Tip: add with `add Buy milk`"))
	fmt.Fprintln(r.out, th.Panel(lines))
	return ExitOK
}

func (r *Runner) doAdd(text string) int {
	if err := store.ValidateText(text); err != nil {
		r.theme().Fail(r.errOut, "add: "+err.Error())
		return ExitUsage
	}
	r.sess.Todos.Add(text)
	r.theme().OK(r.out, "added")
	return ExitOK
}

// at resolves a 1-based index against the current snapshot.
func (r *Runner) at(userIndex int) (*model.Todo, bool) {
	todos := r.sess.Todos.Todos()
	if userIndex < 1 || userIndex > len(todos) {
		th := r.theme()
		th.Fail(r.errOut, fmt.Sprintf("index out of range: have %d, got %d", len(todos), userIndex))
		fmt.Fprintln(r.errOut, th.Muted.Render("Hint: run `ls` to see valid indexes"))
		return nil, false
	}
	return todos[userIndex-1], true
}

func (r *Runner) doToggle(userIndex int) int {
	it, ok := r.at(userIndex)
	if !ok {
		return ExitUsage
	}
	r.sess.Todos.Toggle(it.ID)
	r.theme().OK(r.out, "toggled")
	return ExitOK
}

func (r *Runner) doRemove(userIndex int) int {
	it, ok := r.at(userIndex)
	if !ok {
		return ExitUsage
	}
	r.sess.Todos.Delete(it.ID)
	r.theme().OK(r.out, "removed")
	return ExitOK
}

func (r *Runner) doTheme(a []string) int {
	switch len(a) {
	case 0:
		r.sess.Prefs.ToggleTheme()
	case 1:
		t, ok := model.ParseTheme(a[0])
		if !ok {
			r.theme().Fail(r.errOut, "theme must be light or dark, got "+strconv.Quote(a[0]))
			return ExitUsage
		}
		r.sess.Prefs.SetTheme(t)
	default:
		r.theme().Fail(r.errOut, "usage: theme [light|dark]")
		return ExitUsage
	}
	r.theme().OK(r.out, "theme "+string(r.sess.Prefs.Theme()))
	return ExitOK
}
