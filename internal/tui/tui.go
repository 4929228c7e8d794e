// Package tui is the interactive terminal view of a session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/idilsaglam/tada/internal/seed"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/ui"
)

const emptyTitleMsg = "Title cannot be empty"

// listItem adapts a todo to bubbles/list.Item
type listItem struct {
	id   int64
	text string
	done bool
}

func (i listItem) Title() string       { return i.text }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.text }

// itemDelegate renders one todo per line in the current theme.
type itemDelegate struct{ theme ui.Theme }

func (d itemDelegate) Height() int                         { return 1 }
func (d itemDelegate) Spacing() int                        { return 0 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	box, text := d.theme.Muted.Render(d.theme.BoxUnchecked), it.text
	if it.done {
		box, text = d.theme.Success.Render(d.theme.BoxChecked), d.theme.Done.Render(it.text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = d.theme.Selected.Render(">") + " "
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeName
)

// Refreshes counts how often each component re-read its slice.
type Refreshes struct {
	Greeting int
	Toggle   int
	List     int
	Status   int
}

// Model is the bubbletea model. Components keep the last snapshot of their
// slice and only re-read it when that slice signals a change.
type Model struct {
	ctx    context.Context
	sess   *store.Session
	seeder *seed.Seeder
	sig    *signals
	log    zerolog.Logger

	// component snapshots
	theme  ui.Theme
	name   string
	todos  store.Todos
	status seed.Status

	list list.Model
	ti   textinput.Model
	spin spinner.Model
	keys keyMap

	mode     mode
	inputErr string

	width, height int
	refreshes     Refreshes
}

type keyMap struct {
	add, toggle, remove, name, theme, quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		remove: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		name:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "name")),
		theme:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		quit:   key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
	}
}

// New builds the view for sess. seeder may be nil when seeding is disabled.
func New(ctx context.Context, sess *store.Session, seeder *seed.Seeder, log zerolog.Logger) Model {
	m := Model{
		ctx:    ctx,
		sess:   sess,
		seeder: seeder,
		sig:    newSignals(sess, seeder),
		log:    log.With().Str("component", "tui").Logger(),
		keys:   newKeyMap(),
		width:  80,
		height: 24,
	}

	m.theme = ui.For(sess.Prefs.Theme())
	m.name = sess.Prefs.DisplayName()
	m.todos = sess.Todos.Todos()
	if seeder != nil {
		m.status = seeder.Status()
	}

	l := list.New(toItems(m.todos), itemDelegate{theme: m.theme}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	l.KeyMap.Quit.SetEnabled(false)
	extra := func() []key.Binding {
		return []key.Binding{m.keys.add, m.keys.toggle, m.keys.remove, m.keys.name, m.keys.theme, m.keys.quit}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra
	m.list = l
	m.applyTheme()

	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.CharLimit = 200

	m.spin = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.resize()
	return m
}

// Run starts the program on the terminal and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, sess *store.Session, seeder *seed.Seeder, log zerolog.Logger) error {
	m := New(ctx, sess, seeder, log)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// Close detaches the view from the stores.
func (m Model) Close() { m.sig.close() }

// Refreshes reports per-component refresh counts.
func (m Model) Refreshes() Refreshes { return m.refreshes }

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.sig.wait(sliceTodos),
		m.sig.wait(sliceTheme),
		m.sig.wait(sliceName),
	}
	if m.seeder != nil {
		cmds = append(cmds, m.sig.wait(sliceSeed), m.runSeeder(), m.spin.Tick)
	}
	return tea.Batch(cmds...)
}

func (m Model) runSeeder() tea.Cmd {
	sd, ctx := m.seeder, m.ctx
	return func() tea.Msg {
		sd.Run(ctx)
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		cmd := m.refresh(msg.slice)
		return m, tea.Batch(cmd, m.sig.wait(msg.slice))

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.status.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeName:
			return m.updateName(msg)
		}
		if m.list.FilterState() != list.Filtering {
			if next, cmd, handled := m.updateBrowse(msg); handled {
				return next, cmd
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.toggle):
		if it, ok := m.selected(); ok {
			m.sess.Todos.Toggle(it.id)
		}
		return m, nil, true

	case key.Matches(msg, m.keys.remove):
		if it, ok := m.selected(); ok {
			m.sess.Todos.Delete(it.id)
		}
		return m, nil, true

	case key.Matches(msg, m.keys.add):
		m.mode = modeAdd
		m.inputErr = ""
		m.ti.SetValue("")
		m.ti.Placeholder = "New item title..."
		m.resize()
		cmd := m.ti.Focus()
		return m, cmd, true

	case key.Matches(msg, m.keys.name):
		m.mode = modeName
		m.inputErr = ""
		m.ti.SetValue(m.name)
		m.ti.CursorEnd()
		m.ti.Placeholder = "Your name..."
		m.resize()
		cmd := m.ti.Focus()
		return m, cmd, true

	case key.Matches(msg, m.keys.theme):
		m.sess.Prefs.ToggleTheme()
		return m, nil, true
	}
	return m, nil, false
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := m.ti.Value()
		if err := store.ValidateText(text); err != nil {
			m.inputErr = emptyTitleMsg
			return m, nil
		}
		m.sess.Todos.Add(text)
		m.closeInput()
		return m, nil
	case "esc":
		m.closeInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

// updateName writes every keystroke through to the prefs store, so the
// greeting follows the input live.
func (m Model) updateName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.closeInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	m.sess.Prefs.SetDisplayName(m.ti.Value())
	return m, cmd
}

func (m *Model) closeInput() {
	m.mode = modeBrowse
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

func (m Model) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it, ok
}

// refresh re-reads one slice and updates the component that shows it.
func (m *Model) refresh(sl slice) tea.Cmd {
	m.log.Debug().Stringer("slice", sl).Msg("refresh")
	switch sl {
	case sliceTodos:
		m.todos = m.sess.Todos.Todos()
		m.refreshes.List++
		m.list.Title = m.theme.Header(m.todos)
		return m.list.SetItems(toItems(m.todos))

	case sliceTheme:
		m.theme = ui.For(m.sess.Prefs.Theme())
		m.refreshes.Toggle++
		m.applyTheme()

	case sliceName:
		m.name = m.sess.Prefs.DisplayName()
		m.refreshes.Greeting++

	case sliceSeed:
		if m.seeder == nil {
			return nil
		}
		prev := m.status
		m.status = m.seeder.Status()
		m.refreshes.Status++
		if m.status.Loading() && !prev.Loading() {
			return m.spin.Tick
		}
	}
	return nil
}

func (m *Model) applyTheme() {
	m.list.SetDelegate(itemDelegate{theme: m.theme})
	m.list.Title = m.theme.Header(m.todos)
	m.list.Styles.Title = lipgloss.NewStyle()
	m.list.Styles.HelpStyle = m.theme.Help
	m.list.Styles.PaginationStyle = m.theme.Help
	m.spin.Style = m.theme.Accent
}

func (m *Model) resize() {
	h := m.height - 8
	if m.mode != modeBrowse {
		h -= 4
	}
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
}

func (m Model) View() string {
	parts := []string{
		m.viewGreeting(),
		m.theme.Help.Render("[t] ") + m.theme.Accent.Render(m.theme.ToggleLabel()),
	}
	if s := m.viewStatus(); s != "" {
		parts = append(parts, s)
	}
	parts = append(parts, "", m.list.View())
	if m.mode != modeBrowse {
		parts = append(parts, m.viewInput())
	}
	return m.theme.Frame(strings.Join(parts, "\n"))
}

func (m Model) viewGreeting() string {
	if m.name == "" {
		return m.theme.Title.Render("Hello!")
	}
	return m.theme.Title.Render("Hello, ") + m.theme.Accent.Render(m.name) + m.theme.Title.Render("!")
}

func (m Model) viewStatus() string {
	switch {
	case m.status.Loading():
		return m.spin.View() + m.theme.Muted.Render(" Loading todos...")
	case m.status.Failed():
		return m.theme.Error.Render("Could not load todos: " + m.status.Err.Error())
	}
	return ""
}

func (m Model) viewInput() string {
	title := "Add new item"
	if m.mode == modeName {
		title = "Edit display name"
	}
	if m.inputErr != "" {
		title += "  " + m.theme.Error.Render(m.inputErr)
	}
	box := lipgloss.NewStyle().Border(m.theme.Border).BorderForeground(m.theme.BorderColor).Padding(0, 1)
	return box.Render(title + "\n" + m.ti.View())
}

func toItems(todos store.Todos) []list.Item {
	out := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		out = append(out, listItem{id: t.ID, text: t.Text, done: t.Completed})
	}
	return out
}
