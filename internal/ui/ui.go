package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"taskpad/internal/config"
	"taskpad/internal/form"
	"taskpad/internal/store"
	"taskpad/internal/task"
)

type Model struct {
	store    *store.Store
	cfg      config.Config
	log      *slog.Logger
	cursor   int
	status   string
	form     *formModel
	progress progress.Model
	now      func() time.Time
}

type Option func(*Model)

func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.log = l }
}

func New(st *store.Store, cfg config.Config, opts ...Option) Model {
	m := Model{
		store:    st,
		cfg:      cfg,
		log:      slog.New(slog.DiscardHandler),
		status:   fmt.Sprintf("Press '%s' to add, '%s' to toggle, '%s' to delete.", cfg.Keys.Add, keyName(cfg.Keys.Toggle), cfg.Keys.Delete),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(40)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func Run(st *store.Store, cfg config.Config, configPath string, firstLaunch bool, opts ...Option) error {
	m := New(st, cfg, opts...)
	if firstLaunch {
		m.status = fmt.Sprintf("Welcome! Wrote default config to %s. Press '%s' to add your first task.", configPath, cfg.Keys.Add)
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.store.Mode().Kind {
		case store.ModeAdding, store.ModeEditing:
			return m.updateFormMode(msg.String(), msg)
		case store.ModeConfirmingDelete:
			return m.updateDeleteConfirm(msg.String())
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		width := msg.Width - 10
		if width > 60 {
			width = 60
		}
		if width > 0 {
			m.progress.Width = width
		}
	}
	return m, nil
}

func (m Model) visible() []task.Task {
	return m.store.View()
}

func (m Model) selected() (task.Task, bool) {
	view := m.visible()
	if len(view) == 0 {
		return task.Task{}, false
	}
	return view[clampCursor(m.cursor, len(view))], true
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	n := len(m.visible())
	switch key {
	case m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, n)
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, n)
	case m.cfg.Keys.Add:
		m.store.BeginAdd()
		m.form = newFormModel(form.Input{}, false)
		m.status = "New task: tab to move between fields, enter to save, esc to cancel"
	case m.cfg.Keys.Edit:
		t, ok := m.selected()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		if err := m.store.BeginEdit(t.ID); err != nil {
			m.status = fmt.Sprintf("edit failed: %v", err)
			return m, nil
		}
		m.form = newFormModel(form.FromTask(t), true)
		m.status = "Editing: tab to move between fields, enter to save, esc to cancel"
	case m.cfg.Keys.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.store.Toggle(t.ID); err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
			return m, nil
		}
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		if t.Completed {
			m.status = "Marked incomplete"
		} else {
			m.status = "Marked complete"
		}
	case m.cfg.Keys.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.store.BeginDelete(t.ID); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			return m, nil
		}
		m.status = fmt.Sprintf("Delete %q? y/n", t.Name)
	case m.cfg.Keys.Filter:
		return m.setFilter(m.store.Filter().Next())
	case m.cfg.Keys.FilterAll:
		return m.setFilter(task.FilterAll)
	case m.cfg.Keys.FilterTodo:
		return m.setFilter(task.FilterActive)
	case m.cfg.Keys.FilterDone:
		return m.setFilter(task.FilterCompleted)
	case m.cfg.Keys.Sort:
		m.store.SetSort(m.store.Sort().Next())
		m.status = "Sort: " + m.store.Sort().Label()
	}
	return m, nil
}

func (m Model) setFilter(f task.Filter) (tea.Model, tea.Cmd) {
	m.store.SetFilter(f)
	m.cursor = clampCursor(m.cursor, len(m.visible()))
	m.status = "Showing: " + f.Label()
	return m, nil
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.store.Cancel()
		return m, nil
	}
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.store.Cancel()
		m.form = nil
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.NextField, "down":
		m.form.move(1)
		return m, nil
	case m.cfg.Keys.PrevField, "up":
		m.form.move(-1)
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		return m.submitForm()
	}
	if m.form.current() == form.FieldPriority {
		switch key {
		case "left", "h", "-":
			m.form.cyclePriority(false)
		case "right", "l", "+", " ":
			m.form.cyclePriority(true)
		}
		return m, nil
	}
	return m, m.form.update(msg)
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	draft, ok := m.form.submit()
	if !ok {
		m.status = "Please fix the highlighted fields"
		return m, nil
	}
	editing := m.form.editing
	saved, err := m.store.Submit(draft)
	m.form = nil
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			m.status = "Task no longer exists"
		} else {
			m.status = fmt.Sprintf("save failed: %v", err)
		}
		return m, nil
	}
	m.log.Info("task saved", "id", saved.ID, "edit", editing)
	m.cursor = m.indexOf(saved.ID)
	if editing {
		m.status = "Saved changes"
	} else {
		m.status = "Added task"
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel, "esc":
		m.store.Cancel()
		m.status = "Delete cancelled"
		return m, nil
	case "y", "Y", m.cfg.Keys.Confirm:
		target, _ := m.store.Target()
		if err := m.store.ConfirmDelete(); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			return m, nil
		}
		m.log.Info("task deleted", "id", target.ID)
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		m.status = "Deleted task"
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) indexOf(id string) int {
	for i, t := range m.visible() {
		if t.ID == id {
			return i
		}
	}
	return clampCursor(m.cursor, len(m.visible()))
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func keyName(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
